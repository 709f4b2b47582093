package auth

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/config"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// SessionSweeper periodically clears device sessions whose refresh token no
// longer validates. Without it, a client that died without calling logout
// would lock its account out forever under the single-session policy.
type SessionSweeper struct {
	Admins repository.AdminRepository
	Logger *zap.Logger
	cron   *cron.Cron
}

func NewSessionSweeper(lc fx.Lifecycle, admins repository.AdminRepository, cfg *config.Config, logger *zap.Logger) (*SessionSweeper, error) {
	s := &SessionSweeper{
		Admins: admins,
		Logger: logger,
		cron:   cron.New(),
	}

	if _, err := s.cron.AddFunc(cfg.SessionSweepSpec, s.sweep); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			s.cron.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopCtx := s.cron.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return s, nil
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	identities, err := s.Admins.FindWithDevices(ctx)
	if err != nil {
		s.Logger.Error("session sweep failed to list identities", zap.Error(err))
		return
	}

	for _, identity := range identities {
		for _, device := range identity.Devices {
			if _, err := utils.ValidateToken(device.RefreshToken, utils.RefreshToken); err == nil {
				continue
			}
			if _, err := s.Admins.RemoveDevice(ctx, device.AccessToken, device.RefreshToken); err != nil {
				s.Logger.Error("session sweep failed to remove stale device",
					zap.String("admin_id", identity.ID.Hex()), zap.Error(err))
				continue
			}
			s.Logger.Info("session sweep removed expired device session",
				zap.String("admin_id", identity.ID.Hex()),
				zap.String("ip", device.IpAddress))
		}
	}
}
