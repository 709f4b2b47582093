package actionlog

import (
	"context"
	"time"

	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Recorder accepts audit entries after successful mutations. Enqueue is
// best-effort and never blocks the request path; persistence happens on a
// background worker.
type Recorder interface {
	Enqueue(ctx context.Context, action common_models.ActionType, table, itemID, description string)
	List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error)
}

type RecorderImpl struct {
	Repo    ActionLogRepository
	Logger  *zap.Logger
	entries chan common_models.ActionLog
	done    chan struct{}
}

func NewRecorder(lc fx.Lifecycle, repo ActionLogRepository, logger *zap.Logger) Recorder {
	r := &RecorderImpl{
		Repo:    repo,
		Logger:  logger,
		entries: make(chan common_models.ActionLog, 1000),
		done:    make(chan struct{}),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go r.process()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(r.entries)
			select {
			case <-r.done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	return r
}

// Enqueue pushes an entry onto the worker channel. The acting admin id is
// pulled from the request context claims; "system" when absent (seeding,
// background jobs). A full channel drops the entry rather than stalling the
// response.
func (r *RecorderImpl) Enqueue(ctx context.Context, action common_models.ActionType, table, itemID, description string) {
	adminID := "system"
	if claims, ok := ctx.Value(utils.ClaimsKey).(*utils.IdentityClaims); ok {
		adminID = claims.UserID
	}

	entry := common_models.ActionLog{
		ID:          primitive.NewObjectID(),
		AdminID:     adminID,
		ActionType:  action,
		Table:       table,
		ItemID:      itemID,
		Description: description,
		Timestamp:   time.Now(),
	}

	select {
	case r.entries <- entry:
	default:
		r.Logger.Warn("action log channel full, dropping entry",
			zap.String("table", table), zap.String("item_id", itemID))
	}
}

func (r *RecorderImpl) process() {
	defer close(r.done)
	for entry := range r.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := r.Repo.Insert(ctx, entry); err != nil {
			r.Logger.Error("failed to persist action log", zap.Error(err))
		}
		cancel()
	}
}

func (r *RecorderImpl) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error) {
	return r.Repo.List(ctx, filter, page, limit)
}
