package auth

import (
	"context"
	"errors"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TokenPair is what a successful login or refresh hands back to the
// controller. The refresh token travels only through the http-only cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken, ipAddress string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) (string, error)
	CheckToken(token string, kind utils.TokenKind) (*utils.IdentityClaims, error)
}

type AuthServiceImpl struct {
	Admins   repository.AdminRepository
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewAuthService(admins repository.AdminRepository, recorder actionlog.Recorder, logger *zap.Logger) AuthService {
	return &AuthServiceImpl{
		Admins:   admins,
		Recorder: recorder,
		Logger:   logger,
	}
}

// Login proves the credentials and binds a new device session.
//
// Single-session policy: a login is rejected outright while any device session
// exists for the account. There is no "force logout other sessions" flow; the
// other device must log out (or the session sweep must reap its expired
// session) first.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*TokenPair, error) {
	admin, err := s.Admins.FindByEmail(ctx, email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// Same error as a password mismatch so callers cannot probe
			// which emails exist.
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(admin.Password, password) {
		return nil, apperr.ErrInvalidCredentials
	}
	if admin.Removed() {
		return nil, apperr.ErrAccountRemoved
	}
	if len(admin.Devices) > 0 {
		return nil, apperr.ErrAlreadyLoggedIn
	}

	access, refresh, err := utils.GeneratePair(admin.ID, admin.Email, admin.UserName, admin.Role.Hex())
	if err != nil {
		return nil, err
	}

	device := common_models.Device{
		AccessToken:  access,
		RefreshToken: refresh,
		IpAddress:    ipAddress,
		UserAgent:    userAgent,
	}
	bound, err := s.Admins.AppendDevice(ctx, admin.ID.Hex(), device)
	if err != nil {
		return nil, err
	}
	if !bound {
		// A concurrent login won the session slot between our read and the
		// conditional append.
		return nil, apperr.ErrAlreadyLoggedIn
	}

	s.Logger.Info("login", zap.String("admin_id", admin.ID.Hex()), zap.String("ip", ipAddress))
	s.Recorder.Enqueue(ctx, common_models.ActionLogin, "admins", admin.ID.Hex(), "logged in from "+ipAddress)
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates the device session addressed by the presented refresh
// token. Rotation is single-use: the old token is part of the update filter,
// so of two concurrent refreshes only one can match and the other reads as an
// invalid token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken, ipAddress string) (*TokenPair, error) {
	admin, err := s.Admins.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrInvalidToken
		}
		return nil, err
	}

	if _, err := utils.ValidateToken(refreshToken, utils.RefreshToken); err != nil {
		return nil, apperr.ErrTokenExpired
	}

	access, refresh, err := utils.GeneratePair(admin.ID, admin.Email, admin.UserName, admin.Role.Hex())
	if err != nil {
		return nil, err
	}

	userAgent := ""
	for _, d := range admin.Devices {
		if d.RefreshToken == refreshToken {
			userAgent = d.UserAgent
			break
		}
	}

	device := common_models.Device{
		AccessToken:  access,
		RefreshToken: refresh,
		IpAddress:    ipAddress,
		UserAgent:    userAgent,
	}
	rotated, err := s.Admins.ReplaceDevice(ctx, refreshToken, device)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, apperr.ErrInvalidToken
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Logout removes the device session addressed by the token pair and returns
// its last known ip for audit logging. Both tokens must resolve to the same
// stored session.
func (s *AuthServiceImpl) Logout(ctx context.Context, accessToken, refreshToken string) (string, error) {
	admin, err := s.Admins.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", apperr.ErrInvalidToken
		}
		return "", err
	}

	ipAddress := ""
	for _, d := range admin.Devices {
		if d.RefreshToken == refreshToken && d.AccessToken == accessToken {
			ipAddress = d.IpAddress
			break
		}
	}

	removed, err := s.Admins.RemoveDevice(ctx, accessToken, refreshToken)
	if err != nil {
		return "", err
	}
	if !removed {
		return "", apperr.ErrInvalidToken
	}

	s.Recorder.Enqueue(ctx, common_models.ActionLogout, "admins", admin.ID.Hex(), "logged out from "+ipAddress)
	return ipAddress, nil
}

// CheckToken verifies signature and expiry against the kind-specific secret.
// Callers get a nil claims on any failure; the middleware maps every failure
// to the same 401.
func (s *AuthServiceImpl) CheckToken(token string, kind utils.TokenKind) (*utils.IdentityClaims, error) {
	claims, err := utils.ValidateToken(token, kind)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, apperr.ErrInvalidToken
	}
	return claims, nil
}
