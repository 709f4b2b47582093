package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type MockAdminRepo struct {
	Admin *common_models.Identity
}

func (m *MockAdminRepo) Create(ctx context.Context, identity *common_models.Identity) error {
	return nil
}

func (m *MockAdminRepo) FindByID(ctx context.Context, id string) (*common_models.Identity, error) {
	if m.Admin != nil && m.Admin.ID.Hex() == id {
		return m.Admin, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockAdminRepo) FindByEmail(ctx context.Context, email string) (*common_models.Identity, error) {
	if m.Admin != nil && m.Admin.Email == email {
		return m.Admin, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockAdminRepo) FindByRefreshToken(ctx context.Context, refreshToken string) (*common_models.Identity, error) {
	if m.Admin == nil {
		return nil, mongo.ErrNoDocuments
	}
	for _, d := range m.Admin.Devices {
		if d.RefreshToken == refreshToken {
			return m.Admin, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (m *MockAdminRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]common_models.Identity, int64, error) {
	return nil, 0, nil
}

func (m *MockAdminRepo) Update(ctx context.Context, id string, set map[string]interface{}) error {
	return nil
}

func (m *MockAdminRepo) SoftDelete(ctx context.Context, id string) error {
	return nil
}

// AppendDevice mirrors the conditional push: it binds only when no session
// exists, like the production $size precondition.
func (m *MockAdminRepo) AppendDevice(ctx context.Context, id string, device common_models.Device) (bool, error) {
	if m.Admin == nil || m.Admin.ID.Hex() != id || len(m.Admin.Devices) > 0 {
		return false, nil
	}
	m.Admin.Devices = append(m.Admin.Devices, device)
	return true, nil
}

func (m *MockAdminRepo) ReplaceDevice(ctx context.Context, oldRefreshToken string, device common_models.Device) (bool, error) {
	if m.Admin == nil {
		return false, nil
	}
	for i, d := range m.Admin.Devices {
		if d.RefreshToken == oldRefreshToken {
			m.Admin.Devices[i] = device
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAdminRepo) RemoveDevice(ctx context.Context, accessToken, refreshToken string) (bool, error) {
	if m.Admin == nil {
		return false, nil
	}
	for i, d := range m.Admin.Devices {
		if d.AccessToken == accessToken && d.RefreshToken == refreshToken {
			m.Admin.Devices = append(m.Admin.Devices[:i], m.Admin.Devices[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAdminRepo) ClearDevices(ctx context.Context, id string) error {
	if m.Admin != nil {
		m.Admin.Devices = []common_models.Device{}
	}
	return nil
}

func (m *MockAdminRepo) FindWithDevices(ctx context.Context) ([]common_models.Identity, error) {
	if m.Admin != nil && len(m.Admin.Devices) > 0 {
		return []common_models.Identity{*m.Admin}, nil
	}
	return nil, nil
}

func (m *MockAdminRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

type MockRecorder struct{}

func (m *MockRecorder) Enqueue(ctx context.Context, action common_models.ActionType, table, itemID, description string) {
}

func (m *MockRecorder) List(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]common_models.ActionLog, int64, error) {
	return nil, 0, nil
}

func newTestAdmin(t *testing.T, password string) *common_models.Identity {
	t.Helper()
	utils.SetBcryptCost(4)
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatal(err)
	}
	return &common_models.Identity{
		ID:       primitive.NewObjectID(),
		Email:    "admin@example.com",
		UserName: "admin",
		Password: hash,
		Role:     primitive.NewObjectID(),
		Devices:  []common_models.Device{},
	}
}

func newAuthService(repo *MockAdminRepo) *AuthServiceImpl {
	utils.SetSecrets("test-access", "test-refresh")
	utils.SetLifetimes(time.Minute, time.Hour)
	return &AuthServiceImpl{
		Admins:   repo,
		Recorder: &MockRecorder{},
		Logger:   zap.NewNop(),
	}
}

func TestLoginBindsSingleSession(t *testing.T) {
	repo := &MockAdminRepo{Admin: newTestAdmin(t, "pass-123")}
	service := newAuthService(repo)

	pair, err := service.Login(context.Background(), "admin@example.com", "pass-123", "1.2.3.4", "go-test")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("empty token pair")
	}
	if len(repo.Admin.Devices) != 1 {
		t.Fatalf("expected 1 device session, got %d", len(repo.Admin.Devices))
	}
	device := repo.Admin.Devices[0]
	if device.IpAddress != "1.2.3.4" || device.UserAgent != "go-test" {
		t.Errorf("session metadata not recorded: %+v", device)
	}

	// A second login while the session exists is rejected.
	if _, err := service.Login(context.Background(), "admin@example.com", "pass-123", "5.6.7.8", "other"); err != apperr.ErrAlreadyLoggedIn {
		t.Errorf("expected ErrAlreadyLoggedIn, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &MockAdminRepo{Admin: newTestAdmin(t, "pass-123")}
	service := newAuthService(repo)

	if _, err := service.Login(context.Background(), "admin@example.com", "wrong", "1.2.3.4", "go-test"); err != apperr.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	repo := &MockAdminRepo{Admin: newTestAdmin(t, "pass-123")}
	service := newAuthService(repo)

	if _, err := service.Login(context.Background(), "nobody@example.com", "pass-123", "1.2.3.4", "go-test"); err != apperr.ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRemovedAccount(t *testing.T) {
	admin := newTestAdmin(t, "pass-123")
	now := time.Now()
	admin.RemovedAt = &now
	service := newAuthService(&MockAdminRepo{Admin: admin})

	if _, err := service.Login(context.Background(), "admin@example.com", "pass-123", "1.2.3.4", "go-test"); err != apperr.ErrAccountRemoved {
		t.Errorf("expected ErrAccountRemoved, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	repo := &MockAdminRepo{Admin: newTestAdmin(t, "pass-123")}
	service := newAuthService(repo)

	pair, err := service.Login(context.Background(), "admin@example.com", "pass-123", "1.2.3.4", "go-test")
	if err != nil {
		t.Fatal(err)
	}

	rotated, err := service.Refresh(context.Background(), pair.RefreshToken, "9.9.9.9")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Error("refresh token was not rotated")
	}
	if len(repo.Admin.Devices) != 1 {
		t.Fatalf("rotation must not grow the session list, got %d", len(repo.Admin.Devices))
	}
	device := repo.Admin.Devices[0]
	if device.IpAddress != "9.9.9.9" {
		t.Errorf("ip not updated: %q", device.IpAddress)
	}
	if device.UserAgent != "go-test" {
		t.Errorf("user agent must carry over: %q", device.UserAgent)
	}

	// The old token is single-use.
	if _, err := service.Refresh(context.Background(), pair.RefreshToken, "9.9.9.9"); err != apperr.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for replayed refresh token, got %v", err)
	}
}

func TestLogoutRequiresMatchingPair(t *testing.T) {
	repo := &MockAdminRepo{Admin: newTestAdmin(t, "pass-123")}
	service := newAuthService(repo)

	pair, err := service.Login(context.Background(), "admin@example.com", "pass-123", "1.2.3.4", "go-test")
	if err != nil {
		t.Fatal(err)
	}

	// A mismatched access token must not end the session.
	if _, err := service.Logout(context.Background(), "not-the-access-token", pair.RefreshToken); err != apperr.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
	if len(repo.Admin.Devices) != 1 {
		t.Fatal("session removed despite token mismatch")
	}

	ip, err := service.Logout(context.Background(), pair.AccessToken, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if ip != "1.2.3.4" {
		t.Errorf("ip = %q, want 1.2.3.4", ip)
	}
	if len(repo.Admin.Devices) != 0 {
		t.Error("session not removed")
	}
}

func TestCheckTokenExpired(t *testing.T) {
	service := newAuthService(&MockAdminRepo{})
	utils.SetLifetimes(-time.Minute, time.Hour)
	defer utils.SetLifetimes(time.Minute, time.Hour)

	token, err := utils.GenerateToken(primitive.NewObjectID(), "a@b.c", "a", "r", utils.AccessToken)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := service.CheckToken(token, utils.AccessToken); err != apperr.ErrTokenExpired {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCheckTokenGarbage(t *testing.T) {
	service := newAuthService(&MockAdminRepo{})

	if _, err := service.CheckToken("not-a-jwt", utils.AccessToken); err != apperr.ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}
