package admin

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/item_permission"
	"github.com/mobtwin/admin-backend/internal/features/role"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type CreateAdminInput struct {
	Email    string
	UserName string
	Password string
	RoleID   string
}

type UpdateAdminInput struct {
	UserName string
	RoleID   string
}

type AdminService interface {
	CreateAdmin(ctx context.Context, input CreateAdminInput) (*common_models.Identity, error)
	GetAdmin(ctx context.Context, id string) (*common_models.Identity, error)
	ListAdmins(ctx context.Context, limit, offset int64) ([]common_models.Identity, int64, error)
	UpdateAdmin(ctx context.Context, id string, input UpdateAdminInput) error
	RemoveAdmin(ctx context.Context, id string) error
}

type AdminServiceImpl struct {
	Admins   repository.AdminRepository
	Roles    role.RoleRepository
	Grants   item_permission.ItemPermissionService
	Cache    *cache.Cache
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewAdminService(admins repository.AdminRepository, roles role.RoleRepository, grants item_permission.ItemPermissionService, c *cache.Cache, recorder actionlog.Recorder, logger *zap.Logger) AdminService {
	return &AdminServiceImpl{
		Admins:   admins,
		Roles:    roles,
		Grants:   grants,
		Cache:    c,
		Recorder: recorder,
		Logger:   logger,
	}
}

// CreateAdmin creates an admin account and grants the creating actor
// item-specific read/update/delete on the new record.
func (s *AdminServiceImpl) CreateAdmin(ctx context.Context, input CreateAdminInput) (*common_models.Identity, error) {
	roleID, err := primitive.ObjectIDFromHex(input.RoleID)
	if err != nil {
		return nil, apperr.ErrRoleNotFound
	}
	if _, err := s.Roles.FindByID(ctx, input.RoleID); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrRoleNotFound
		}
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	admin := common_models.Identity{
		ID:        primitive.NewObjectID(),
		Email:     input.Email,
		UserName:  input.UserName,
		Password:  hash,
		Role:      roleID,
		Devices:   []common_models.Device{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.Admins.Create(ctx, &admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, err
	}

	// Creator auto-grant; a partial failure leaves earlier grants in place.
	if claims, ok := ctx.Value(utils.ClaimsKey).(*utils.IdentityClaims); ok {
		if err := s.Grants.GrantCreatorDefaults(ctx, claims.UserID, "admins", admin.ID.Hex()); err != nil {
			s.Logger.Error("creator auto-grant failed", zap.String("admin_id", admin.ID.Hex()), zap.Error(err))
		}
	}

	if err := s.Cache.InvalidateTable(ctx, "admins"); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "admins", admin.ID.Hex(), "admin created: "+input.Email)
	return &admin, nil
}

func (s *AdminServiceImpl) GetAdmin(ctx context.Context, id string) (*common_models.Identity, error) {
	admin, err := s.Admins.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, err
	}
	return admin, nil
}

func (s *AdminServiceImpl) ListAdmins(ctx context.Context, limit, offset int64) ([]common_models.Identity, int64, error) {
	return s.Admins.List(ctx, map[string]interface{}{"removed_at": nil}, limit, offset)
}

func (s *AdminServiceImpl) UpdateAdmin(ctx context.Context, id string, input UpdateAdminInput) error {
	if _, err := s.GetAdmin(ctx, id); err != nil {
		return err
	}

	set := map[string]interface{}{}
	if input.UserName != "" {
		set["userName"] = input.UserName
	}
	if input.RoleID != "" {
		roleID, err := primitive.ObjectIDFromHex(input.RoleID)
		if err != nil {
			return apperr.ErrRoleNotFound
		}
		if _, err := s.Roles.FindByID(ctx, input.RoleID); err != nil {
			if err == mongo.ErrNoDocuments {
				return apperr.ErrRoleNotFound
			}
			return err
		}
		set["role"] = roleID
	}
	if len(set) == 0 {
		return apperr.ErrBadRequest
	}

	if err := s.Admins.Update(ctx, id, set); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrEmailTaken
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "admins"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUpdate, "admins", id, "admin updated")
	return nil
}

// RemoveAdmin soft-deletes: the document keeps its history but the account
// can no longer log in or refresh.
func (s *AdminServiceImpl) RemoveAdmin(ctx context.Context, id string) error {
	if _, err := s.GetAdmin(ctx, id); err != nil {
		return err
	}

	if err := s.Admins.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "admins"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionDelete, "admins", id, "admin removed")
	return nil
}
