package user

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/role"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultRoleName is assigned to self-registered accounts. The role is
// created on first use so a fresh deployment does not need a seed run
// before signups work.
const DefaultRoleName = "user"

type RegisterInput struct {
	Email    string
	UserName string
	Password string
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*common_models.Identity, error)
	GetUser(ctx context.Context, id string) (*common_models.Identity, error)
	ListUsers(ctx context.Context, limit, offset int64) ([]common_models.Identity, int64, error)
	UpdateUser(ctx context.Context, id string, userName string) error
	RemoveUser(ctx context.Context, id string) error
}

type UserServiceImpl struct {
	Users    repository.UserRepository
	Roles    role.RoleRepository
	Cache    *cache.Cache
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, roles role.RoleRepository, c *cache.Cache, recorder actionlog.Recorder, logger *zap.Logger) UserService {
	return &UserServiceImpl{
		Users:    users,
		Roles:    roles,
		Cache:    c,
		Recorder: recorder,
		Logger:   logger,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, input RegisterInput) (*common_models.Identity, error) {
	roleID, err := s.defaultRole(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := common_models.Identity{
		ID:        primitive.NewObjectID(),
		Email:     input.Email,
		UserName:  input.UserName,
		Password:  hash,
		Role:      roleID,
		Devices:   []common_models.Device{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.Users.Create(ctx, &user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrEmailTaken
		}
		return nil, err
	}

	if err := s.Cache.InvalidateTable(ctx, "users"); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "users", user.ID.Hex(), "user registered: "+input.Email)
	return &user, nil
}

func (s *UserServiceImpl) defaultRole(ctx context.Context) (primitive.ObjectID, error) {
	r, err := s.Roles.FindByName(ctx, DefaultRoleName)
	if err == nil {
		return r.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, err
	}

	created := role.Role{
		ID:          primitive.NewObjectID(),
		Name:        DefaultRoleName,
		Description: "default role for self-registered accounts",
		Permissions: []primitive.ObjectID{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.Roles.Create(ctx, &created); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Lost the bootstrap race; the winner's role is the one to use.
			if r, err := s.Roles.FindByName(ctx, DefaultRoleName); err == nil {
				return r.ID, nil
			}
		}
		return primitive.NilObjectID, err
	}
	s.Logger.Info("bootstrapped default role", zap.String("role", DefaultRoleName))
	return created.ID, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id string) (*common_models.Identity, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context, limit, offset int64) ([]common_models.Identity, int64, error) {
	return s.Users.List(ctx, map[string]interface{}{"removed_at": nil}, limit, offset)
}

func (s *UserServiceImpl) UpdateUser(ctx context.Context, id string, userName string) error {
	if userName == "" {
		return apperr.ErrBadRequest
	}
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.Users.Update(ctx, id, map[string]interface{}{"userName": userName}); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrEmailTaken
		}
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "users"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUpdate, "users", id, "user updated")
	return nil
}

func (s *UserServiceImpl) RemoveUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}

	if err := s.Users.SoftDelete(ctx, id); err != nil {
		return err
	}

	if err := s.Cache.InvalidateTable(ctx, "users"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionDelete, "users", id, "user removed")
	return nil
}
