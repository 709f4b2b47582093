package permission

import (
	"context"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RoleCleaner cascades permission deletions into role documents. Satisfied by
// the role repository; declared here to keep the dependency one-directional.
type RoleCleaner interface {
	RemovePermissionFromAll(ctx context.Context, permID primitive.ObjectID) error
}

type PermissionService interface {
	CreatePermission(ctx context.Context, name, description string) (*Permission, error)
	GetPermission(ctx context.Context, id string) (*Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	UpdatePermission(ctx context.Context, id, name, description string) error
	DeletePermission(ctx context.Context, id string) error
}

type PermissionServiceImpl struct {
	Repo     PermissionRepository
	Roles    RoleCleaner
	Cache    *cache.Cache
	Recorder actionlog.Recorder
}

func NewPermissionService(repo PermissionRepository, roles RoleCleaner, c *cache.Cache, recorder actionlog.Recorder) PermissionService {
	return &PermissionServiceImpl{
		Repo:     repo,
		Roles:    roles,
		Cache:    c,
		Recorder: recorder,
	}
}

func (s *PermissionServiceImpl) CreatePermission(ctx context.Context, name, description string) (*Permission, error) {
	perm := Permission{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.Repo.Create(ctx, &perm); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrPermissionExists
		}
		return nil, err
	}

	if err := s.invalidate(ctx); err != nil {
		return nil, err
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "permissions", perm.ID.Hex(), "permission created: "+name)
	return &perm, nil
}

func (s *PermissionServiceImpl) GetPermission(ctx context.Context, id string) (*Permission, error) {
	perm, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrPermissionsNotFound
		}
		return nil, err
	}
	return perm, nil
}

func (s *PermissionServiceImpl) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.Repo.List(ctx)
}

func (s *PermissionServiceImpl) UpdatePermission(ctx context.Context, id, name, description string) error {
	if _, err := s.GetPermission(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, id, name, description); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.ErrPermissionExists
		}
		return err
	}

	if err := s.invalidate(ctx); err != nil {
		return err
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUpdate, "permissions", id, "permission renamed: "+name)
	return nil
}

// DeletePermission removes the document and pulls its reference out of every
// role, so no role holds a dangling id afterwards.
func (s *PermissionServiceImpl) DeletePermission(ctx context.Context, id string) error {
	perm, err := s.GetPermission(ctx, id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Roles.RemovePermissionFromAll(ctx, perm.ID); err != nil {
		return err
	}

	if err := s.invalidate(ctx); err != nil {
		return err
	}
	s.Recorder.Enqueue(ctx, common_models.ActionDelete, "permissions", id, "permission deleted: "+perm.Name)
	return nil
}

// invalidate clears both the permission entries and the cached role
// expansions, which embed permission names.
func (s *PermissionServiceImpl) invalidate(ctx context.Context) error {
	if err := s.Cache.InvalidateTable(ctx, "permissions"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	if err := s.Cache.InvalidateTable(ctx, "roles"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	return nil
}
