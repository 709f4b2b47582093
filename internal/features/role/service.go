package role

import (
	"context"
	"slices"
	"time"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const permCacheTTL = 5 * time.Minute

type RoleService interface {
	CreateRole(ctx context.Context, name, description string, permissionIDs []string) (*Role, error)
	GetRole(ctx context.Context, id string) (*RoleView, error)
	ListRoles(ctx context.Context) ([]Role, error)
	AssignByIDs(ctx context.Context, roleID string, permissionIDs []string) error
	AssignByNames(ctx context.Context, roleID string, names []string) error
	RemoveByIDs(ctx context.Context, roleID string, permissionIDs []string) error
	RemoveByNames(ctx context.Context, roleID string, names []string) error
	IsValidRole(ctx context.Context, roleID, permissionName string) (bool, error)
	AnyValid(ctx context.Context, roleID string, names []string) (string, bool, error)
}

type RoleServiceImpl struct {
	RoleRepo RoleRepository
	PermRepo permission.PermissionRepository
	Cache    *cache.Cache
	Recorder actionlog.Recorder
	Logger   *zap.Logger
}

func NewRoleService(roleRepo RoleRepository, permRepo permission.PermissionRepository, c *cache.Cache, recorder actionlog.Recorder, logger *zap.Logger) RoleService {
	return &RoleServiceImpl{
		RoleRepo: roleRepo,
		PermRepo: permRepo,
		Cache:    c,
		Recorder: recorder,
		Logger:   logger,
	}
}

func (s *RoleServiceImpl) CreateRole(ctx context.Context, name, description string, permissionIDs []string) (*Role, error) {
	if _, err := s.RoleRepo.FindByName(ctx, name); err == nil {
		return nil, apperr.ErrRoleExists
	} else if err != mongo.ErrNoDocuments {
		return nil, err
	}

	perms, err := s.resolveByIDs(ctx, permissionIDs)
	if err != nil {
		return nil, err
	}

	role := Role{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Permissions: permIDs(perms),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.RoleRepo.Create(ctx, &role); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperr.ErrRoleExists
		}
		return nil, err
	}

	if err := s.Cache.InvalidateTable(ctx, "roles"); err != nil {
		return nil, apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionCreate, "roles", role.ID.Hex(), "role created: "+name)
	return &role, nil
}

// GetRole expands the permission set. A reference that no longer resolves is
// surfaced as an integrity error instead of being silently dropped.
func (s *RoleServiceImpl) GetRole(ctx context.Context, id string) (*RoleView, error) {
	role, err := s.RoleRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrRoleNotFound
		}
		return nil, err
	}

	perms, err := s.PermRepo.FindByIDs(ctx, role.Permissions)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(role.Permissions) {
		s.Logger.Error("role holds dangling permission references",
			zap.String("role", role.Name),
			zap.Int("referenced", len(role.Permissions)),
			zap.Int("resolved", len(perms)))
		return nil, apperr.ErrIntegrity
	}

	return &RoleView{Role: *role, Expanded: perms}, nil
}

func (s *RoleServiceImpl) ListRoles(ctx context.Context) ([]Role, error) {
	return s.RoleRepo.List(ctx)
}

func (s *RoleServiceImpl) AssignByIDs(ctx context.Context, roleID string, permissionIDs []string) error {
	perms, err := s.resolveByIDs(ctx, permissionIDs)
	if err != nil {
		return err
	}
	return s.assign(ctx, roleID, perms)
}

func (s *RoleServiceImpl) AssignByNames(ctx context.Context, roleID string, names []string) error {
	perms, err := s.resolveByNames(ctx, names)
	if err != nil {
		return err
	}
	return s.assign(ctx, roleID, perms)
}

func (s *RoleServiceImpl) RemoveByIDs(ctx context.Context, roleID string, permissionIDs []string) error {
	perms, err := s.resolveByIDs(ctx, permissionIDs)
	if err != nil {
		return err
	}
	return s.remove(ctx, roleID, perms)
}

func (s *RoleServiceImpl) RemoveByNames(ctx context.Context, roleID string, names []string) error {
	perms, err := s.resolveByNames(ctx, names)
	if err != nil {
		return err
	}
	return s.remove(ctx, roleID, perms)
}

// assign is the single internal mutation behind both addressing modes. The
// whole batch aborts when any member is already present.
func (s *RoleServiceImpl) assign(ctx context.Context, roleID string, perms []permission.Permission) error {
	role, err := s.RoleRepo.FindByID(ctx, roleID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrRoleNotFound
		}
		return err
	}

	for _, p := range perms {
		if slices.Contains(role.Permissions, p.ID) {
			return apperr.ErrPermissionAlreadyOnRole
		}
	}

	if err := s.RoleRepo.AddPermissions(ctx, roleID, permIDs(perms)); err != nil {
		return err
	}
	if err := s.Cache.InvalidateTable(ctx, "roles"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionAssign, "roles", roleID, "permissions assigned")
	return nil
}

func (s *RoleServiceImpl) remove(ctx context.Context, roleID string, perms []permission.Permission) error {
	role, err := s.RoleRepo.FindByID(ctx, roleID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperr.ErrRoleNotFound
		}
		return err
	}

	for _, p := range perms {
		if !slices.Contains(role.Permissions, p.ID) {
			return apperr.ErrPermissionNotOnRole
		}
	}

	if err := s.RoleRepo.RemovePermissions(ctx, roleID, permIDs(perms)); err != nil {
		return err
	}
	if err := s.Cache.InvalidateTable(ctx, "roles"); err != nil {
		return apperr.ErrUpstreamFailure
	}
	s.Recorder.Enqueue(ctx, common_models.ActionUnassign, "roles", roleID, "permissions removed")
	return nil
}

// IsValidRole reports whether the role's expanded permission set contains the
// named permission.
func (s *RoleServiceImpl) IsValidRole(ctx context.Context, roleID, permissionName string) (bool, error) {
	matched, ok, err := s.AnyValid(ctx, roleID, []string{permissionName})
	return ok && matched == permissionName, err
}

// AnyValid returns the first of names held by the role. Expanded names are
// cached under the "roles-" prefix so the guard's fallback path does not hit
// Mongo on every request; role mutations invalidate the prefix.
func (s *RoleServiceImpl) AnyValid(ctx context.Context, roleID string, names []string) (string, bool, error) {
	held, err := s.permissionNames(ctx, roleID)
	if err != nil {
		return "", false, err
	}
	for _, name := range names {
		if slices.Contains(held, name) {
			return name, true, nil
		}
	}
	return "", false, nil
}

func (s *RoleServiceImpl) permissionNames(ctx context.Context, roleID string) ([]string, error) {
	cacheKey := cache.Key("roles", "perms-"+roleID)

	var held []string
	if ok, _ := s.Cache.GetJSON(ctx, cacheKey, &held); ok {
		return held, nil
	}

	role, err := s.RoleRepo.FindByID(ctx, roleID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrRoleNotFound
		}
		return nil, err
	}

	perms, err := s.PermRepo.FindByIDs(ctx, role.Permissions)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(role.Permissions) {
		s.Logger.Error("role holds dangling permission references", zap.String("role", role.Name))
		return nil, apperr.ErrIntegrity
	}

	held = make([]string, 0, len(perms))
	for _, p := range perms {
		held = append(held, p.Name)
	}

	if err := s.Cache.SetJSON(ctx, cacheKey, held, permCacheTTL); err != nil {
		s.Logger.Warn("failed to cache role permissions", zap.Error(err))
	}
	return held, nil
}

func (s *RoleServiceImpl) resolveByIDs(ctx context.Context, permissionIDs []string) ([]permission.Permission, error) {
	ids := make([]primitive.ObjectID, 0, len(permissionIDs))
	for _, hex := range permissionIDs {
		oid, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, apperr.ErrPermissionsNotFound
		}
		if !slices.Contains(ids, oid) {
			ids = append(ids, oid)
		}
	}

	perms, err := s.PermRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(ids) {
		return nil, apperr.ErrPermissionsNotFound
	}
	return perms, nil
}

func (s *RoleServiceImpl) resolveByNames(ctx context.Context, names []string) ([]permission.Permission, error) {
	unique := make([]string, 0, len(names))
	for _, name := range names {
		if !slices.Contains(unique, name) {
			unique = append(unique, name)
		}
	}

	perms, err := s.PermRepo.FindByNames(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(perms) != len(unique) {
		return nil, apperr.ErrPermissionsNotFound
	}
	return perms, nil
}

func permIDs(perms []permission.Permission) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids
}
