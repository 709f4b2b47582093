package main

import (
	"context"
	"os"
	"time"

	common_models "github.com/mobtwin/admin-backend/internal/common/models"
	"github.com/mobtwin/admin-backend/internal/config"
	"github.com/mobtwin/admin-backend/internal/database"
	"github.com/mobtwin/admin-backend/internal/features/permission"
	"github.com/mobtwin/admin-backend/internal/features/role"
	"github.com/mobtwin/admin-backend/internal/logger"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Tables covered by the permission grid. Every table gets the full action set;
// roles pick the subset they need.
var seedTables = []string{
	"admins", "users", "roles", "permissions", "item_permissions",
	"action_logs", "themes", "plans", "templates", "builds",
}

const ownerRoleName = "owner"

// Seed builds the permission grid, the owner role holding every permission,
// and a root admin from ROOT_ADMIN_EMAIL / ROOT_ADMIN_PASSWORD. Re-running is
// safe; existing records are kept.
func Seed(
	lc fx.Lifecycle,
	cfg *config.Config,
	permRepo permission.PermissionRepository,
	roleRepo role.RoleRepository,
	adminRepo repository.AdminRepository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("failed to shutdown", zap.Error(err))
					}
				}()

				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				defer cancel()

				utils.SetBcryptCost(cfg.BcryptCost)

				if err := permRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure permission indexes", zap.Error(err))
					return
				}
				if err := roleRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure role indexes", zap.Error(err))
					return
				}
				if err := adminRepo.EnsureIndexes(ctx); err != nil {
					logger.Error("failed to ensure admin indexes", zap.Error(err))
					return
				}

				permIDs, err := seedPermissions(ctx, permRepo, logger)
				if err != nil {
					logger.Error("permission seeding failed", zap.Error(err))
					return
				}

				ownerID, err := seedOwnerRole(ctx, roleRepo, permIDs, logger)
				if err != nil {
					logger.Error("role seeding failed", zap.Error(err))
					return
				}

				if err := seedRootAdmin(ctx, adminRepo, ownerID, logger); err != nil {
					logger.Error("root admin seeding failed", zap.Error(err))
					return
				}

				logger.Info("seeding complete")
			}()
			return nil
		},
	})
}

func seedPermissions(ctx context.Context, repo permission.PermissionRepository, logger *zap.Logger) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(seedTables)*len(permission.Actions))
	created := 0

	for _, table := range seedTables {
		for _, action := range permission.Actions {
			name := permission.Name(table, action)

			existing, err := repo.FindByName(ctx, name)
			if err == nil {
				ids = append(ids, existing.ID)
				continue
			}
			if err != mongo.ErrNoDocuments {
				return nil, err
			}

			perm := permission.Permission{
				ID:        primitive.NewObjectID(),
				Name:      name,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}
			if err := repo.Create(ctx, &perm); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					continue
				}
				return nil, err
			}
			ids = append(ids, perm.ID)
			created++
		}
	}

	logger.Info("permission grid seeded", zap.Int("created", created), zap.Int("total", len(ids)))
	return ids, nil
}

func seedOwnerRole(ctx context.Context, repo role.RoleRepository, permIDs []primitive.ObjectID, logger *zap.Logger) (primitive.ObjectID, error) {
	existing, err := repo.FindByName(ctx, ownerRoleName)
	if err == nil {
		// Keep the role current with any newly added permissions.
		if err := repo.AddPermissions(ctx, existing.ID.Hex(), permIDs); err != nil {
			return primitive.NilObjectID, err
		}
		logger.Info("owner role exists, permissions refreshed")
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return primitive.NilObjectID, err
	}

	owner := role.Role{
		ID:          primitive.NewObjectID(),
		Name:        ownerRoleName,
		Description: "full access to every resource",
		Permissions: permIDs,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := repo.Create(ctx, &owner); err != nil {
		return primitive.NilObjectID, err
	}

	logger.Info("owner role created", zap.Int("permissions", len(permIDs)))
	return owner.ID, nil
}

func seedRootAdmin(ctx context.Context, repo repository.AdminRepository, roleID primitive.ObjectID, logger *zap.Logger) error {
	email := os.Getenv("ROOT_ADMIN_EMAIL")
	password := os.Getenv("ROOT_ADMIN_PASSWORD")
	if email == "" || password == "" {
		logger.Warn("ROOT_ADMIN_EMAIL or ROOT_ADMIN_PASSWORD not set, skipping root admin")
		return nil
	}

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		logger.Info("root admin exists, skipping", zap.String("email", email))
		return nil
	} else if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := common_models.Identity{
		ID:        primitive.NewObjectID(),
		Email:     email,
		UserName:  "root",
		Password:  hash,
		Role:      roleID,
		Devices:   []common_models.Device{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := repo.Create(ctx, &admin); err != nil {
		return err
	}

	logger.Info("root admin created", zap.String("email", email))
	return nil
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,
			permission.NewPermissionRepository,
			role.NewRoleRepository,
			repository.NewAdminRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
