package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	common_api "github.com/mobtwin/admin-backend/internal/common/api"
	"github.com/mobtwin/admin-backend/internal/common/apperr"
	"github.com/mobtwin/admin-backend/internal/config"
	"github.com/mobtwin/admin-backend/internal/database"

	"github.com/mobtwin/admin-backend/internal/cache"
	"github.com/mobtwin/admin-backend/internal/features/actionlog"
	"github.com/mobtwin/admin-backend/internal/features/admin"
	"github.com/mobtwin/admin-backend/internal/features/auth"
	"github.com/mobtwin/admin-backend/internal/features/build"
	"github.com/mobtwin/admin-backend/internal/features/item_permission"
	"github.com/mobtwin/admin-backend/internal/features/permission"
	"github.com/mobtwin/admin-backend/internal/features/plan"
	"github.com/mobtwin/admin-backend/internal/features/role"
	"github.com/mobtwin/admin-backend/internal/features/template"
	"github.com/mobtwin/admin-backend/internal/features/theme"
	"github.com/mobtwin/admin-backend/internal/features/user"
	"github.com/mobtwin/admin-backend/internal/logger"
	"github.com/mobtwin/admin-backend/internal/middleware"
	"github.com/mobtwin/admin-backend/internal/repository"
	"github.com/mobtwin/admin-backend/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates the Fiber app. Every error returned by a handler is
// translated here into the {success, message, error} envelope; unknown errors
// become an opaque 500 so internals never leak.
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"

			var appErr *apperr.Error
			var fiberErr *fiber.Error
			switch {
			case errors.As(err, &appErr):
				code = appErr.Status
				message = appErr.Message
			case errors.As(err, &fiberErr):
				code = fiberErr.Code
				message = fiberErr.Message
			}

			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": message,
				"error":   message,
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// ConfigureCrypto pushes config into the token and password helpers before
// anything issues or verifies credentials.
func ConfigureCrypto(cfg *config.Config) {
	utils.SetSecrets(cfg.AccessSecret, cfg.RefreshSecret)
	utils.SetLifetimes(cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	utils.SetBcryptCost(cfg.BcryptCost)
}

func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures database indexes in the background on startup.
func InitializeIndexes(
	lc fx.Lifecycle,
	logger *zap.Logger,
	admins repository.AdminRepository,
	users repository.UserRepository,
	perms permission.PermissionRepository,
	roles role.RoleRepository,
	grants item_permission.ItemPermissionRepository,
	plans plan.PlanRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				for name, ensure := range map[string]func(context.Context) error{
					"admins":           admins.EnsureIndexes,
					"users":            users.EnsureIndexes,
					"permissions":      perms.EnsureIndexes,
					"roles":            roles.EnsureIndexes,
					"item_permissions": grants.EnsureIndexes,
					"plans":            plans.EnsureIndexes,
				} {
					if err := ensure(ctx); err != nil {
						logger.Error("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
					}
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,
			cache.NewCache,

			repository.NewAdminRepository,
			repository.NewUserRepository,
			permission.NewPermissionRepository,
			role.NewRoleRepository,
			item_permission.NewItemPermissionRepository,
			actionlog.NewActionLogRepository,
			theme.NewThemeRepository,
			plan.NewPlanRepository,
			template.NewTemplateRepository,
			build.NewBuildRepository,

			actionlog.NewRecorder,
			auth.NewAuthService,
			auth.NewVerificationService,
			auth.NewSessionSweeper,
			permission.NewPermissionService,
			role.NewRoleService,
			item_permission.NewItemPermissionService,
			admin.NewAdminService,
			user.NewUserService,
			theme.NewThemeService,
			plan.NewPlanService,

			// Interface adapters keeping the middleware free of feature
			// imports.
			func(s role.RoleService) middleware.RoleChecker { return s },
			func(s item_permission.ItemPermissionService) middleware.GrantChecker { return s },
			func(r role.RoleRepository) permission.RoleCleaner { return r },

			auth.NewAuthController,
			permission.NewPermissionController,
			role.NewRoleController,
			item_permission.NewItemPermissionController,
			actionlog.NewActionLogController,
			admin.NewAdminController,
			user.NewUserController,
			theme.NewThemeController,
			plan.NewPlanController,
			template.NewTemplateController,
			build.NewBuildController,

			AsRoute(auth.NewAuthApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(role.NewRoleApi),
			AsRoute(item_permission.NewItemPermissionApi),
			AsRoute(actionlog.NewActionLogApi),
			AsRoute(admin.NewAdminApi),
			AsRoute(user.NewUserApi),
			AsRoute(theme.NewThemeApi),
			AsRoute(plan.NewPlanApi),
			AsRoute(template.NewTemplateApi),
			AsRoute(build.NewBuildApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			ConfigureCrypto,
			RegisterAllRoutesWithAnnotation,
			InitializeIndexes,
			// The sweeper only needs to be constructed; its cron schedule is
			// managed by its own lifecycle hooks.
			func(*auth.SessionSweeper) {},
			StartServer,
		),
	)

	app.Run()
}
