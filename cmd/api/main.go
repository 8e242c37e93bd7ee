package main

import (
	"context"
	"fmt"
	"log"

	internal_api "club-hub/internal/api"
	common_api "club-hub/internal/common/api"
	"club-hub/internal/common/apperr"
	"club-hub/internal/config"
	"club-hub/internal/database"
	"club-hub/internal/features/auth"
	"club-hub/internal/features/club"
	"club-hub/internal/features/dashboard"
	"club-hub/internal/features/event"
	"club-hub/internal/features/notification"
	"club-hub/internal/features/report"
	"club-hub/internal/features/system"
	"club-hub/internal/features/user"
	"club-hub/internal/logger"
	"club-hub/internal/middleware"
	"club-hub/internal/render"
	"club-hub/pkg/utils"

	_ "club-hub/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(apperr.StatusOf(err)).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// NewRenderRegistry wires the renderers once at startup. Each renderer
// self-reports availability; the report service rejects formats whose
// capability probe failed.
func NewRenderRegistry() *render.Registry {
	return render.NewRegistry(
		render.NewCSVRenderer(),
		render.NewExcelRenderer(),
		render.NewPDFRenderer(),
	)
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),    // Cast to Interface
		fx.ResultTags(`group:"routes"`), // Add to Group
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
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

// @title           Club Hub API
// @version         1.0
// @description     College club management service: clubs, events, memberships and report generation.

// @host            localhost:8000
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			user.NewUserRepository,
			club.NewClubRepository,
			event.NewEventRepository,
			report.NewReportRepository,

			// Interface Adapters to satisfy Fx
			func(r user.UserRepository) report.UserFinder { return r },
			func(r club.ClubRepository) report.ClubFinder { return r },
			func(r event.EventRepository) report.EventFinder { return r },

			// Report assembly and rendering
			report.NewAssembler,
			NewRenderRegistry,

			// Initialize Service
			auth.NewAuthService,
			user.NewUserService,
			club.NewClubService,
			event.NewEventService,
			dashboard.NewDashboardService,
			report.NewReportService,

			// Initialize Controller
			auth.NewAuthController,
			user.NewUserController,
			club.NewClubController,
			event.NewEventController,
			dashboard.NewDashboardController,
			notification.NewNotificationController,
			report.NewReportController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(club.NewClubApi),
			AsRoute(event.NewEventApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(report.NewReportApi),
			AsRoute(internal_api.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Token signing uses the configured secret
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},

			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
		),
	)

	app.Run()
}
