package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/rs/zerolog"

	"hackmap/internal/config"
	"hackmap/internal/database/migration"
	"hackmap/internal/database/seeder"
	"hackmap/internal/delivery/http/handler"
	"hackmap/internal/delivery/http/middleware"
	"hackmap/internal/delivery/http/routes"
	v1 "hackmap/internal/delivery/http/routes/v1"
	"hackmap/internal/scheduler"
	"hackmap/internal/supervisor"
	"hackmap/internal/ws"
	"hackmap/migrations"
)

type App struct {
	Fiber  *fiber.App
	Tree   *supervisor.Tree
	Logger zerolog.Logger
}

// Bootstrap connects the backing stores, applies migrations and seeders when
// configured, and assembles the HTTP app and the background supervisor tree.
// The returned cleanup closes the container.
func Bootstrap(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("init container: %w", err)
	}
	cleanup := c.Close

	if cfg.Database.RunMigrations {
		if _, err := Migrate(ctx, c); err != nil {
			_ = cleanup()
			return nil, nil, err
		}
	}
	if cfg.Database.RunSeeders {
		if err := Seed(ctx, c, time.Now()); err != nil {
			_ = cleanup()
			return nil, nil, err
		}
	}

	hub := ws.NewHub(logger.With().Str("component", "ws").Logger())
	svc, err := NewServices(c, ws.NewPublisher(hub))
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	f := NewHTTP(c, svc, hub)

	tree := supervisor.NewTree(logger.With().Str("component", "supervisor").Logger(), supervisor.DefaultTreeConfig())
	tree.AddRealtime(hub)
	if cfg.Cron.Enabled {
		tree.AddJob(scheduler.NewInterval(
			"deadline-reminders",
			cfg.Cron.ReminderInterval,
			false,
			func(ctx context.Context, now time.Time) error {
				res, err := svc.Reminders.Run(ctx, now)
				if err != nil {
					return err
				}
				logger.Info().Int("emails_sent", res.EmailsSent).Int("errors", len(res.Errors)).Msg(res.Message)
				return nil
			},
			logger.With().Str("job", "deadline-reminders").Logger(),
		))
	}

	return &App{Fiber: f, Tree: tree, Logger: logger}, cleanup, nil
}

// NewHTTP assembles the fiber app with global middleware and every route.
// hub may be nil, in which case the websocket endpoint is not mounted.
func NewHTTP(c *Container, svc *Services, hub *ws.Hub) *fiber.App {
	cfg := c.Config

	f := fiber.New(fiber.Config{
		AppName:     cfg.App.AppName,
		ReadTimeout: cfg.HTTP.ReadTimeout,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
	})
	registerGlobalMiddleware(f, c)

	authMw := middleware.NewAuthMiddleware(svc.JWT)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	registry := routes.Registry{
		Health: handler.NewHealthHandler(c.DB),
		V1: v1.Handlers{
			Auth:          handler.NewAuthHandler(svc.Auth),
			Profile:       handler.NewProfileHandler(svc.Profile),
			Hackathons:    handler.NewHackathonHandler(svc.Hackathons),
			Teams:         handler.NewTeamHandler(svc.Teams, svc.Matchmaking),
			Projects:      handler.NewProjectHandler(svc.Projects),
			Notifications: handler.NewNotificationHandler(svc.Notifications),
			Stats:         handler.NewStatsHandler(svc.Stats),
			Cron:          handler.NewCronHandler(svc.Reminders, cfg.Cron.Secret),
		},
		Auth:      authMw.Middleware(),
		AuthLimit: limiter.Middleware(),
	}
	if hub != nil {
		registry.WS = ws.NewHandler(hub, svc.JWT, c.Config.HTTP.CORSOrigins, c.Logger).HandleNotifications
	}
	if cfg.Metrics.Enabled {
		registry.Metrics = adaptor.HTTPHandler(c.Metrics.Handler())
	}
	registry.Register(f, cfg.Metrics.Path)
	return f
}

// Migrate applies the embedded migrations and returns how many ran.
func Migrate(ctx context.Context, c *Container) (int, error) {
	r := migration.Runner{FS: migrations.FS, Logger: c.Logger}
	n, err := r.Run(ctx, c.DB.SQLDB())
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}

// Seed runs the sample data seeders, optionally restricted to the named ones.
func Seed(ctx context.Context, c *Container, now time.Time, only ...string) error {
	r := seeder.Runner{Seeders: seeder.Defaults(now), Only: only, Logger: c.Logger}
	return r.Run(ctx, c.DB)
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	origins := c.Config.HTTP.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	if c.Config.Metrics.Enabled {
		app.Use(middleware.Metrics(c.Metrics))
	}
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
