package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/congo_chain/internal/config"
	"github.com/congo-pay/congo_chain/internal/middleware"
	"github.com/congo-pay/congo_chain/internal/node"
)

const blocksPath = "/api/v1/blocks"

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
	Node   *node.Service
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Node == nil {
		return fmt.Errorf("node service is required")
	}
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cfg.LogFormat == "text" {
		// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	if d.Cache != nil {
		// A block carries its own height, so an identical body is a replay.
		// /blocks/next builds the header from the head and needs an explicit key.
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger,
			middleware.WithBodyDigestKey(blocksPath)))
	}

	RegisterHealthRoutes(app, d)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": middleware.RequestIDFrom(c),
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	RegisterChainRoutes(api, node.NewHandler(d.Node))

	return nil
}
