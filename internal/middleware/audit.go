package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Audit logs one structured line per request. Block submissions additionally
// carry the number of body bytes submitted.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if id := RequestIDFrom(c); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
		if c.Method() == fiber.MethodPost {
			attrs = append(attrs, slog.Int("body_bytes", len(c.Body())))
		}
		switch {
		case err != nil && status >= fiber.StatusInternalServerError:
			logger.Error("request completed", append(attrs, slog.Any("error", err))...)
		case err != nil:
			logger.Warn("request completed", append(attrs, slog.Any("error", err))...)
		default:
			logger.Info("request completed", attrs...)
		}
		return err
	}
}
