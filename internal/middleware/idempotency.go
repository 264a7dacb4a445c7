package middleware

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	// IdempotencyKeyHeader lets clients name a submission explicitly.
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyPrefix    = "idempotency:v2:"
	inProgressMarker     = "__in_progress__"
	replayedHeader       = "Idempotent-Replayed"
)

type storedResponse struct {
	Status      int               `json:"status"`
	Body        string            `json:"body"`
	Headers     map[string]string `json:"headers"`
	Fingerprint string            `json:"fingerprint"`
}

// IdempotencyOption configures Idempotency.
type IdempotencyOption func(*idempotencyConfig)

type idempotencyConfig struct {
	digestPaths map[string]struct{}
}

// WithBodyDigestKey keys requests to paths without an Idempotency-Key header
// by the digest of their body. Only use it where an identical body always
// means the same operation.
func WithBodyDigestKey(paths ...string) IdempotencyOption {
	return func(cfg *idempotencyConfig) {
		for _, p := range paths {
			cfg.digestPaths[p] = struct{}{}
		}
	}
}

// Idempotency answers repeated unsafe requests from Redis instead of running
// them again. The key is the Idempotency-Key header. Paths registered with
// WithBodyDigestKey fall back to the blake2b digest of method, path and body;
// other requests without the header pass through untouched. Reusing a key
// with a different body is rejected with 422. Only successful responses are
// stored.
func Idempotency(cache *redis.Client, ttl time.Duration, logger *slog.Logger, opts ...IdempotencyOption) fiber.Handler {
	cfg := idempotencyConfig{digestPaths: map[string]struct{}{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		switch method {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		fingerprint := requestFingerprint(method, c.Path(), c.Body())
		key := c.Get(IdempotencyKeyHeader)
		if key == "" {
			if _, ok := cfg.digestPaths[c.Path()]; !ok {
				return c.Next()
			}
			key = fingerprint
		}
		cacheKey := idempotencyPrefix + key

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cached, err := cache.Get(ctx, cacheKey).Result()
		if err == nil {
			return replay(c, cached, fingerprint, key, logger)
		}
		if err != redis.Nil {
			logger.Error("idempotency lookup failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency store failure")
		}

		reserved, err := cache.SetNX(ctx, cacheKey, inProgressMarker, ttl).Result()
		if err != nil {
			logger.Error("idempotency reservation failed", slog.String("key", key), slog.Any("error", err))
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency reservation failure")
		}
		if !reserved {
			return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
		}

		if err := c.Next(); err != nil {
			release(cache, cacheKey)
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			release(cache, cacheKey)
			return nil
		}

		stored := storedResponse{
			Status:      status,
			Body:        string(c.Response().Body()),
			Headers:     map[string]string{},
			Fingerprint: fingerprint,
		}
		c.Response().Header.VisitAll(func(k, v []byte) {
			stored.Headers[string(k)] = string(v)
		})

		payload, err := json.Marshal(stored)
		if err != nil {
			logger.Error("failed to encode idempotent response", slog.String("key", key), slog.Any("error", err))
			release(cache, cacheKey)
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency persistence failure")
		}

		persistCtx, persistCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer persistCancel()
		if err := cache.Set(persistCtx, cacheKey, payload, ttl).Err(); err != nil {
			logger.Error("failed to persist idempotent response", slog.String("key", key), slog.Any("error", err))
			cache.Del(persistCtx, cacheKey)
		}
		return nil
	}
}

func replay(c *fiber.Ctx, cached, fingerprint, key string, logger *slog.Logger) error {
	if cached == inProgressMarker {
		return fiber.NewError(fiber.StatusConflict, "duplicate request currently processing")
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(cached), &stored); err != nil {
		logger.Warn("failed to decode stored idempotent response", slog.String("key", key), slog.Any("error", err))
		return fiber.NewError(fiber.StatusConflict, "duplicate request")
	}
	if stored.Fingerprint != fingerprint {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "idempotency key reused with a different request")
	}

	for header, value := range stored.Headers {
		if strings.EqualFold(header, fiber.HeaderContentLength) {
			continue
		}
		c.Set(header, value)
	}
	c.Set(replayedHeader, "true")
	return c.Status(stored.Status).SendString(stored.Body)
}

func release(cache *redis.Client, cacheKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	cache.Del(ctx, cacheKey)
}

func requestFingerprint(method, path string, body []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
