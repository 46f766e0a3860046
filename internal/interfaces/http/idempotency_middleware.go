package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/comercial-api/internal/application/dto"
	"github.com/jhoicas/comercial-api/internal/infrastructure/redis"
)

// HeaderIdempotencyKey cabecera que identifica un intento de alta.
const HeaderIdempotencyKey = "Idempotency-Key"

// idempotencyStore es el contrato mínimo del middleware; lo implementa *redis.IdempotencyStore.
type idempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) (*redis.StoredResponse, error)
	Save(ctx context.Context, key string, resp redis.StoredResponse) error
	Release(ctx context.Context, key string) error
}

// Idempotency repite la primera respuesta exitosa para la misma Idempotency-Key del mismo actor.
// Sin cabecera la petición pasa tal cual. Debe usarse DESPUÉS de AuthMiddleware.
//
//   - 2xx guardada → se devuelve igual con Idempotent-Replayed: true.
//   - clave reservada por otra petición en curso → 409 IDEMPOTENCY_IN_PROGRESS.
//   - respuesta no exitosa → se libera la clave para permitir el reintento.
//   - Redis caído → 503.
func Idempotency(store idempotencyStore, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(HeaderIdempotencyKey)
		if header == "" {
			return c.Next()
		}
		key := GetUserID(c) + ":" + c.Method() + ":" + c.Path() + ":" + header
		ctx := c.Context()

		stored, err := store.Get(ctx, key)
		if errors.Is(err, redis.ErrInProgress) {
			return inProgress(c)
		}
		if err != nil {
			log.Error().Err(err).Msg("idempotencia: lectura fallida")
			return unavailable(c)
		}
		if stored != nil {
			c.Set("Idempotent-Replayed", "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		}

		ok, err := store.Reserve(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("idempotencia: reserva fallida")
			return unavailable(c)
		}
		if !ok {
			return inProgress(c)
		}

		if err := c.Next(); err != nil {
			_ = store.Release(ctx, key)
			return err
		}
		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			if err := store.Release(ctx, key); err != nil {
				log.Warn().Err(err).Msg("idempotencia: no se pudo liberar la clave")
			}
			return nil
		}
		body := append([]byte(nil), c.Response().Body()...)
		resp := redis.StoredResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        body,
		}
		if err := store.Save(ctx, key, resp); err != nil {
			log.Warn().Err(err).Msg("idempotencia: no se pudo guardar la respuesta")
		}
		return nil
	}
}

func inProgress(c *fiber.Ctx) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
		Code:    "IDEMPOTENCY_IN_PROGRESS",
		Message: "ya hay una petición en curso con esta Idempotency-Key",
	})
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
		Code:    "IDEMPOTENCY_UNAVAILABLE",
		Message: "no se pudo verificar la idempotencia, intente más tarde",
	})
}
