package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects requests without a valid bearer access token.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: principal.TokenKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			msg := "Not authorized, token failed"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				msg = "Not authorized, no token"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(msg))
		},
	})
}

// OptionalJWT verifies a bearer token when one is sent and otherwise lets the
// request through as anonymous. An invalid token also degrades to anonymous.
func OptionalJWT(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: principal.TokenKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Debug("optional auth ignored invalid token", "error", err)
			return c.Next()
		},
	})
}

// LoadPrincipal resolves the token subject to a stored user. When required is
// true a missing user is a 401; otherwise the request continues anonymously.
func LoadPrincipal(users *services.UserService, required bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := principal.SubjectFromToken(c)
		if err != nil {
			if required {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Not authorized, token failed"))
			}
			return c.Next()
		}

		user, err := users.GetByID(c.UserContext(), id)
		if err != nil {
			if required {
				if errors.Is(err, services.ErrNotFound) {
					return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("User not found"))
				}
				return err
			}
			return c.Next()
		}

		principal.SetUser(c, user)
		return c.Next()
	}
}
