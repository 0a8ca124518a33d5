// Package principal carries the authenticated actor of a request through
// Fiber locals. An anonymous request has principal uuid.Nil.
package principal

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenKey = "user"
	userKey  = "principal_user"
)

// SubjectFromToken extracts the user UUID from the verified JWT in context.
func SubjectFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

func SetUser(c *fiber.Ctx, u *models.User) {
	c.Locals(userKey, u)
}

// User returns the loaded user, or nil for anonymous requests.
func User(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(userKey).(*models.User)
	return u
}

// ID returns the principal id, uuid.Nil when anonymous.
func ID(c *fiber.Ctx) uuid.UUID {
	if u := User(c); u != nil {
		return u.ID
	}
	return uuid.Nil
}
