package middleware

import (
	"strings"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/principal"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits users whose role is admin or whose e-mail is listed in
// ADMIN_EMAILS. It must run after LoadPrincipal.
func AdminRequired(cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		user := principal.User(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("Unauthorized"))
		}

		if user.Role == models.RoleAdmin || contains(adminEmails, strings.ToLower(user.Email)) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.Fail("Admin access required"))
	}
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.ToLower(strings.TrimSpace(p))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
