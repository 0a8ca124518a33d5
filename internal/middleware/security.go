package middleware

import (
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// CORS allows the configured origins. X-Request-ID is accepted so clients can
// correlate their calls with server logs.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Authorization, Accept, " + fiber.HeaderXRequestID,
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	})
}

func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	}
}

// RequestID tags each request with a short nanoid, honoring an incoming
// X-Request-ID header.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header: fiber.HeaderXRequestID,
		Generator: func() string {
			return gonanoid.Must(21)
		},
	})
}
