package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Decks  *handlers.DeckHandler
	Cards  *handlers.CardHandler
	Users  *handlers.UserHandler
	Health *handlers.HealthHandler
}

func Setup(app *fiber.App, cfg *config.Config, users *services.UserService, h Handlers) {
	api := app.Group("/api")
	if cfg.RateLimitPerMinute > 0 {
		api.Use(rateLimit(cfg.RateLimitPerMinute))
	}

	api.Get("/health", h.Health.Check)

	// Auth: public, with a stricter per-IP limit
	auth := api.Group("/auth")
	if cfg.AuthRateLimitPerMinute > 0 {
		auth.Use(rateLimit(cfg.AuthRateLimitPerMinute))
	}
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	// Middleware is attached per route so public routes stay untouched
	jwt := middleware.JWTProtected(cfg)
	user := middleware.LoadPrincipal(users, true)
	optionalJWT := middleware.OptionalJWT(cfg)
	optionalUser := middleware.LoadPrincipal(users, false)

	api.Get("/users/me", jwt, user, h.Users.Me)

	// Public catalog must precede /decks/:id
	api.Get("/decks/public", h.Decks.ListPublic)
	api.Get("/decks", jwt, user, h.Decks.List)
	api.Post("/decks", jwt, user, h.Decks.Create)
	api.Get("/decks/:id", jwt, user, h.Decks.Get)
	api.Put("/decks/:id", jwt, user, h.Decks.Update)
	api.Delete("/decks/:id", jwt, user, h.Decks.Delete)
	api.Post("/decks/:id/copy", jwt, user, h.Decks.Copy)

	// /cards/update must precede /cards/:deck_id
	api.Post("/cards/update", jwt, user, h.Cards.Sync)
	api.Get("/cards/:deck_id", optionalJWT, optionalUser, h.Cards.ListByDeck)
	api.Post("/cards/:deck_id", jwt, user, h.Cards.Add)
	api.Put("/cards/:deck_id/:card_id", jwt, user, h.Cards.Update)
	api.Delete("/cards/:deck_id/:card_id", jwt, user, h.Cards.Delete)

	admin := api.Group("/admin", jwt, user, middleware.AdminRequired(cfg))
	admin.Get("/users", h.Users.List)
}

func rateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
