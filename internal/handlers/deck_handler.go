package handlers

import (
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type DeckHandler struct {
	decks *services.DeckService
}

func NewDeckHandler(decks *services.DeckService) *DeckHandler {
	return &DeckHandler{decks: decks}
}

func (h *DeckHandler) List(c *fiber.Ctx) error {
	decks, err := h.decks.ListMine(c.UserContext(), principal.ID(c))
	if err != nil {
		return respondError(c, "list_decks", err)
	}
	return c.JSON(dto.ToDeckResponses(decks))
}

func (h *DeckHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDeckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	deck, err := h.decks.Create(c.UserContext(), principal.ID(c), req.Name)
	if err != nil {
		return respondError(c, "create_deck", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDeckResponse(deck))
}

func (h *DeckHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	deck, err := h.decks.Get(c.UserContext(), principal.ID(c), id)
	if err != nil {
		return respondError(c, "get_deck", err)
	}
	return c.JSON(dto.ToDeckResponse(deck))
}

func (h *DeckHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	var req dto.UpdateDeckRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	deck, err := h.decks.Update(c.UserContext(), principal.ID(c), id, services.DeckPatch{
		Name:   req.Name,
		Public: req.Public,
	})
	if err != nil {
		return respondError(c, "update_deck", err)
	}
	return c.JSON(dto.ToDeckResponse(deck))
}

func (h *DeckHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	if err := h.decks.Delete(c.UserContext(), principal.ID(c), id); err != nil {
		return respondError(c, "delete_deck", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListPublic serves the catalog. Missing or non-numeric page/limit fall back
// to the defaults.
func (h *DeckHandler) ListPublic(c *fiber.Ctx) error {
	page, err := h.decks.ListPublic(c.UserContext(), services.PublicDeckQuery{
		Page:   c.QueryInt("page", services.DefaultPage),
		Limit:  c.QueryInt("limit", services.DefaultLimit),
		Name:   c.Query("name"),
		Author: c.Query("author"),
	})
	if err != nil {
		return respondError(c, "list_public_decks", err)
	}

	decks := make([]dto.PublicDeckResponse, 0, len(page.Decks))
	for _, d := range page.Decks {
		decks = append(decks, dto.PublicDeckResponse{
			DeckResponse: dto.DeckResponse{
				ID:        d.ID,
				OwnerID:   d.OwnerID,
				Name:      d.Name,
				Public:    d.Public,
				CreatedAt: d.CreatedAt,
				UpdatedAt: d.UpdatedAt,
			},
			AuthorName: d.AuthorName,
			CardCount:  d.CardCount,
		})
	}

	return c.JSON(dto.Success(dto.PublicDecksResponse{
		Decks:      decks,
		Pagination: dto.NewPagination(page.Page, page.Limit, page.Total),
	}))
}

func (h *DeckHandler) Copy(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	deck, err := h.decks.CopyPublic(c.UserContext(), principal.ID(c), id)
	if err != nil {
		return respondError(c, "copy_deck", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToDeckResponse(deck))
}
