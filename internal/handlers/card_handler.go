package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/principal"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CardHandler struct {
	cards *services.CardService
}

func NewCardHandler(cards *services.CardService) *CardHandler {
	return &CardHandler{cards: cards}
}

func (h *CardHandler) ListByDeck(c *fiber.Ctx) error {
	deckID, ok := parseID(c, "deck_id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	cards, err := h.cards.ListByDeck(c.UserContext(), principal.ID(c), deckID)
	if err != nil {
		return respondError(c, "list_cards", err)
	}
	return c.JSON(dto.ToCardResponses(cards))
}

// Sync replaces the deck's cards with the submitted list and returns the
// resulting full list.
func (h *CardHandler) Sync(c *fiber.Ctx) error {
	var req dto.SyncCardsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.DeckID == uuid.Nil {
		return badRequest(c, "deckId is required")
	}

	raw := bytes.TrimSpace(req.Cards)
	if len(raw) == 0 || raw[0] != '[' {
		return badRequest(c, "cards must be an array")
	}
	var submitted []dto.CardInput
	if err := json.Unmarshal(raw, &submitted); err != nil {
		return badRequest(c, "Invalid cards payload")
	}

	cards, err := h.cards.Sync(c.UserContext(), principal.ID(c), req.DeckID, submitted)
	if err != nil {
		return respondError(c, "sync_cards", err)
	}
	return c.JSON(dto.ToCardResponses(cards))
}

func (h *CardHandler) Add(c *fiber.Ctx) error {
	deckID, ok := parseID(c, "deck_id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}

	var req dto.AddCardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	card, err := h.cards.AddCard(c.UserContext(), principal.ID(c), deckID, req.Front, req.Back)
	if err != nil {
		return respondError(c, "add_card", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToCardResponse(card))
}

func (h *CardHandler) Update(c *fiber.Ctx) error {
	deckID, ok := parseID(c, "deck_id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}
	cardID, ok := parseID(c, "card_id")
	if !ok {
		return badRequest(c, "Invalid card ID")
	}

	var req dto.UpdateCardRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	card, err := h.cards.UpdateCard(c.UserContext(), principal.ID(c), deckID, cardID, services.CardPatch{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		return respondError(c, "update_card", err)
	}
	return c.JSON(dto.ToCardResponse(card))
}

func (h *CardHandler) Delete(c *fiber.Ctx) error {
	deckID, ok := parseID(c, "deck_id")
	if !ok {
		return badRequest(c, "Invalid deck ID")
	}
	cardID, ok := parseID(c, "card_id")
	if !ok {
		return badRequest(c, "Invalid card ID")
	}

	if err := h.cards.DeleteCard(c.UserContext(), principal.ID(c), deckID, cardID); err != nil {
		return respondError(c, "delete_card", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
