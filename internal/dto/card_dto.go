package dto

import (
	"encoding/json"
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
)

// CardInput is one element of a sync submission. Cards without an ID are new.
type CardInput struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Front string     `json:"front"`
	Back  *string    `json:"back,omitempty"`
}

// SyncCardsRequest keeps Cards raw so a non-array payload can be rejected
// with a precise message.
type SyncCardsRequest struct {
	DeckID uuid.UUID       `json:"deckId"`
	Cards  json.RawMessage `json:"cards"`
}

type AddCardRequest struct {
	Front string  `json:"front"`
	Back  *string `json:"back,omitempty"`
}

type UpdateCardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

type CardResponse struct {
	ID        uuid.UUID `json:"id"`
	DeckID    uuid.UUID `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToCardResponse(c *models.Card) CardResponse {
	return CardResponse{
		ID:        c.ID,
		DeckID:    c.DeckID,
		Front:     c.Front,
		Back:      c.Back,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToCardResponses(cards []models.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for i := range cards {
		out = append(out, ToCardResponse(&cards[i]))
	}
	return out
}
