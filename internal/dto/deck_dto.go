package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
)

type CreateDeckRequest struct {
	Name string `json:"name"`
}

// UpdateDeckRequest is a patch: nil fields are left unchanged.
type UpdateDeckRequest struct {
	Name   *string `json:"name,omitempty"`
	Public *bool   `json:"public,omitempty"`
}

type DeckResponse struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Name      string    `json:"name"`
	Public    bool      `json:"public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicDeckResponse is a catalog entry joined with its author.
type PublicDeckResponse struct {
	DeckResponse
	AuthorName *string `json:"author_name"`
	CardCount  int64   `json:"card_count"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

type PublicDecksResponse struct {
	Decks      []PublicDeckResponse `json:"decks"`
	Pagination Pagination           `json:"pagination"`
}

// NewPagination derives page counts from a total: totalPages = ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    int64(page) < totalPages,
	}
}

func ToDeckResponse(d *models.Deck) DeckResponse {
	return DeckResponse{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		Name:      d.Name,
		Public:    d.Public,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToDeckResponses(decks []models.Deck) []DeckResponse {
	out := make([]DeckResponse, 0, len(decks))
	for i := range decks {
		out = append(out, ToDeckResponse(&decks[i]))
	}
	return out
}
