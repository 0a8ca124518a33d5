package services

import (
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
)

// CanRead reports whether principal may see the deck: owners always, anyone
// (including anonymous callers) when the deck is public.
func CanRead(principal uuid.UUID, deck *models.Deck) bool {
	if deck == nil {
		return false
	}
	return deck.Public || CanWrite(principal, deck)
}

// CanWrite reports whether principal owns the deck. uuid.Nil is the
// anonymous principal and never owns anything.
func CanWrite(principal uuid.UUID, deck *models.Deck) bool {
	if deck == nil || principal == uuid.Nil {
		return false
	}
	return deck.OwnerID == principal
}
