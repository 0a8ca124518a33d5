package services

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGuard(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	private := &models.Deck{ID: uuid.New(), OwnerID: owner}
	public := &models.Deck{ID: uuid.New(), OwnerID: owner, Public: true}

	tests := []struct {
		name      string
		principal uuid.UUID
		deck      *models.Deck
		read      bool
		write     bool
	}{
		{"owner private", owner, private, true, true},
		{"owner public", owner, public, true, true},
		{"stranger private", other, private, false, false},
		{"stranger public", other, public, true, false},
		{"anonymous private", uuid.Nil, private, false, false},
		{"anonymous public", uuid.Nil, public, true, false},
		{"nil deck", owner, nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.read, CanRead(tt.principal, tt.deck))
			assert.Equal(t, tt.write, CanWrite(tt.principal, tt.deck))
		})
	}
}

func TestGuard_AnonymousOwnedByNilNeverWrites(t *testing.T) {
	deck := &models.Deck{OwnerID: uuid.Nil}
	assert.False(t, CanWrite(uuid.Nil, deck))
}
