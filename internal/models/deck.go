package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Deck is an owned collection of cards. UpdatedAt advances whenever the deck
// or any of its cards changes.
type Deck struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string    `gorm:"not null;size:255" json:"name"`
	Public    bool      `gorm:"not null;default:false;index" json:"public"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Cards     []Card    `gorm:"foreignKey:DeckID;constraint:OnDelete:CASCADE" json:"-"`
}

func (d *Deck) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
