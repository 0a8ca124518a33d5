package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardPatch lists the card fields a caller may change. Nil means unchanged.
type CardPatch struct {
	Front *string
	Back  *string
}

func (p CardPatch) IsEmpty() bool {
	return p.Front == nil && p.Back == nil
}

// syncPlan is the diff between the stored card ids of a deck and a submission.
type syncPlan struct {
	Delete []uuid.UUID
	Update []dto.CardInput
	Insert []dto.CardInput
}

// planSync partitions submitted into updates (id present and stored), inserts
// (no id) and deletions (stored but not submitted). Submitted ids that are not
// stored are dropped.
func planSync(existing []uuid.UUID, submitted []dto.CardInput) syncPlan {
	stored := make(map[uuid.UUID]struct{}, len(existing))
	for _, id := range existing {
		stored[id] = struct{}{}
	}

	var plan syncPlan
	kept := make(map[uuid.UUID]struct{}, len(submitted))
	for _, c := range submitted {
		if c.ID == nil {
			plan.Insert = append(plan.Insert, c)
			continue
		}
		kept[*c.ID] = struct{}{}
		if _, ok := stored[*c.ID]; ok {
			plan.Update = append(plan.Update, c)
		}
	}

	for _, id := range existing {
		if _, ok := kept[id]; !ok {
			plan.Delete = append(plan.Delete, id)
		}
	}
	return plan
}

type CardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{db: db, now: time.Now}
}

// ListByDeck returns the cards of a deck the principal owns or that is public.
func (s *CardService) ListByDeck(ctx context.Context, principal, deckID uuid.UUID) ([]models.Card, error) {
	db := s.db.WithContext(ctx)

	var deck models.Deck
	err := db.First(&deck, "id = ?", deckID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, persistenceError("get deck", err)
	}
	if !CanRead(principal, &deck) {
		return nil, ErrDeckNotFound
	}

	cards, err := cardsOf(db, deckID)
	if err != nil {
		return nil, persistenceError("list cards", err)
	}
	return cards, nil
}

// Sync reconciles the stored cards of a deck with submitted and returns the
// resulting card set. The whole batch is validated first and applied in one
// transaction; on any error nothing is written.
func (s *CardService) Sync(ctx context.Context, principal, deckID uuid.UUID, submitted []dto.CardInput) ([]models.Card, error) {
	for i := range submitted {
		if strings.TrimSpace(submitted[i].Front) == "" {
			return nil, validationError("front is required for every card")
		}
	}

	var result []models.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}

		var existing []uuid.UUID
		if err := tx.Model(&models.Card{}).Where("deck_id = ?", deck.ID).Pluck("id", &existing).Error; err != nil {
			return err
		}

		plan := planSync(existing, submitted)
		now := s.now()

		if len(plan.Delete) > 0 {
			if err := tx.Where("deck_id = ? AND id IN ?", deck.ID, plan.Delete).Delete(&models.Card{}).Error; err != nil {
				return err
			}
		}

		for _, c := range plan.Update {
			err := tx.Model(&models.Card{}).
				Where("id = ? AND deck_id = ?", *c.ID, deck.ID).
				Updates(map[string]any{
					"front":      c.Front,
					"back":       backOrEmpty(c.Back),
					"updated_at": now,
				}).Error
			if err != nil {
				return err
			}
		}

		if len(plan.Insert) > 0 {
			cards := make([]models.Card, 0, len(plan.Insert))
			for _, c := range plan.Insert {
				cards = append(cards, models.Card{DeckID: deck.ID, Front: c.Front, Back: backOrEmpty(c.Back)})
			}
			if err := tx.CreateInBatches(cards, 100).Error; err != nil {
				return err
			}
		}

		if err := touchDeck(tx, deck.ID, now); err != nil {
			return err
		}

		result, err = cardsOf(tx, deck.ID)
		return err
	})
	if err != nil {
		return nil, classify("sync cards", err)
	}
	return result, nil
}

func (s *CardService) AddCard(ctx context.Context, principal, deckID uuid.UUID, front string, back *string) (*models.Card, error) {
	if strings.TrimSpace(front) == "" {
		return nil, validationError("front is required")
	}

	var card *models.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}
		card = &models.Card{DeckID: deck.ID, Front: front, Back: backOrEmpty(back)}
		if err := tx.Create(card).Error; err != nil {
			return err
		}
		return touchDeck(tx, deck.ID, s.now())
	})
	if err != nil {
		return nil, classify("add card", err)
	}
	return card, nil
}

func (s *CardService) UpdateCard(ctx context.Context, principal, deckID, cardID uuid.UUID, patch CardPatch) (*models.Card, error) {
	if patch.IsEmpty() {
		return nil, validationError("front or back is required")
	}
	if patch.Front != nil && strings.TrimSpace(*patch.Front) == "" {
		return nil, validationError("front cannot be empty")
	}

	var card models.Card
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}

		err = tx.Where("id = ? AND deck_id = ?", cardID, deck.ID).First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		if err != nil {
			return err
		}

		if patch.Front != nil {
			card.Front = *patch.Front
		}
		if patch.Back != nil {
			card.Back = *patch.Back
		}
		now := s.now()
		card.UpdatedAt = now

		err = tx.Model(&models.Card{}).Where("id = ?", card.ID).Updates(map[string]any{
			"front":      card.Front,
			"back":       card.Back,
			"updated_at": now,
		}).Error
		if err != nil {
			return err
		}
		return touchDeck(tx, deck.ID, now)
	})
	if err != nil {
		return nil, classify("update card", err)
	}
	return &card, nil
}

func (s *CardService) DeleteCard(ctx context.Context, principal, deckID, cardID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND deck_id = ?", cardID, deck.ID).Delete(&models.Card{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCardNotFound
		}
		return touchDeck(tx, deck.ID, s.now())
	})
	return classify("delete card", err)
}

func cardsOf(db *gorm.DB, deckID uuid.UUID) ([]models.Card, error) {
	cards := make([]models.Card, 0)
	err := db.Where("deck_id = ?", deckID).Order("created_at ASC").Order("id").Find(&cards).Error
	return cards, err
}

func touchDeck(tx *gorm.DB, deckID uuid.UUID, now time.Time) error {
	return tx.Model(&models.Deck{}).Where("id = ?", deckID).Update("updated_at", now).Error
}

func backOrEmpty(back *string) string {
	if back == nil {
		return ""
	}
	return *back
}
