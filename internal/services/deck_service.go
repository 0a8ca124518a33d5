package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	CopySuffix = " (Copy)"

	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// DeckPatch lists the deck fields a caller may change. Nil means unchanged.
type DeckPatch struct {
	Name   *string
	Public *bool
}

func (p DeckPatch) IsEmpty() bool {
	return p.Name == nil && p.Public == nil
}

func (p DeckPatch) apply(d *models.Deck) {
	if p.Name != nil {
		d.Name = strings.TrimSpace(*p.Name)
	}
	if p.Public != nil {
		d.Public = *p.Public
	}
}

// PublicDeckQuery selects a page of the public catalog. Name and Author are
// optional case-insensitive substring filters combined with AND.
type PublicDeckQuery struct {
	Page   int
	Limit  int
	Name   string
	Author string
}

// Normalize fills defaults for missing or out-of-range paging values.
func (q PublicDeckQuery) Normalize() PublicDeckQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Name = strings.TrimSpace(q.Name)
	q.Author = strings.TrimSpace(q.Author)
	return q
}

func (q PublicDeckQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// PublicDeck is a catalog row: the deck joined with its author.
type PublicDeck struct {
	ID         uuid.UUID
	OwnerID    uuid.UUID
	Name       string
	Public     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
	AuthorName *string
	CardCount  int64
}

type PublicDeckPage struct {
	Decks []PublicDeck
	Page  int
	Limit int
	Total int64
}

type DeckService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDeckService(db *gorm.DB) *DeckService {
	return &DeckService{db: db, now: time.Now}
}

func (s *DeckService) ListMine(ctx context.Context, principal uuid.UUID) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", principal).
		Order("created_at DESC").
		Find(&decks).Error
	if err != nil {
		return nil, persistenceError("list decks", err)
	}
	return decks, nil
}

func (s *DeckService) Create(ctx context.Context, principal uuid.UUID, name string) (*models.Deck, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("name is required")
	}

	deck := &models.Deck{OwnerID: principal, Name: name}
	if err := s.db.WithContext(ctx).Create(deck).Error; err != nil {
		return nil, persistenceError("create deck", err)
	}
	return deck, nil
}

// Get returns the deck only to its owner; everyone else gets ErrDeckNotFound.
func (s *DeckService) Get(ctx context.Context, principal, deckID uuid.UUID) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.WithContext(ctx).First(&deck, "id = ?", deckID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, persistenceError("get deck", err)
	}
	if !CanWrite(principal, &deck) {
		return nil, ErrDeckNotFound
	}
	return &deck, nil
}

func (s *DeckService) Update(ctx context.Context, principal, deckID uuid.UUID, patch DeckPatch) (*models.Deck, error) {
	if patch.IsEmpty() {
		return nil, validationError("name or public field is required")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, validationError("name cannot be empty")
	}

	var deck *models.Deck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		deck, err = lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}

		patch.apply(deck)
		deck.UpdatedAt = s.now()

		return tx.Model(&models.Deck{}).Where("id = ?", deck.ID).Updates(map[string]any{
			"name":       deck.Name,
			"public":     deck.Public,
			"updated_at": deck.UpdatedAt,
		}).Error
	})
	if err != nil {
		return nil, classify("update deck", err)
	}
	return deck, nil
}

// Delete removes the deck and all of its cards in one transaction.
func (s *DeckService) Delete(ctx context.Context, principal, deckID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deck, err := lockOwnedDeck(tx, principal, deckID)
		if err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", deck.ID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Deck{}, "id = ?", deck.ID).Error
	})
	return classify("delete deck", err)
}

func (s *DeckService) ListPublic(ctx context.Context, q PublicDeckQuery) (*PublicDeckPage, error) {
	q = q.Normalize()
	db := s.db.WithContext(ctx)

	var total int64
	if err := publicDecks(db, q).Count(&total).Error; err != nil {
		return nil, persistenceError("count public decks", err)
	}

	decks := make([]PublicDeck, 0, q.Limit)
	err := publicDecks(db, q).
		Select("decks.id, decks.owner_id, decks.name, decks.public, decks.created_at, decks.updated_at, " +
			"users.name AS author_name, " +
			"(SELECT COUNT(*) FROM cards WHERE cards.deck_id = decks.id) AS card_count").
		Order("decks.created_at DESC").
		Order("decks.id").
		Offset(q.Offset()).
		Limit(q.Limit).
		Scan(&decks).Error
	if err != nil {
		return nil, persistenceError("list public decks", err)
	}

	return &PublicDeckPage{Decks: decks, Page: q.Page, Limit: q.Limit, Total: total}, nil
}

// CopyPublic deep-copies a public deck and its cards into principal's
// namespace. The copy is private and appears atomically.
func (s *DeckService) CopyPublic(ctx context.Context, principal, deckID uuid.UUID) (*models.Deck, error) {
	if principal == uuid.Nil {
		return nil, ErrUnauthenticated
	}

	var copied *models.Deck
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var source models.Deck
		err := tx.Where("id = ? AND public = ?", deckID, true).First(&source).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPublicDeckNotFound
		}
		if err != nil {
			return err
		}

		copied = &models.Deck{OwnerID: principal, Name: source.Name + CopySuffix, Public: false}
		if err := tx.Create(copied).Error; err != nil {
			return err
		}

		var cards []models.Card
		if err := tx.Where("deck_id = ?", source.ID).Order("created_at ASC").Find(&cards).Error; err != nil {
			return err
		}
		if len(cards) == 0 {
			return nil
		}

		clones := make([]models.Card, 0, len(cards))
		for _, c := range cards {
			clones = append(clones, models.Card{DeckID: copied.ID, Front: c.Front, Back: c.Back})
		}
		return tx.CreateInBatches(clones, 100).Error
	})
	if err != nil {
		return nil, classify("copy deck", err)
	}
	return copied, nil
}

func publicDecks(db *gorm.DB, q PublicDeckQuery) *gorm.DB {
	query := db.Table("decks").
		Joins("JOIN users ON users.id = decks.owner_id").
		Where("decks.public = ?", true)
	if q.Name != "" {
		query = query.Where("LOWER(decks.name) LIKE ? ESCAPE '\\'", containsPattern(q.Name))
	}
	if q.Author != "" {
		query = query.Where("LOWER(COALESCE(users.name, '')) LIKE ? ESCAPE '\\'", containsPattern(q.Author))
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// lockOwnedDeck loads the deck FOR UPDATE and collapses "missing" and "not
// yours" into ErrDeckNotFound.
func lockOwnedDeck(tx *gorm.DB, principal, deckID uuid.UUID) (*models.Deck, error) {
	if principal == uuid.Nil {
		return nil, ErrDeckNotFound
	}
	var deck models.Deck
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&deck, "id = ?", deckID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDeckNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanWrite(principal, &deck) {
		return nil, ErrDeckNotFound
	}
	return &deck, nil
}

// classify passes already-classified errors through and wraps raw store
// errors as ErrPersistence.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, class := range []error{ErrValidation, ErrUnauthenticated, ErrForbidden, ErrNotFound, ErrPersistence} {
		if errors.Is(err, class) {
			return err
		}
	}
	return persistenceError(op, err)
}
