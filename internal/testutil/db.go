// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/flashdeck-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated, private in-memory SQLite database. A single
// connection keeps the in-memory schema alive for the whole test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func CreateUser(t *testing.T, db *gorm.DB, email, name string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x"}
	if name != "" {
		u.Name = &name
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreateDeck(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, public bool) *models.Deck {
	t.Helper()
	d := &models.Deck{OwnerID: ownerID, Name: name, Public: public}
	require.NoError(t, db.Create(d).Error)
	return d
}

func CreateCard(t *testing.T, db *gorm.DB, deckID uuid.UUID, front, back string) *models.Card {
	t.Helper()
	c := &models.Card{DeckID: deckID, Front: front, Back: back}
	require.NoError(t, db.Create(c).Error)
	return c
}
