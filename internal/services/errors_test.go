package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage(t *testing.T) {
	assert.Equal(t, "front is required", Message(validationError("front is required")))
	assert.Equal(t, "deck not found", Message(ErrDeckNotFound))
	assert.Equal(t, "invalid email or password", Message(ErrInvalidCredentials))
	assert.Equal(t, "Internal server error", Message(persistenceError("sync cards", errors.New("disk full"))))
	assert.Equal(t, "Internal server error", Message(errors.New("boom")))
}

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	assert.ErrorIs(t, classify("op", ErrDeckNotFound), ErrNotFound)

	raw := errors.New("connection reset")
	err := classify("op", raw)
	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, raw)
}
