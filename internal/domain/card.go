package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card validation errors
var (
	ErrCardIDEmpty     = errors.New("card ID cannot be empty")
	ErrCardBookIDEmpty = errors.New("card book ID cannot be empty")
	ErrCardFrontEmpty  = errors.New("card front cannot be empty")
	ErrCardBackEmpty   = errors.New("card back cannot be empty")
)

// Card represents a flashcard tied to a book, optionally scoped to a
// single chapter. All users study the same shared card pool; per-user
// scheduling state lives in CardReviewState.
type Card struct {
	ID        uuid.UUID  `json:"id"`
	BookID    uuid.UUID  `json:"book_id"`
	ChapterID *uuid.UUID `json:"chapter_id,omitempty"`
	Front     string     `json:"front"`
	Back      string     `json:"back"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewCard creates a new Card for the given book with the given faces.
// It generates a new UUID for the card ID and sets the timestamps.
// Returns an error if validation fails.
func NewCard(bookID uuid.UUID, chapterID *uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:        uuid.New(),
		BookID:    bookID,
		ChapterID: chapterID,
		Front:     front,
		Back:      back,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.BookID == uuid.Nil {
		return ErrCardBookIDEmpty
	}
	if c.Front == "" {
		return ErrCardFrontEmpty
	}
	if c.Back == "" {
		return ErrCardBackEmpty
	}
	return nil
}
