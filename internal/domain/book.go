package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Book and chapter validation errors
var (
	ErrBookIDEmpty         = errors.New("book ID cannot be empty")
	ErrBookTitleEmpty      = errors.New("book title cannot be empty")
	ErrChapterIDEmpty      = errors.New("chapter ID cannot be empty")
	ErrChapterBookIDEmpty  = errors.New("chapter book ID cannot be empty")
	ErrChapterTitleEmpty   = errors.New("chapter title cannot be empty")
	ErrChapterBadPosition  = errors.New("chapter position must be at least 1")
)

// Book represents a unit of readable content in the library.
// Books are seed data: users read them but never modify them.
type Book struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrBookIDEmpty
	}
	if b.Title == "" {
		return ErrBookTitleEmpty
	}
	return nil
}

// Chapter is a positioned section of a book holding the markdown body
// that readers see.
type Chapter struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book_id"`
	Position  int       `json:"position"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Chapter has valid data.
func (c *Chapter) Validate() error {
	if c.ID == uuid.Nil {
		return ErrChapterIDEmpty
	}
	if c.BookID == uuid.Nil {
		return ErrChapterBookIDEmpty
	}
	if c.Position < 1 {
		return ErrChapterBadPosition
	}
	if c.Title == "" {
		return ErrChapterTitleEmpty
	}
	return nil
}
