package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// BookStore defines the interface for book and chapter retrieval.
// Content is seed data: the application only reads it.
type BookStore interface {
	// ListBooks returns all books ordered by title.
	ListBooks(ctx context.Context) ([]*domain.Book, error)

	// GetBook retrieves a book by its ID.
	// Returns ErrBookNotFound if the book does not exist.
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// ListChapters returns a book's chapters in position order, with
	// bodies omitted (listing payloads only need the outline).
	ListChapters(ctx context.Context, bookID uuid.UUID) ([]*domain.Chapter, error)

	// GetChapter retrieves a single chapter of a book by position,
	// including its body.
	// Returns ErrChapterNotFound if no chapter exists at that position.
	GetChapter(ctx context.Context, bookID uuid.UUID, position int) (*domain.Chapter, error)
}
