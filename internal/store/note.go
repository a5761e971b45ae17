package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// NoteStore defines the interface for notes and highlights.
type NoteStore interface {
	// Create saves a new note.
	// Returns ErrInvalidEntity if the referenced chapter does not exist.
	Create(ctx context.Context, note *domain.Note) error

	// GetByID retrieves a note by its unique ID.
	// Returns ErrNoteNotFound if the note does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)

	// ListByUser returns all of a user's notes, newest first. When
	// chapterID is non-nil the result is restricted to that chapter.
	ListByUser(ctx context.Context, userID uuid.UUID, chapterID *uuid.UUID) ([]*domain.Note, error)

	// Delete removes a note by its ID. Ownership is checked by the
	// caller via GetByID before deleting.
	// Returns ErrNoteNotFound if the note does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
