package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NoteKind distinguishes free-form notes from text highlights.
type NoteKind string

// Possible note kinds
const (
	NoteKindNote      NoteKind = "note"
	NoteKindHighlight NoteKind = "highlight"
)

// Note validation errors
var (
	ErrNoteIDEmpty        = errors.New("note ID cannot be empty")
	ErrNoteUserIDEmpty    = errors.New("note user ID cannot be empty")
	ErrNoteChapterIDEmpty = errors.New("note chapter ID cannot be empty")
	ErrNoteBodyEmpty      = errors.New("note body cannot be empty")
)

// Note is a user's note or highlight anchored to a chapter.
type Note struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ChapterID uuid.UUID `json:"chapter_id"`
	Kind      NoteKind  `json:"kind"`
	Body      string    `json:"body"`
	Anchor    string    `json:"anchor,omitempty"` // Text location within the chapter, free-form
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote creates a new Note with the given kind and body.
// Returns an error if validation fails.
func NewNote(userID, chapterID uuid.UUID, kind NoteKind, body, anchor string) (*Note, error) {
	now := time.Now().UTC()
	note := &Note{
		ID:        uuid.New(),
		UserID:    userID,
		ChapterID: chapterID,
		Kind:      kind,
		Body:      body,
		Anchor:    anchor,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := note.Validate(); err != nil {
		return nil, err
	}

	return note, nil
}

// Validate checks if the Note has valid data.
func (n *Note) Validate() error {
	if n.ID == uuid.Nil {
		return ErrNoteIDEmpty
	}
	if n.UserID == uuid.Nil {
		return ErrNoteUserIDEmpty
	}
	if n.ChapterID == uuid.Nil {
		return ErrNoteChapterIDEmpty
	}
	if n.Kind != NoteKindNote && n.Kind != NoteKindHighlight {
		return ErrInvalidNoteKind
	}
	if n.Body == "" {
		return ErrNoteBodyEmpty
	}
	return nil
}
