package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrenhall/tome-api/internal/domain"
)

func TestNewCard(t *testing.T) {
	bookID := uuid.New()
	chapterID := uuid.New()

	t.Run("valid card", func(t *testing.T) {
		card, err := domain.NewCard(bookID, &chapterID, "What is the EF floor?", "1.3")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, card.ID)
		assert.Equal(t, bookID, card.BookID)
		assert.Equal(t, &chapterID, card.ChapterID)
	})

	t.Run("chapter is optional", func(t *testing.T) {
		card, err := domain.NewCard(bookID, nil, "front", "back")
		require.NoError(t, err)
		assert.Nil(t, card.ChapterID)
	})

	t.Run("missing book", func(t *testing.T) {
		_, err := domain.NewCard(uuid.Nil, nil, "front", "back")
		assert.ErrorIs(t, err, domain.ErrCardBookIDEmpty)
	})

	t.Run("empty front", func(t *testing.T) {
		_, err := domain.NewCard(bookID, nil, "", "back")
		assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)
	})

	t.Run("empty back", func(t *testing.T) {
		_, err := domain.NewCard(bookID, nil, "front", "")
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})
}

func TestNewNote(t *testing.T) {
	userID := uuid.New()
	chapterID := uuid.New()

	t.Run("valid note", func(t *testing.T) {
		note, err := domain.NewNote(userID, chapterID, domain.NoteKindNote, "remember this", "")
		require.NoError(t, err)
		assert.Equal(t, domain.NoteKindNote, note.Kind)
	})

	t.Run("valid highlight with anchor", func(t *testing.T) {
		note, err := domain.NewNote(userID, chapterID, domain.NoteKindHighlight, "the quoted text", "p3:s2")
		require.NoError(t, err)
		assert.Equal(t, "p3:s2", note.Anchor)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := domain.NewNote(userID, chapterID, domain.NoteKind("doodle"), "x", "")
		assert.ErrorIs(t, err, domain.ErrInvalidNoteKind)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := domain.NewNote(userID, chapterID, domain.NoteKindNote, "", "")
		assert.ErrorIs(t, err, domain.ErrNoteBodyEmpty)
	})
}

func TestNewQuizResult(t *testing.T) {
	t.Run("valid score", func(t *testing.T) {
		result, err := domain.NewQuizResult(uuid.New(), uuid.New(), 87.5)
		require.NoError(t, err)
		assert.Equal(t, 87.5, result.ScorePercent)
	})

	t.Run("score out of range", func(t *testing.T) {
		_, err := domain.NewQuizResult(uuid.New(), uuid.New(), 101)
		assert.ErrorIs(t, err, domain.ErrInvalidQuizScore)

		_, err = domain.NewQuizResult(uuid.New(), uuid.New(), -0.5)
		assert.ErrorIs(t, err, domain.ErrInvalidQuizScore)
	})
}
