// Package content exposes the reading material: books, chapters,
// quizzes, and the user's notes and highlights.
package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// Content service errors
var (
	// ErrNoteNotOwned indicates a user tried to delete another user's note
	ErrNoteNotOwned = errors.New("note not owned by user")
)

// QuizWithQuestions bundles a quiz with its ordered questions.
type QuizWithQuestions struct {
	Quiz      *domain.Quiz           `json:"quiz"`
	Questions []*domain.QuizQuestion `json:"questions"`
}

// ContentService provides read access to books and quizzes plus the
// note-taking operations.
type ContentService interface {
	ListBooks(ctx context.Context) ([]*domain.Book, error)

	// GetBook returns a book with its chapter outline (bodies omitted).
	// Returns store.ErrBookNotFound if the book does not exist.
	GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, []*domain.Chapter, error)

	// GetChapter returns one chapter of a book by position, body included.
	GetChapter(ctx context.Context, bookID uuid.UUID, position int) (*domain.Chapter, error)

	ListQuizzes(ctx context.Context, bookID uuid.UUID) ([]*domain.Quiz, error)

	// GetQuiz returns a quiz with its questions in position order.
	GetQuiz(ctx context.Context, id uuid.UUID) (*QuizWithQuestions, error)

	// SubmitQuizResult records a completed attempt. Scoring happens on
	// the client; the service only range-checks the percentage.
	SubmitQuizResult(ctx context.Context, userID, quizID uuid.UUID, scorePercent float64) (*domain.QuizResult, error)

	// CreateNote saves a note or highlight against a chapter.
	CreateNote(ctx context.Context, userID, chapterID uuid.UUID, kind domain.NoteKind, body, anchor string) (*domain.Note, error)

	// ListNotes returns the user's notes, newest first, optionally
	// restricted to one chapter.
	ListNotes(ctx context.Context, userID uuid.UUID, chapterID *uuid.UUID) ([]*domain.Note, error)

	// DeleteNote removes a note after verifying ownership.
	// Returns ErrNoteNotOwned when the note belongs to someone else.
	DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error

	// ExportNotes renders all of the user's notes as a markdown document.
	ExportNotes(ctx context.Context, userID uuid.UUID) (string, error)
}

// Verify interface compliance at compile time
var _ ContentService = (*contentServiceImpl)(nil)

// contentServiceImpl implements the ContentService interface.
type contentServiceImpl struct {
	bookStore store.BookStore
	quizStore store.QuizStore
	noteStore store.NoteStore
	logger    *slog.Logger
}

// NewContentService creates a new ContentService implementation.
func NewContentService(
	bookStore store.BookStore,
	quizStore store.QuizStore,
	noteStore store.NoteStore,
	logger *slog.Logger,
) ContentService {
	if bookStore == nil {
		panic("bookStore cannot be nil")
	}
	if quizStore == nil {
		panic("quizStore cannot be nil")
	}
	if noteStore == nil {
		panic("noteStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &contentServiceImpl{
		bookStore: bookStore,
		quizStore: quizStore,
		noteStore: noteStore,
		logger:    logger.With(slog.String("component", "content_service")),
	}
}

// ListBooks implements ContentService.ListBooks.
func (s *contentServiceImpl) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.bookStore.ListBooks(ctx)
}

// GetBook implements ContentService.GetBook.
func (s *contentServiceImpl) GetBook(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Book, []*domain.Chapter, error) {
	book, err := s.bookStore.GetBook(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	chapters, err := s.bookStore.ListChapters(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list chapters: %w", err)
	}

	return book, chapters, nil
}

// GetChapter implements ContentService.GetChapter.
func (s *contentServiceImpl) GetChapter(
	ctx context.Context,
	bookID uuid.UUID,
	position int,
) (*domain.Chapter, error) {
	if _, err := s.bookStore.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.bookStore.GetChapter(ctx, bookID, position)
}

// ListQuizzes implements ContentService.ListQuizzes.
func (s *contentServiceImpl) ListQuizzes(ctx context.Context, bookID uuid.UUID) ([]*domain.Quiz, error) {
	return s.quizStore.ListByBook(ctx, bookID)
}

// GetQuiz implements ContentService.GetQuiz.
func (s *contentServiceImpl) GetQuiz(ctx context.Context, id uuid.UUID) (*QuizWithQuestions, error) {
	quiz, questions, err := s.quizStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &QuizWithQuestions{Quiz: quiz, Questions: questions}, nil
}

// SubmitQuizResult implements ContentService.SubmitQuizResult.
func (s *contentServiceImpl) SubmitQuizResult(
	ctx context.Context,
	userID, quizID uuid.UUID,
	scorePercent float64,
) (*domain.QuizResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := domain.NewQuizResult(userID, quizID, scorePercent)
	if err != nil {
		return nil, err
	}

	if err := s.quizStore.CreateResult(ctx, result); err != nil {
		return nil, err
	}

	log.Debug("quiz result recorded",
		slog.String("user_id", userID.String()),
		slog.String("quiz_id", quizID.String()),
		slog.Float64("score_percent", scorePercent))

	return result, nil
}

// CreateNote implements ContentService.CreateNote.
func (s *contentServiceImpl) CreateNote(
	ctx context.Context,
	userID, chapterID uuid.UUID,
	kind domain.NoteKind,
	body, anchor string,
) (*domain.Note, error) {
	note, err := domain.NewNote(userID, chapterID, kind, body, anchor)
	if err != nil {
		return nil, err
	}

	if err := s.noteStore.Create(ctx, note); err != nil {
		return nil, err
	}

	return note, nil
}

// ListNotes implements ContentService.ListNotes.
func (s *contentServiceImpl) ListNotes(
	ctx context.Context,
	userID uuid.UUID,
	chapterID *uuid.UUID,
) ([]*domain.Note, error) {
	return s.noteStore.ListByUser(ctx, userID, chapterID)
}

// DeleteNote implements ContentService.DeleteNote.
func (s *contentServiceImpl) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	note, err := s.noteStore.GetByID(ctx, noteID)
	if err != nil {
		return err
	}

	if note.UserID != userID {
		log.Warn("user attempted to delete another user's note",
			slog.String("user_id", userID.String()),
			slog.String("note_id", noteID.String()))
		return ErrNoteNotOwned
	}

	return s.noteStore.Delete(ctx, noteID)
}

// ExportNotes implements ContentService.ExportNotes. Notes come back
// newest first from the store; the export keeps that order.
func (s *contentServiceImpl) ExportNotes(ctx context.Context, userID uuid.UUID) (string, error) {
	notes, err := s.noteStore.ListByUser(ctx, userID, nil)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Study Notes\n")

	for _, note := range notes {
		b.WriteString("\n## ")
		if note.Kind == domain.NoteKindHighlight {
			b.WriteString("Highlight")
		} else {
			b.WriteString("Note")
		}
		b.WriteString(" - ")
		b.WriteString(note.CreatedAt.UTC().Format("2006-01-02"))
		b.WriteString("\n\n")

		if note.Anchor != "" {
			b.WriteString("> ")
			b.WriteString(note.Anchor)
			b.WriteString("\n\n")
		}

		b.WriteString(note.Body)
		b.WriteString("\n")
	}

	return b.String(), nil
}
