package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/platform/logger"
	"github.com/wrenhall/tome-api/internal/store"
)

// PostgresBookStore implements the store.BookStore interface
// using a PostgreSQL database as the storage backend.
type PostgresBookStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBookStore creates a new PostgreSQL implementation of the
// BookStore interface.
func NewPostgresBookStore(db store.DBTX, logger *slog.Logger) *PostgresBookStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBookStore{
		db:     db,
		logger: logger.With(slog.String("component", "book_store")),
	}
}

// Ensure PostgresBookStore implements store.BookStore interface
var _ store.BookStore = (*PostgresBookStore)(nil)

// ListBooks implements store.BookStore.ListBooks.
func (s *PostgresBookStore) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, author, description, created_at, updated_at
		FROM books
		ORDER BY title
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list books", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list books: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var books []*domain.Book
	for rows.Next() {
		var book domain.Book
		if err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.CreatedAt,
			&book.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}

	return books, nil
}

// GetBook implements store.BookStore.GetBook.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *PostgresBookStore) GetBook(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, author, description, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	var book domain.Book
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.CreatedAt,
		&book.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		log.Error("failed to get book",
			slog.String("error", err.Error()),
			slog.String("book_id", id.String()))
		return nil, fmt.Errorf("failed to get book: %w", mapError(err))
	}

	return &book, nil
}

// ListChapters implements store.BookStore.ListChapters.
// Chapter bodies are omitted; listings only need the outline.
func (s *PostgresBookStore) ListChapters(ctx context.Context, bookID uuid.UUID) ([]*domain.Chapter, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, book_id, position, title, created_at, updated_at
		FROM chapters
		WHERE book_id = $1
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query, bookID)
	if err != nil {
		log.Error("failed to list chapters",
			slog.String("error", err.Error()),
			slog.String("book_id", bookID.String()))
		return nil, fmt.Errorf("failed to list chapters: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var chapters []*domain.Chapter
	for rows.Next() {
		var ch domain.Chapter
		if err := rows.Scan(
			&ch.ID,
			&ch.BookID,
			&ch.Position,
			&ch.Title,
			&ch.CreatedAt,
			&ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate chapters: %w", err)
	}

	return chapters, nil
}

// GetChapter implements store.BookStore.GetChapter.
// Returns store.ErrChapterNotFound if no chapter exists at the position.
func (s *PostgresBookStore) GetChapter(
	ctx context.Context,
	bookID uuid.UUID,
	position int,
) (*domain.Chapter, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, book_id, position, title, body, created_at, updated_at
		FROM chapters
		WHERE book_id = $1 AND position = $2
	`

	var ch domain.Chapter
	err := s.db.QueryRowContext(ctx, query, bookID, position).Scan(
		&ch.ID,
		&ch.BookID,
		&ch.Position,
		&ch.Title,
		&ch.Body,
		&ch.CreatedAt,
		&ch.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrChapterNotFound
		}
		log.Error("failed to get chapter",
			slog.String("error", err.Error()),
			slog.String("book_id", bookID.String()),
			slog.Int("position", position))
		return nil, fmt.Errorf("failed to get chapter: %w", mapError(err))
	}

	return &ch, nil
}
