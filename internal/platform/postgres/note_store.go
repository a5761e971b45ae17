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

// PostgresNoteStore implements the store.NoteStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNoteStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNoteStore creates a new PostgreSQL implementation of the
// NoteStore interface.
func NewPostgresNoteStore(db store.DBTX, logger *slog.Logger) *PostgresNoteStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNoteStore{
		db:     db,
		logger: logger.With(slog.String("component", "note_store")),
	}
}

// Ensure PostgresNoteStore implements store.NoteStore interface
var _ store.NoteStore = (*PostgresNoteStore)(nil)

// Create implements store.NoteStore.Create.
// Returns store.ErrInvalidEntity if the referenced chapter does not exist.
func (s *PostgresNoteStore) Create(ctx context.Context, note *domain.Note) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := note.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO notes (id, user_id, chapter_id, kind, body, anchor, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.ChapterID,
		string(note.Kind),
		note.Body,
		note.Anchor,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: chapter does not exist", store.ErrInvalidEntity)
		}
		log.Error("failed to create note",
			slog.String("error", err.Error()),
			slog.String("note_id", note.ID.String()))
		return fmt.Errorf("failed to create note: %w", mapError(err))
	}

	return nil
}

// GetByID implements store.NoteStore.GetByID.
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, chapter_id, kind, body, anchor, created_at, updated_at
		FROM notes
		WHERE id = $1
	`

	var note domain.Note
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.UserID,
		&note.ChapterID,
		&note.Kind,
		&note.Body,
		&note.Anchor,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoteNotFound
		}
		log.Error("failed to get note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return nil, fmt.Errorf("failed to get note: %w", mapError(err))
	}

	return &note, nil
}

// ListByUser implements store.NoteStore.ListByUser.
func (s *PostgresNoteStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	chapterID *uuid.UUID,
) ([]*domain.Note, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, chapter_id, kind, body, anchor, created_at, updated_at
		FROM notes
		WHERE user_id = $1 AND ($2::uuid IS NULL OR chapter_id = $2)
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, chapterID)
	if err != nil {
		log.Error("failed to list notes",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list notes: %w", mapError(err))
	}
	defer func() { _ = rows.Close() }()

	var notes []*domain.Note
	for rows.Next() {
		var note domain.Note
		if err := rows.Scan(
			&note.ID,
			&note.UserID,
			&note.ChapterID,
			&note.Kind,
			&note.Body,
			&note.Anchor,
			&note.CreatedAt,
			&note.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}

	return notes, nil
}

// Delete implements store.NoteStore.Delete.
// Returns store.ErrNoteNotFound if the note does not exist.
func (s *PostgresNoteStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM notes WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete note",
			slog.String("error", err.Error()),
			slog.String("note_id", id.String()))
		return fmt.Errorf("failed to delete note: %w", mapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNoteNotFound
	}

	return nil
}
