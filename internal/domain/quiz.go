package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Quiz validation errors
var (
	ErrQuizIDEmpty         = errors.New("quiz ID cannot be empty")
	ErrQuizBookIDEmpty     = errors.New("quiz book ID cannot be empty")
	ErrQuizTitleEmpty      = errors.New("quiz title cannot be empty")
	ErrQuestionPromptEmpty = errors.New("question prompt cannot be empty")
	ErrQuestionBadAnswer   = errors.New("answer index out of range")
	ErrInvalidQuizScore    = errors.New("quiz score must be between 0 and 100")
)

// Quiz is a set of multiple-choice questions attached to a book.
type Quiz struct {
	ID        uuid.UUID `json:"id"`
	BookID    uuid.UUID `json:"book_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks if the Quiz has valid data.
func (q *Quiz) Validate() error {
	if q.ID == uuid.Nil {
		return ErrQuizIDEmpty
	}
	if q.BookID == uuid.Nil {
		return ErrQuizBookIDEmpty
	}
	if q.Title == "" {
		return ErrQuizTitleEmpty
	}
	return nil
}

// QuizQuestion is one positioned multiple-choice question. Options are
// stored as a JSON array; AnswerIndex points into it.
type QuizQuestion struct {
	ID          uuid.UUID `json:"id"`
	QuizID      uuid.UUID `json:"quiz_id"`
	Position    int       `json:"position"`
	Prompt      string    `json:"prompt"`
	Options     []string  `json:"options"`
	AnswerIndex int       `json:"answer_index"`
}

// Validate checks if the QuizQuestion has valid data.
func (q *QuizQuestion) Validate() error {
	if q.Prompt == "" {
		return ErrQuestionPromptEmpty
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return ErrQuestionBadAnswer
	}
	return nil
}

// QuizResult records one completed quiz attempt. Results are append-only:
// every attempt produces a new row and feeds the user's quiz average.
type QuizResult struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	QuizID       uuid.UUID `json:"quiz_id"`
	ScorePercent float64   `json:"score_percent"`
	CompletedAt  time.Time `json:"completed_at"`
}

// NewQuizResult creates a result for a completed attempt.
// Returns an error if the score is outside [0,100].
func NewQuizResult(userID, quizID uuid.UUID, scorePercent float64) (*QuizResult, error) {
	if scorePercent < 0 || scorePercent > 100 {
		return nil, ErrInvalidQuizScore
	}

	return &QuizResult{
		ID:           uuid.New(),
		UserID:       userID,
		QuizID:       quizID,
		ScorePercent: scorePercent,
		CompletedAt:  time.Now().UTC(),
	}, nil
}
