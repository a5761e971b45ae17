package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/wrenhall/tome-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// SubmitReviewRequest defines the payload for grading a flashcard.
type SubmitReviewRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// ReviewStateResponse is the rescheduled state returned after a review.
type ReviewStateResponse struct {
	CardID       uuid.UUID `json:"card_id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
}

// NewReviewStateResponse converts a review state into its API shape.
func NewReviewStateResponse(state *domain.CardReviewState) ReviewStateResponse {
	return ReviewStateResponse{
		CardID:       state.CardID,
		EaseFactor:   state.EaseFactor,
		IntervalDays: state.IntervalDays,
		Repetitions:  state.Repetitions,
		NextReviewAt: state.NextReviewAt,
	}
}

// QueueResponse is the study queue payload.
type QueueResponse struct {
	Cards []*domain.Card `json:"cards"`
}

// SubmitQuizResultRequest defines the payload for recording a quiz attempt.
type SubmitQuizResultRequest struct {
	ScorePercent *float64 `json:"score_percent" validate:"required,min=0,max=100"`
}

// CreateNoteRequest defines the payload for creating a note or highlight.
type CreateNoteRequest struct {
	ChapterID uuid.UUID `json:"chapter_id" validate:"required"`
	Kind      string    `json:"kind"       validate:"required,oneof=note highlight"`
	Body      string    `json:"body"       validate:"required"`
	Anchor    string    `json:"anchor"`
}

// BookResponse is a book with its chapter outline.
type BookResponse struct {
	Book     *domain.Book      `json:"book"`
	Chapters []*domain.Chapter `json:"chapters"`
}
