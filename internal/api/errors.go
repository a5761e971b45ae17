package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/service/auth"
	"github.com/wrenhall/tome-api/internal/service/content"
	"github.com/wrenhall/tome-api/internal/service/study"
	"github.com/wrenhall/tome-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, content.ErrNoteNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrBookNotFound),
		errors.Is(err, store.ErrChapterNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, store.ErrQuizNotFound),
		errors.Is(err, store.ErrNoteNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, study.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidQuizScore),
		errors.Is(err, domain.ErrInvalidNoteKind),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, content.ErrNoteNotOwned):
		return "You do not own this note"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrBookNotFound):
		return "Book not found"

	case errors.Is(err, store.ErrChapterNotFound):
		return "Chapter not found"

	case errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, study.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrQuizNotFound):
		return "Quiz not found"

	case errors.Is(err, store.ErrNoteNotFound):
		return "Note not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, study.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidQuality):
		return "Quality rating must be between 0 and 5"

	case errors.Is(err, domain.ErrInvalidQuizScore):
		return "Quiz score must be between 0 and 100"

	case errors.Is(err, domain.ErrInvalidNoteKind):
		return "Note kind must be note or highlight"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the response for a service-layer error, mapping
// it to a status code and sanitized message. An empty userMessage means
// "use the safe message derived from the error".
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	if userMessage == "" {
		userMessage = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, userMessage, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format:
	// "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
