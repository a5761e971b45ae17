package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/domain"
	"github.com/wrenhall/tome-api/internal/service/content"
)

// ContentHandler handles book, quiz, and note endpoints.
type ContentHandler struct {
	contentService content.ContentService
	validator      *validator.Validate
}

// NewContentHandler creates a new ContentHandler with the given dependencies.
func NewContentHandler(contentService content.ContentService) *ContentHandler {
	if contentService == nil {
		panic("contentService cannot be nil")
	}
	return &ContentHandler{
		contentService: contentService,
		validator:      validator.New(),
	}
}

// ListBooks handles GET /api/books.
func (h *ContentHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.contentService.ListBooks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list books")
		return
	}

	if books == nil {
		books = []*domain.Book{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, books)
}

// GetBook handles GET /api/books/{id}.
func (h *ContentHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	book, chapters, err := h.contentService.GetBook(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BookResponse{Book: book, Chapters: chapters})
}

// GetChapter handles GET /api/books/{id}/chapters/{pos}.
func (h *ContentHandler) GetChapter(w http.ResponseWriter, r *http.Request) {
	bookID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	position, err := strconv.Atoi(chi.URLParam(r, "pos"))
	if err != nil || position < 1 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Chapter position must be a positive integer")
		return
	}

	chapter, err := h.contentService.GetChapter(r.Context(), bookID, position)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, chapter)
}

// ListQuizzes handles GET /api/quizzes?book_id=.
func (h *ContentHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	bookID, err := uuid.Parse(r.URL.Query().Get("book_id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "book_id query parameter is required")
		return
	}

	quizzes, err := h.contentService.ListQuizzes(r.Context(), bookID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list quizzes")
		return
	}

	if quizzes == nil {
		quizzes = []*domain.Quiz{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, quizzes)
}

// GetQuiz handles GET /api/quizzes/{id}.
func (h *ContentHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	quiz, err := h.contentService.GetQuiz(r.Context(), quizID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, quiz)
}

// SubmitQuizResult handles POST /api/quizzes/{id}/results.
func (h *ContentHandler) SubmitQuizResult(w http.ResponseWriter, r *http.Request) {
	userID, quizID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitQuizResultRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	result, err := h.contentService.SubmitQuizResult(r.Context(), userID, quizID, *req.ScorePercent)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ListNotes handles GET /api/notes?chapter_id=.
func (h *ContentHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var chapterID *uuid.UUID
	if raw := r.URL.Query().Get("chapter_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "chapter_id has invalid format")
			return
		}
		chapterID = &parsed
	}

	notes, err := h.contentService.ListNotes(r.Context(), userID, chapterID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notes")
		return
	}

	if notes == nil {
		notes = []*domain.Note{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, notes)
}

// CreateNote handles POST /api/notes.
func (h *ContentHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateNoteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	note, err := h.contentService.CreateNote(
		r.Context(), userID, req.ChapterID, domain.NoteKind(req.Kind), req.Body, req.Anchor)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, note)
}

// DeleteNote handles DELETE /api/notes/{id}.
func (h *ContentHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteNote(r.Context(), userID, noteID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportNotes handles GET /api/notes/export, returning markdown.
func (h *ContentHandler) ExportNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	markdown, err := h.contentService.ExportNotes(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export notes")
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="notes.md"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(markdown)); err != nil {
		slog.Error("failed to write notes export", "error", err)
	}
}
