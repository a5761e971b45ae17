package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wrenhall/tome-api/internal/api"
	apiMiddleware "github.com/wrenhall/tome-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
		time.Duration(app.config.Auth.TokenLifetimeMinutes)*time.Minute,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	studyHandler := api.NewStudyHandler(app.studyService)
	statsHandler := api.NewStatsHandler(app.statsService)
	contentHandler := api.NewContentHandler(app.contentService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Content endpoints
			r.Get("/books", contentHandler.ListBooks)
			r.Get("/books/{id}", contentHandler.GetBook)
			r.Get("/books/{id}/chapters/{pos}", contentHandler.GetChapter)

			// Study endpoints
			r.Get("/study/queue", studyHandler.GetQueue)
			r.Post("/cards/{id}/review", studyHandler.SubmitReview)

			// Quiz endpoints
			r.Get("/quizzes", contentHandler.ListQuizzes)
			r.Get("/quizzes/{id}", contentHandler.GetQuiz)
			r.Post("/quizzes/{id}/results", contentHandler.SubmitQuizResult)

			// Note endpoints
			r.Get("/notes", contentHandler.ListNotes)
			r.Post("/notes", contentHandler.CreateNote)
			r.Get("/notes/export", contentHandler.ExportNotes)
			r.Delete("/notes/{id}", contentHandler.DeleteNote)

			// Progress endpoints
			r.Get("/progress", statsHandler.GetProgress)
			r.Get("/leaderboard", statsHandler.GetLeaderboard)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
