package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/moodler-app/backend/internal/handlers"
	"github.com/moodler-app/backend/internal/middleware"
	"github.com/moodler-app/backend/internal/services"
)

// Handlers bundles the route handlers so SetupRoutes takes one argument
// instead of seven.
type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.ProfileHandler
	Journal  *handlers.JournalHandler
	Insights *handlers.InsightsHandler
	Images   *handlers.ImagesHandler
	Events   *handlers.EventsHandler
}

func SetupRoutes(r *chi.Mux, h Handlers, sessions *services.SessionService) {
	// Auth routes
	r.Post("/api/auth/signup", h.Auth.Signup)
	r.Post("/api/auth/signin", h.Auth.Signin)
	r.Post("/api/auth/check-username", h.Auth.CheckUsername)

	// Everything below requires a valid session token.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(sessions))

		r.Post("/api/auth/signout", h.Auth.Signout)
		r.Get("/api/auth/me", h.Auth.Me)
		r.Put("/api/profile", h.Profile.Update)

		// Journaling routes
		r.Get("/api/journals/draft", h.Journal.Draft)
		r.Post("/api/journals", h.Journal.Save)
		r.Put("/api/journals/{id}", h.Journal.Save)
		r.Get("/api/journals", h.Journal.List)
		r.Delete("/api/journals/{id}", h.Journal.Delete)
		r.Post("/api/journals/{id}/favourite", h.Journal.ToggleFavourite)

		// Mood insight routes
		r.Get("/api/insights/summary", h.Insights.Summary)
		r.Get("/api/insights/frequency", h.Insights.Frequency)

		// Image routes
		r.Get("/api/images/search", h.Images.Search)
		r.Post("/api/upload", h.Images.Upload)

		// Live journal event feed
		r.Get("/ws/journal", h.Events.Journal)
	})
}
