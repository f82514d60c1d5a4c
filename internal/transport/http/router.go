package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"trivia-quiz-service/internal/auth"
)

// NewRouter mounts the JSON API. Quiz, score submission and profile all sit
// behind the bearer token middleware; signup, login, the leaderboard and its
// live feed are public.
func NewRouter(h *Handler, authService *auth.Service, feed *FeedHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/login", h.Login)
		r.Get("/leaderboard", h.Leaderboard)

		r.Group(func(r chi.Router) {
			r.Use(authService.Middleware)
			r.Get("/quiz", h.Quiz)
			r.Post("/save-score", h.SaveScore)
			r.Get("/profile", h.Profile)
		})
	})

	if feed != nil {
		r.Get("/ws/leaderboard", feed.ServeWS)
	}

	return r
}
