package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"campusverify/internal/handlers"
	"campusverify/internal/middleware"
)

// New assembles the route table. Badge and health are public; the
// verification endpoints require a session token; the review endpoints
// require the admin key.
func New(h *handlers.Handler, jwtSecret, adminKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Admin-Key"},
	}))
	r.Use(middleware.RequestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/v1/users/{id}/badge", h.Badge)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(jwtSecret))
		r.Post("/api/v1/users", h.BootstrapUser)
		r.Post("/api/v1/verification", h.SubmitVerification)
		r.Get("/api/v1/verification", h.VerificationStatus)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AdminOnly(adminKey))
		r.Get("/api/v1/admin/pending", h.ListPending)
		r.Post("/api/v1/admin/users/{id}/verification", h.OverrideVerification)
	})

	return r
}
