package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"campusverify/internal/models"
	"campusverify/internal/usecase"
	"campusverify/internal/verification"
)

// Service is the application surface the handlers call into.
type Service interface {
	Bootstrap(ctx context.Context, subjectID, email, name string) (*models.User, bool, error)
	Submit(ctx context.Context, subjectID, imageURL, typedRollNumber string) (verification.Result, error)
	GetStatus(ctx context.Context, subjectID string) (*usecase.StatusSummary, error)
	ListPending(ctx context.Context) ([]models.User, error)
	Override(ctx context.Context, userID uint, status string) (*models.User, error)
	VerifiedProfileURL(ctx context.Context, frontendBase string, userID uint) (string, error)
}

var _ Service = (*usecase.VerificationUseCase)(nil)

// Handler bundles the HTTP endpoints with their dependencies.
type Handler struct {
	service         Service
	frontendBaseURL string
	logger          *zap.Logger
}

func New(service Service, frontendBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		service:         service,
		frontendBaseURL: frontendBaseURL,
		logger:          logger.Named("handlers"),
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
