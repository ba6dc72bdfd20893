package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campusverify/internal/middleware"
	"campusverify/internal/store"
	"campusverify/internal/usecase"
	"campusverify/internal/verification"
)

type submitVerificationReq struct {
	ImageURL   string `json:"image_url"`
	RollNumber string `json:"roll_number"`
}

// SubmitVerification runs one verification attempt for the authenticated
// student. POST /api/v1/verification
//
// Every expected pipeline failure (timeout, no match, duplicate) comes back
// as 200 with a PENDING status; the reason stays in admin diagnostics and is
// never disclosed to the student.
func (h *Handler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body submitVerificationReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	body.ImageURL = strings.TrimSpace(body.ImageURL)
	body.RollNumber = strings.TrimSpace(body.RollNumber)
	if body.ImageURL == "" || body.RollNumber == "" {
		writeError(w, http.StatusBadRequest, "image_url and roll_number are required")
		return
	}

	result, err := h.service.Submit(r.Context(), subject, body.ImageURL, body.RollNumber)
	if err != nil {
		var incomplete *usecase.IncompleteProfileError
		switch {
		case errors.As(err, &incomplete):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "profile incomplete",
				"missing": incomplete.Missing,
			})
		case errors.Is(err, store.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("verification submit failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to submit verification")
		}
		return
	}

	message := "Verification submitted. Pending manual review."
	if result.Status == verification.StatusVerified {
		message = "Verification successful! You are now verified."
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  string(result.Status),
		"message": message,
	})
}

// VerificationStatus returns the caller's latest verification summary.
// GET /api/v1/verification
func (h *Handler) VerificationStatus(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	summary, err := h.service.GetStatus(r.Context(), subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("status lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load status")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
