package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"campusverify/internal/middleware"
)

type bootstrapUserReq struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// BootstrapUser provisions the user row for the authenticated subject on
// first login. Idempotent: an existing row is returned as-is with 200.
// POST /api/v1/users
func (h *Handler) BootstrapUser(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body bootstrapUserReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.Email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	user, created, err := h.service.Bootstrap(r.Context(), subject, body.Email, body.Name)
	if err != nil {
		h.logger.Error("user bootstrap failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, user)
}
