package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"campusverify/internal/store"
	"campusverify/internal/usecase"
)

// ListPending returns accounts parked at PENDING together with their stored
// diagnostics for human review. GET /api/v1/admin/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListPending(r.Context())
	if err != nil {
		h.logger.Error("pending list failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list pending verifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pending": users})
}

type overrideReq struct {
	Status string `json:"status"`
}

// OverrideVerification is the human decision path: approve or reject an
// account directly, bypassing the pipeline. This is the only way an account
// reaches REJECTED. POST /api/v1/admin/users/{id}/verification
func (h *Handler) OverrideVerification(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var body overrideReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.service.Override(r.Context(), uint(id), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("override failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to override verification")
		}
		return
	}
	writeJSON(w, http.StatusOK, user)
}
