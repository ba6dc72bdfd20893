package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"campusverify/internal/store"
)

// Badge serves a QR code linking to a verified student's public profile.
// Unverified and unknown accounts both 404 so the endpoint does not leak
// which ids exist. GET /api/v1/users/{id}/badge
func (h *Handler) Badge(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	target, err := h.service.VerifiedProfileURL(r.Context(), h.frontendBaseURL, uint(id))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "no verified profile")
			return
		}
		h.logger.Error("badge lookup failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build badge")
		return
	}

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("qr encode failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
