package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voterreg/internal/votercard"
)

// GetVerificationQR: GET /api/verify/{vin}/qrcode
// Serves the same QR image that is printed on the card back, for embedding
// in confirmation pages and emails.
func (h *Handler) GetVerificationQR(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "vin")

	png, err := votercard.GenerateQR(vin, h.Cfg.PublicBaseURL)
	if err != nil {
		var confErr *votercard.ConfigurationError
		if errors.As(err, &confErr) {
			http.Error(w, "server misconfigured", http.StatusInternalServerError)
			return
		}
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
