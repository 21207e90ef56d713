package handlers

import (
	"errors"
	"net/http"

	"voterreg/internal/middleware"
	"voterreg/internal/models"
	"voterreg/internal/votercard"
)

// GetVoterCard: GET /api/voter-card/{id} (protected, owner or admin)
// Serves the existing artifact by redirect, generating it first if none
// exists yet. ?regenerate=true (admin only) forces a fresh artifact with a
// new URL; the previous artifact is simply abandoned.
func (h *Handler) GetVoterCard(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	if app.Status != models.StatusApproved {
		writeJSONResp(w, http.StatusConflict, map[string]string{
			"error":   "not_approved",
			"message": "a voter card is only available once the application is approved",
		})
		return
	}

	role, _ := r.Context().Value(middleware.RoleKey).(string)
	regenerate := r.URL.Query().Get("regenerate") == "true" && role == middleware.RoleAdmin

	if app.CardURL != "" && !regenerate {
		http.Redirect(w, r, app.CardURL, http.StatusFound)
		return
	}

	url, err := h.Cards.GenerateCard(r.Context(), app.VIN)
	if err != nil {
		var confErr *votercard.ConfigurationError
		switch {
		case errors.As(err, &confErr):
			writeJSONResp(w, http.StatusInternalServerError, map[string]string{
				"error": "server misconfigured", "message": confErr.Error(),
			})
		case errors.Is(err, votercard.ErrGenerationInProgress):
			writeJSONResp(w, http.StatusConflict, map[string]string{
				"error": "generation_in_progress", "message": "card generation already in progress, retry shortly",
			})
		default:
			writeJSONResp(w, http.StatusInternalServerError, map[string]string{
				"error": "generation_failed", "message": "card generation failed, please retry",
			})
		}
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
