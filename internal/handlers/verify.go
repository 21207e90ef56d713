package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"voterreg/internal/votercard"
)

// VerifyVoter: GET /api/verify/{vin}
// Public lookup. Unknown and unapproved VINs are normal {valid:false}
// responses, never errors.
func (h *Handler) VerifyVoter(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "vin")
	if vin == "" {
		writeJSONResp(w, http.StatusBadRequest, map[string]any{"status": "Bad_Request", "message": "missing vin"})
		return
	}

	result, err := votercard.Verify(r.Context(), h.Records, vin)
	if err != nil {
		writeJSONResp(w, http.StatusInternalServerError, map[string]any{"status": "Server_Error", "message": "database error"})
		return
	}
	writeJSONResp(w, http.StatusOK, result)
}
