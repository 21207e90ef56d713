package handlers

import (
	"encoding/json"
	"net/http"

	"voterreg/internal/config"
	"voterreg/internal/votercard"
)

// Handler carries the collaborators every endpoint needs. Dependencies are
// injected at startup rather than read from package globals.
type Handler struct {
	Records votercard.RecordStore
	Cards   *votercard.Service
	Cfg     *config.Config
}

func writeJSONResp(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
