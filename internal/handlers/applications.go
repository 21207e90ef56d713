package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"voterreg/internal/middleware"
	"voterreg/internal/models"
	"voterreg/internal/votercard"
)

type createApplicationReq struct {
	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	Surname          string `json:"surname"`
	DateOfBirth      string `json:"date_of_birth"` // YYYY-MM-DD
	Gender           string `json:"gender"`
	State            string `json:"state"`
	LGA              string `json:"lga"`
	Ward             string `json:"ward"`
	PassportPhotoURL string `json:"passport_photo_url"`
}

// CreateApplication: POST /api/applications (protected)
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createApplicationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Gender = strings.ToUpper(strings.TrimSpace(req.Gender))
	if req.FirstName == "" || req.Surname == "" || req.State == "" || req.LGA == "" {
		http.Error(w, "first_name, surname, state and lga are required", http.StatusBadRequest)
		return
	}
	if !models.ValidGender(req.Gender) {
		http.Error(w, "gender must be MALE or FEMALE", http.StatusBadRequest)
		return
	}
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		http.Error(w, "invalid date_of_birth (expected YYYY-MM-DD)", http.StatusBadRequest)
		return
	}

	vin := votercard.NewVIN()
	app := models.VoterApplication{
		VIN:              vin,
		ApplicationRef:   votercard.NewApplicationRef(vin),
		OwnerID:          userID,
		FirstName:        req.FirstName,
		MiddleName:       strings.TrimSpace(req.MiddleName),
		Surname:          req.Surname,
		DateOfBirth:      dob,
		Gender:           req.Gender,
		State:            strings.TrimSpace(req.State),
		LGA:              strings.TrimSpace(req.LGA),
		Ward:             strings.TrimSpace(req.Ward),
		PassportPhotoURL: strings.TrimSpace(req.PassportPhotoURL),
		Status:           models.StatusPending,
	}
	if err := h.Records.Create(r.Context(), &app); err != nil {
		http.Error(w, "failed to create application", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusCreated, app)
}

// GetApplication: GET /api/applications/{id} (protected, owner or admin)
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	writeJSONResp(w, http.StatusOK, app)
}

// ListApplications: GET /api/admin/applications?status=... (admin)
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))
	if status != "" && !models.ValidStatus(status) {
		http.Error(w, "invalid status filter", http.StatusBadRequest)
		return
	}
	apps, err := h.Records.List(r.Context(), status)
	if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	writeJSONResp(w, http.StatusOK, apps)
}

// UpdateApplicationStatus: PATCH /api/admin/applications/{id}/status (admin)
// Approval synchronously triggers card issuance; a generation failure does
// not roll the approval back, the card stays regenerable on demand.
func (h *Handler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if status != models.StatusApproved && status != models.StatusRejected {
		http.Error(w, "status must be APPROVED or REJECTED", http.StatusBadRequest)
		return
	}

	if err := h.Records.UpdateStatus(r.Context(), vin, status); err != nil {
		if errors.Is(err, votercard.ErrNotFound) {
			writeJSONResp(w, http.StatusNotFound, map[string]string{"error": "application not found"})
			return
		}
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	resp := map[string]any{"vin": vin, "status": status}
	if status == models.StatusApproved {
		if url, err := h.Cards.GenerateCard(r.Context(), vin); err != nil {
			log.Println("voter-card: generation after approval failed:", err)
			resp["card_error"] = "card generation failed, retry via the voter-card endpoint"
		} else {
			resp["card_url"] = url
		}
	}
	writeJSONResp(w, http.StatusOK, resp)
}

// loadOwned fetches the application in {id} and enforces the owner-or-admin
// access rule shared by the application and card endpoints.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.VoterApplication, bool) {
	vin := chi.URLParam(r, "id")
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	role, _ := r.Context().Value(middleware.RoleKey).(string)

	app, err := h.Records.ByVIN(r.Context(), vin)
	if errors.Is(err, votercard.ErrNotFound) {
		writeJSONResp(w, http.StatusNotFound, map[string]string{"error": "application not found"})
		return nil, false
	}
	if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return nil, false
	}
	if role != middleware.RoleAdmin && app.OwnerID != userID {
		writeJSONResp(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
		return nil, false
	}
	return app, true
}
