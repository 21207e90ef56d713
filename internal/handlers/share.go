package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"voterreg/internal/middleware"
	"voterreg/internal/votercard"
)

type shareClaims struct {
	VIN string `json:"vin"`
	jwt.RegisteredClaims
}

type generateShareLinkReq struct {
	VIN            string `json:"vin"`
	ExpiresInHours int    `json:"expires_in_hours"`
}

type generateShareLinkResp struct {
	ShareableURL string `json:"shareable_url"`
}

// GenerateShareLink: POST /api/v1/cards/generate-share-link (protected)
// Mints a short-lived token the owner can hand out so a third party may view
// the card record without an account.
func (h *Handler) GenerateShareLink(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(middleware.UserIDKey).(string)
	role, _ := r.Context().Value(middleware.RoleKey).(string)

	var req generateShareLinkReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	req.VIN = strings.TrimSpace(req.VIN)
	if req.VIN == "" {
		http.Error(w, "vin is required", http.StatusBadRequest)
		return
	}
	// Enforce 1..168 hours to avoid immediately-expired tokens
	if req.ExpiresInHours < 1 || req.ExpiresInHours > 168 {
		http.Error(w, "expires_in_hours must be between 1 and 168", http.StatusBadRequest)
		return
	}

	app, err := h.Records.ByVIN(r.Context(), req.VIN)
	if errors.Is(err, votercard.ErrNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}
	if role != middleware.RoleAdmin && app.OwnerID != userID {
		http.Error(w, "forbidden: not owner of application", http.StatusForbidden)
		return
	}

	exp := time.Now().Add(time.Duration(req.ExpiresInHours) * time.Hour)
	claims := shareClaims{
		VIN: req.VIN,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		http.Error(w, "failed to sign share token", http.StatusInternalServerError)
		return
	}

	base := strings.TrimRight(h.Cfg.PublicBaseURL, "/")
	url := fmt.Sprintf("%s/api/v1/card-info/%s?token=%s", base, req.VIN, signed)
	writeJSONResp(w, http.StatusOK, generateShareLinkResp{ShareableURL: url})
}

// CardInfo: GET /api/v1/card-info/{vin}?token=...
// Public resolution of a share link.
func (h *Handler) CardInfo(w http.ResponseWriter, r *http.Request) {
	vin := chi.URLParam(r, "vin")
	if vin == "" {
		http.Error(w, "missing vin", http.StatusBadRequest)
		return
	}
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "This share link is invalid or has expired.", http.StatusUnauthorized)
		return
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &shareClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		http.Error(w, "This share link is invalid or has expired.", http.StatusUnauthorized)
		return
	}
	claims, ok := parsed.Claims.(*shareClaims)
	if !ok || claims.VIN == "" || claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		http.Error(w, "This share link is invalid or has expired.", http.StatusUnauthorized)
		return
	}
	if claims.VIN != vin {
		http.Error(w, "forbidden: vin mismatch", http.StatusForbidden)
		return
	}

	app, err := h.Records.ByVIN(r.Context(), vin)
	if errors.Is(err, votercard.ErrNotFound) {
		http.Error(w, "application not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "database error", http.StatusInternalServerError)
		return
	}

	writeJSONResp(w, http.StatusOK, map[string]any{
		"voter": map[string]any{
			"name":            app.FullName(),
			"vin":             app.VIN,
			"application_ref": app.ApplicationRef,
			"state":           app.State,
			"lga":             app.LGA,
			"status":          app.Status,
		},
		"card_url":    app.CardURL,
		"valid_until": claims.ExpiresAt.Time,
	})
}
