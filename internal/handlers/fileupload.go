package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"voterreg/internal/models"
	"voterreg/internal/votercard"
)

var bulkHeaders = []string{"first_name", "middle_name", "surname", "date_of_birth", "gender", "state", "lga", "ward", "passport_photo_url"}

// BulkUploadApplications handles CSV bulk import of voter applications by an
// administrator, e.g. when migrating records from a paper registry. Rows are
// created as PENDING and go through the normal approval flow.
// POST /api/admin/applications/bulk-upload (admin)
func (h *Handler) BulkUploadApplications(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("recordsCsv")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":          "recordsCsv file is required",
			"expected_field": "recordsCsv",
		})
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		http.Error(w, "unable to read CSV header", http.StatusBadRequest)
		return
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
	}
	if !equalStringSlices(headers, bulkHeaders) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error":    "Invalid CSV format. Please use the provided template.",
			"expected": bulkHeaders,
			"got":      headers,
		})
		return
	}

	var count, skipped int
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to read CSV row at line %d", line), http.StatusBadRequest)
			return
		}

		gender := strings.ToUpper(strings.TrimSpace(rec[4]))
		dob, dobErr := time.Parse("2006-01-02", strings.TrimSpace(rec[3]))
		if strings.TrimSpace(rec[0]) == "" || strings.TrimSpace(rec[2]) == "" || dobErr != nil || !models.ValidGender(gender) {
			skipped++
			continue
		}

		vin := votercard.NewVIN()
		app := models.VoterApplication{
			VIN:              vin,
			ApplicationRef:   votercard.NewApplicationRef(vin),
			FirstName:        strings.TrimSpace(rec[0]),
			MiddleName:       strings.TrimSpace(rec[1]),
			Surname:          strings.TrimSpace(rec[2]),
			DateOfBirth:      dob,
			Gender:           gender,
			State:            strings.TrimSpace(rec[5]),
			LGA:              strings.TrimSpace(rec[6]),
			Ward:             strings.TrimSpace(rec[7]),
			PassportPhotoURL: strings.TrimSpace(rec[8]),
			Status:           models.StatusPending,
		}
		if err := h.Records.Create(r.Context(), &app); err != nil {
			http.Error(w, "failed to insert row", http.StatusInternalServerError)
			return
		}
		count++
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":  fmt.Sprintf("Successfully imported %d records. Skipped %d invalid rows.", count, skipped),
		"inserted": count,
		"skipped":  skipped,
		"file":     header.Filename,
	})
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
