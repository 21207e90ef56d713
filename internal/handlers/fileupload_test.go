package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func postCSV(t *testing.T, app http.Handler, token, csvBody string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("recordsCsv", "records.csv")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte(csvBody)); err != nil {
		t.Fatal(err)
	}
	if err := form.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/admin/applications/bulk-upload", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	var payload map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec, payload
}

const bulkCSV = `first_name,middle_name,surname,date_of_birth,gender,state,lga,ward,passport_photo_url
Ada,Ngozi,Obi,1990-05-14,FEMALE,Lagos,Ikeja,Ward 4,
Chidi,,Okafor,1985-01-02,MALE,Enugu,Nsukka,Ward 2,
Broken,,,not-a-date,MALE,Enugu,Nsukka,Ward 2,
`

func TestBulkUploadApplications(t *testing.T) {
	records := newMemStore()
	app := buildTestApp(records, "https://vote.example.org")

	rec, payload := postCSV(t, app, signToken(t, "admin-1", "admin"), bulkCSV)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["inserted"] != float64(2) || payload["skipped"] != float64(1) {
		t.Fatalf("expected 2 inserted / 1 skipped, got %v", payload)
	}
	apps, err := records.List(context.Background(), "PENDING")
	if err != nil {
		t.Fatal(err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 pending applications, got %d", len(apps))
	}
	for _, a := range apps {
		if a.VIN == "" || a.ApplicationRef == "" {
			t.Fatalf("imported row missing identifiers: %+v", a)
		}
	}
}

func TestBulkUploadRejectsBadHeader(t *testing.T) {
	app := buildTestApp(newMemStore(), "https://vote.example.org")
	rec, _ := postCSV(t, app, signToken(t, "admin-1", "admin"), "name,dob\nAda,1990-05-14\n")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong header, got %d", rec.Code)
	}
}

func TestBulkUploadAdminOnly(t *testing.T) {
	app := buildTestApp(newMemStore(), "https://vote.example.org")
	rec, _ := postCSV(t, app, signToken(t, "user-1", "voter"), bulkCSV)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}
