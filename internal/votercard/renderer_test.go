package votercard

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/model"
)

func TestMain(m *testing.M) {
	if key := os.Getenv("UNIPDF_LICENSE_KEY"); key != "" {
		if err := license.SetMeteredKey(key); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

// requireLicense skips render tests when no unipdf key is configured; the
// creator refuses to serialize without one.
func requireLicense(t *testing.T) {
	t.Helper()
	if os.Getenv("UNIPDF_LICENSE_KEY") == "" {
		t.Skip("UNIPDF_LICENSE_KEY not set")
	}
}

func testCardData() CardData {
	return CardData{
		FirstName:      "Ada",
		MiddleName:     "Ngozi",
		Surname:        "Obi",
		DateOfBirth:    time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Gender:         "FEMALE",
		State:          "Lagos",
		LGA:            "Ikeja",
		Ward:           "Ward 4",
		VIN:            "90F5B1A2C3D4E5F6078",
		ApplicationRef: "VR-2026-000123",
		IssueDate:      time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}

func testQR(t *testing.T) []byte {
	t.Helper()
	qr, err := GenerateQR("90F5B1A2C3D4E5F6078", "https://vote.example.org")
	if err != nil {
		t.Fatal(err)
	}
	return qr
}

// assertCardPage checks the invariant page geometry: one page at the fixed
// card size, whatever the input looked like.
func assertCardPage(t *testing.T, pdf []byte) {
	t.Helper()
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatal("output does not look like a PDF")
	}
	reader, err := model.NewPdfReader(bytes.NewReader(pdf))
	if err != nil {
		t.Fatalf("re-reading rendered PDF: %v", err)
	}
	n, err := reader.GetNumPages()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected exactly 1 page, got %d", n)
	}
	page, err := reader.GetPage(1)
	if err != nil {
		t.Fatal(err)
	}
	box, err := page.GetMediaBox()
	if err != nil {
		t.Fatal(err)
	}
	w := box.Urx - box.Llx
	h := box.Ury - box.Lly
	if math.Abs(w-158.4) > 0.1 || math.Abs(h-244.8) > 0.1 {
		t.Fatalf("page is %.1fx%.1f pt, want 158.4x244.8", w, h)
	}
}

func TestRenderCardWithoutPhoto(t *testing.T) {
	requireLicense(t)
	pdf, err := NewRenderer().RenderCard(context.Background(), testCardData(), testQR(t))
	if err != nil {
		t.Fatal(err)
	}
	assertCardPage(t, pdf)
}

func TestRenderCardPhotoFailureDegradesToPlaceholder(t *testing.T) {
	requireLicense(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer ts.Close()

	data := testCardData()
	data.PassportPhotoURL = ts.URL + "/photo.jpg"
	pdf, err := NewRenderer().RenderCard(context.Background(), data, testQR(t))
	if err != nil {
		t.Fatalf("photo failure must not abort the render: %v", err)
	}
	assertCardPage(t, pdf)
}

func TestRenderCardUnreachablePhotoHost(t *testing.T) {
	requireLicense(t)
	data := testCardData()
	data.PassportPhotoURL = "http://127.0.0.1:1/photo.jpg"
	pdf, err := NewRenderer().RenderCard(context.Background(), data, testQR(t))
	if err != nil {
		t.Fatalf("unreachable photo host must not abort the render: %v", err)
	}
	assertCardPage(t, pdf)
}

func TestRenderCardOverlongFieldsKeepPageSize(t *testing.T) {
	requireLicense(t)
	data := testCardData()
	data.Surname = strings.Repeat("OGUNLEYEADEBAYO", 10)
	data.FirstName = strings.Repeat("Oluwaseunfunmilayo", 10)
	data.State = strings.Repeat("AkwaIbom", 20)
	pdf, err := NewRenderer().RenderCard(context.Background(), data, testQR(t))
	if err != nil {
		t.Fatal(err)
	}
	assertCardPage(t, pdf)
}

func TestFormatDate(t *testing.T) {
	got := formatDate(time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC))
	if got != "14/05/1990" {
		t.Fatalf("formatDate = %q, want 14/05/1990", got)
	}
}

func TestFitKeepsRuneBoundaries(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"OGUNBANWO ADEYEMI OLUWASEUN", 18, "OGUNBANWO ADEYEMI "},
		{"ADÉỌLÁ OGUNBANWO", 7, "ADÉỌLÁ "},
		{"ADÉỌLÁ", 6, "ADÉỌLÁ"},
		{"Obi", 18, "Obi"},
	}
	for _, tc := range cases {
		got := fit(tc.in, tc.n)
		if !utf8.ValidString(got) {
			t.Fatalf("fit(%q, %d) produced invalid UTF-8: %q", tc.in, tc.n, got)
		}
		if got != tc.want {
			t.Fatalf("fit(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestNumericFragment(t *testing.T) {
	cases := []struct{ vin, want string }{
		{"90F5B1A2C3D4E5F6078", "905123456078"},
		{"ABCDEF", "000000000000"},
		{"1234567890123456789", "123456789012"},
	}
	for _, tc := range cases {
		if got := numericFragment(tc.vin, 12); got != tc.want {
			t.Fatalf("numericFragment(%q) = %q, want %q", tc.vin, got, tc.want)
		}
	}
}
