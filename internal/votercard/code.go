package votercard

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// NewVIN returns a fresh voter identification number: an opaque uppercase
// alphanumeric token that is safe in a URL path segment without escaping.
func NewVIN() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:19]
}

// NewApplicationRef returns the reference shown on the card footer, e.g.
// VR-2026-90F5B1A2C3D4E5F6078. The tail is the application's VIN, so refs are
// unique whenever VINs are and never collide under a unique index.
func NewApplicationRef(vin string) string {
	return fmt.Sprintf("VR-%d-%s", time.Now().Year(), vin)
}

// GeneratePollingUnitCode formats a polling unit code as SS-LL-WW-PPP. Only
// the ward segment is derived from input; the state, LGA and unit segments
// are placeholders until an authoritative geographic code table is wired in.
// Callers must not treat the result as a real polling unit assignment.
func GeneratePollingUnitCode(state, lga, ward string) string {
	_ = state
	_ = lga
	w := nonDigitRe.ReplaceAllString(ward, "")
	if w == "" {
		w = "01"
	}
	if len(w) > 2 {
		w = w[:2]
	}
	for len(w) < 2 {
		w = "0" + w
	}
	return fmt.Sprintf("01-01-%s-001", w)
}
