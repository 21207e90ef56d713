package votercard

import (
	"context"
	"errors"
	"time"

	"voterreg/internal/models"
)

// VerifiedVoter is the public projection of an approved application.
type VerifiedVoter struct {
	Name       string    `json:"name"`
	VIN        string    `json:"vin"`
	CardID     string    `json:"cardId,omitempty"`
	State      string    `json:"state"`
	LGA        string    `json:"lga"`
	Status     string    `json:"status"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// VerificationResult is a tagged variant: either a valid voter or a message.
type VerificationResult struct {
	Valid   bool           `json:"valid"`
	Voter   *VerifiedVoter `json:"voter,omitempty"`
	Message string         `json:"message,omitempty"`
}

// Verify looks up a VIN and reports whether it belongs to an approved voter.
// Unknown and unapproved VINs are normal invalid outcomes, not errors; only
// store failures are returned as errors. The lookup has no side effects and
// always reads the record's current fields.
func Verify(ctx context.Context, records RecordStore, vin string) (VerificationResult, error) {
	app, err := records.ByVIN(ctx, vin)
	if errors.Is(err, ErrNotFound) {
		return VerificationResult{
			Valid:   false,
			Message: "No voter record was found for the provided VIN.",
		}, nil
	}
	if err != nil {
		return VerificationResult{}, err
	}
	if app.Status != models.StatusApproved {
		return VerificationResult{
			Valid:   false,
			Message: "This VIN does not belong to a verified voter record.",
		}, nil
	}
	return VerificationResult{
		Valid: true,
		Voter: &VerifiedVoter{
			Name:       app.FullName(),
			VIN:        app.VIN,
			CardID:     app.ApplicationRef,
			State:      app.State,
			LGA:        app.LGA,
			Status:     app.Status,
			VerifiedAt: time.Now().UTC(),
		},
	}, nil
}
