package votercard

import (
	"context"
	"time"

	"voterreg/internal/models"
)

// RecordStore is the persisted-state collaborator owning voter applications.
// Implementations surface ErrNotFound when no row matches a VIN.
type RecordStore interface {
	Create(ctx context.Context, app *models.VoterApplication) error
	ByVIN(ctx context.Context, vin string) (*models.VoterApplication, error)
	List(ctx context.Context, status string) ([]models.VoterApplication, error)
	UpdateStatus(ctx context.Context, vin, status string) error
	SetCardURL(ctx context.Context, vin, url string, issuedAt time.Time) error
}

// ArtifactStore persists a rendered card and returns its public URL.
type ArtifactStore interface {
	// Ready reports a ConfigurationError when upload credentials are
	// missing, without doing any network I/O.
	Ready() error
	Store(ctx context.Context, pdf []byte, applicationID string) (string, error)
}
