package votercard

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"voterreg/internal/models"
)

// lockTTL bounds how long a crashed generation attempt can hold the advisory
// lock for an application.
const lockTTL = 30 * time.Second

// Service orchestrates card issuance: QR encoding, rendering, upload and the
// write-back of the artifact URL. Every call produces a fresh artifact, so a
// regeneration behaves exactly like a first-time issuance.
// cardRenderer is what the orchestrator needs from the layout engine.
type cardRenderer interface {
	RenderCard(ctx context.Context, data CardData, qrPNG []byte) ([]byte, error)
}

type Service struct {
	baseURL   string
	records   RecordStore
	artifacts ArtifactStore
	renderer  cardRenderer
	locks     *redis.Client
}

// NewService wires the orchestrator. The public base URL is injected here
// instead of being read from ambient process state; it is validated on every
// generation before any work happens. locks may be nil, in which case
// concurrent regenerations of one application are allowed to race (each
// still produces a valid artifact).
func NewService(baseURL string, records RecordStore, artifacts ArtifactStore, locks *redis.Client) *Service {
	return &Service{
		baseURL:   baseURL,
		records:   records,
		artifacts: artifacts,
		renderer:  NewRenderer(),
		locks:     locks,
	}
}

// GenerateCard runs the issuance pipeline for an approved application and
// returns the new artifact URL. On any failure the stored card URL is left
// untouched, so a retry is indistinguishable from a first attempt.
func (s *Service) GenerateCard(ctx context.Context, vin string) (string, error) {
	if s.baseURL == "" {
		return "", &ConfigurationError{Missing: "PUBLIC_BASE_URL"}
	}
	if err := s.artifacts.Ready(); err != nil {
		return "", err
	}

	if s.locks != nil {
		key := "voter-cards:generating:" + vin
		ok, err := s.locks.SetNX(ctx, key, 1, lockTTL).Result()
		if err != nil {
			// The lock is advisory; a broken redis must not block issuance.
			log.Println("voter-card: advisory lock unavailable:", err)
		} else if !ok {
			return "", ErrGenerationInProgress
		} else {
			defer s.locks.Del(context.WithoutCancel(ctx), key)
		}
	}

	app, err := s.records.ByVIN(ctx, vin)
	if err != nil {
		return "", err
	}

	qrPNG, err := GenerateQR(app.VIN, s.baseURL)
	if err != nil {
		return "", err
	}

	issuedAt := time.Now().UTC()
	pdf, err := s.renderer.RenderCard(ctx, cardData(app, issuedAt), qrPNG)
	if err != nil {
		return "", err
	}

	url, err := s.artifacts.Store(ctx, pdf, app.VIN)
	if err != nil {
		return "", err
	}

	if err := s.records.SetCardURL(ctx, app.VIN, url, issuedAt); err != nil {
		return "", err
	}
	log.Printf("voter-card: issued card for %s at %s", app.VIN, url)
	return url, nil
}

func cardData(app *models.VoterApplication, issuedAt time.Time) CardData {
	return CardData{
		FirstName:        app.FirstName,
		MiddleName:       app.MiddleName,
		Surname:          app.Surname,
		DateOfBirth:      app.DateOfBirth,
		Gender:           app.Gender,
		State:            app.State,
		LGA:              app.LGA,
		Ward:             app.Ward,
		VIN:              app.VIN,
		ApplicationRef:   app.ApplicationRef,
		PassportPhotoURL: app.PassportPhotoURL,
		IssueDate:        issuedAt,
	}
}
