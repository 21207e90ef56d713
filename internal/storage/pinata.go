package storage

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/zde37/pinata-go-sdk/pinata"

	"voterreg/internal/votercard"
)

// filePinner is the slice of the Pinata client the store needs. The SDK's
// response type is unexported, so the seam carries only the IPFS hash.
type filePinner interface {
	pinFile(path, name string) (ipfsHash string, err error)
}

// clientPinner adapts *pinata.Client to the filePinner seam.
type clientPinner struct {
	client *pinata.Client
}

func (c clientPinner) pinFile(path, name string) (string, error) {
	pinned, err := c.client.PinFile(path, &pinata.PinOptions{
		PinataMetadata: pinata.PinataMetadata{Name: name},
	})
	if err != nil {
		return "", err
	}
	return pinned.IpfsHash, nil
}

// PinataStore uploads rendered cards to Pinata and exposes them through the
// configured public gateway. Every upload uses a timestamped key, so a
// regeneration never collides with or overwrites an earlier artifact; old
// artifacts are not deleted here.
type PinataStore struct {
	jwt     string
	gateway string
	pinner  filePinner
}

func NewPinataStore(jwt, gateway string) *PinataStore {
	s := &PinataStore{
		jwt:     jwt,
		gateway: strings.TrimRight(gateway, "/"),
	}
	if jwt != "" {
		s.pinner = clientPinner{client: pinata.New(pinata.NewAuthWithJWT(jwt))}
	}
	return s
}

// Ready reports whether upload credentials are present, without any network
// I/O. Generation checks this before rendering so a misconfigured deployment
// never produces an orphaned partial upload.
func (p *PinataStore) Ready() error {
	if p.jwt == "" {
		return &votercard.ConfigurationError{Missing: "PINATA_JWT"}
	}
	return nil
}

// Store pins the PDF under voter-cards/{applicationID}-{unix}.pdf and
// returns the gateway URL for the pinned content.
func (p *PinataStore) Store(ctx context.Context, pdf []byte, applicationID string) (string, error) {
	if err := p.Ready(); err != nil {
		return "", err
	}
	name := fmt.Sprintf("voter-cards/%s-%d.pdf", applicationID, time.Now().Unix())

	// The pinning client reads from disk; the render output goes through a
	// temp file that lives only for the duration of the upload.
	tmp, err := os.CreateTemp("", "voter-card-*.pdf")
	if err != nil {
		return "", &votercard.StorageError{Err: err}
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(pdf); err != nil {
		tmp.Close()
		return "", &votercard.StorageError{Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &votercard.StorageError{Err: err}
	}

	hash, err := p.pinner.pinFile(tmp.Name(), name)
	if err != nil {
		return "", &votercard.StorageError{Err: err}
	}
	if hash == "" {
		return "", &votercard.StorageError{Err: fmt.Errorf("pin response missing IpfsHash")}
	}
	return p.gateway + "/ipfs/" + hash, nil
}
