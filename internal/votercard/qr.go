package votercard

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// qrPixels is the raster size of the generated QR image. 200px is plenty for
// the ~35pt square it occupies on the card back.
const qrPixels = 200

// GenerateQR encodes the public verification URL for a VIN as a PNG. The
// highest error-correction level keeps the symbol scannable at card size.
func GenerateQR(vin, baseURL string) ([]byte, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, &ConfigurationError{Missing: "PUBLIC_BASE_URL"}
	}
	target := strings.TrimRight(baseURL, "/") + "/verify/" + vin
	png, err := qrcode.Encode(target, qrcode.Highest, qrPixels)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", vin, err)
	}
	return png, nil
}
