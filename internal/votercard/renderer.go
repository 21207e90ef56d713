package votercard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"
)

// Card form factor: 2.2" x 3.4" portrait, in points. The page size is
// constant for every generation regardless of field lengths.
const (
	cardWidth  = 158.4
	cardHeight = 244.8

	// y offset where the back face begins (exact half of the page).
	backTop = cardHeight / 2

	photoX = 8.0
	photoY = 30.0
	photoW = 42.0
	photoH = 50.0

	qrSize = 35.0
)

// CardData is the ephemeral render input, assembled per generation call from
// the application record.
type CardData struct {
	FirstName        string
	MiddleName       string
	Surname          string
	DateOfBirth      time.Time
	Gender           string
	State            string
	LGA              string
	Ward             string
	VIN              string
	ApplicationRef   string
	PassportPhotoURL string
	IssueDate        time.Time
}

// Renderer composes the voter card PDF. A single instance is safe for
// concurrent use.
type Renderer struct {
	client *http.Client
}

func NewRenderer() *Renderer {
	// The photo fetch is the only step that reaches an external URL
	// mid-render; a timeout there degrades to the placeholder.
	return &Renderer{client: &http.Client{Timeout: 8 * time.Second}}
}

// painter draws onto a creator and keeps the first error it hits. Every
// composition failure is fatal to the render attempt.
type painter struct {
	c   *creator.Creator
	err error
}

func (p *painter) draw(d creator.Drawable) {
	if p.err != nil {
		return
	}
	p.err = p.c.Draw(d)
}

func (p *painter) text(s string, font *model.PdfFont, size float64, color creator.Color, x, y float64) {
	if p.err != nil {
		return
	}
	par := p.c.NewParagraph(s)
	par.SetFont(font)
	par.SetFontSize(size)
	par.SetColor(color)
	par.SetPos(x, y)
	p.draw(par)
}

func (p *painter) centeredText(s string, font *model.PdfFont, size float64, color creator.Color, y float64) {
	if p.err != nil {
		return
	}
	par := p.c.NewParagraph(s)
	par.SetFont(font)
	par.SetFontSize(size)
	par.SetColor(color)
	par.SetWidth(cardWidth)
	par.SetTextAlignment(creator.TextAlignmentCenter)
	par.SetPos(0, y)
	p.draw(par)
}

func (p *painter) filledRect(x, y, w, h float64, fill creator.Color) {
	if p.err != nil {
		return
	}
	rect := p.c.NewRectangle(x, y, w, h)
	rect.SetFillColor(fill)
	rect.SetBorderWidth(0)
	p.draw(rect)
}

// RenderCard produces the single-page card document. The QR PNG is embedded
// verbatim. A photo that cannot be loaded degrades to a placeholder box;
// any other failure aborts the attempt with a RenderError.
func (r *Renderer) RenderCard(ctx context.Context, data CardData, qrPNG []byte) ([]byte, error) {
	helv, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	helvBold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	courierBold, err := model.NewStandard14Font(model.CourierBoldName)
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	c := creator.New()
	c.SetPageMargins(0, 0, 0, 0)
	c.SetPageSize(creator.PageSize{cardWidth, cardHeight})
	c.NewPage()

	p := &painter{c: c}
	r.drawFront(ctx, p, data, helv, helvBold, courierBold)
	r.drawBack(p, data, qrPNG, helv, helvBold, courierBold)
	if p.err != nil {
		return nil, &RenderError{Err: p.err}
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, &RenderError{Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawFront(ctx context.Context, p *painter, data CardData, helv, helvBold, courierBold *model.PdfFont) {
	green := creator.ColorRGBFrom8bit(0, 104, 55)
	darkRed := creator.ColorRGBFrom8bit(140, 20, 20)
	white := creator.ColorRGBFrom8bit(255, 255, 255)
	ink := creator.ColorRGBFrom8bit(30, 30, 30)
	gray := creator.ColorRGBFrom8bit(110, 110, 110)

	// Header band with the brand marks.
	p.filledRect(0, 0, cardWidth, 24, green)
	p.centeredText("NATIONAL ELECTORAL COMMISSION", helvBold, 5.5, white, 5)
	p.centeredText("VOTER'S CARD", helvBold, 8, white, 13)

	// Passport photo, clipped to a fixed aspect box.
	r.drawPhoto(ctx, p, data.PassportPhotoURL, helv, gray)

	// Biographical fields to the right of the photo.
	fx := photoX + photoW + 8
	p.text("SURNAME", helv, 4, gray, fx, photoY)
	p.text(fit(strings.ToUpper(data.Surname), 18), helvBold, 8, ink, fx, photoY+5)
	p.text("GIVEN NAMES", helv, 4, gray, fx, photoY+15)
	p.text(fit(strings.ToUpper(givenNames(data)), 24), helv, 6.5, ink, fx, photoY+20)
	p.text("DATE OF BIRTH", helv, 4, gray, fx, photoY+29)
	p.text(formatDate(data.DateOfBirth), helv, 6.5, ink, fx, photoY+34)
	p.text("GENDER", helv, 4, gray, fx, photoY+43)
	p.text(strings.ToUpper(data.Gender), helv, 6.5, ink, fx, photoY+48)

	// VIN gets a distinct treatment.
	p.text("VIN", helv, 4, gray, photoX, photoY+photoH+6)
	p.text(data.VIN, courierBold, 8.5, darkRed, photoX, photoY+photoH+11)

	// State / LGA / ward, three columns.
	colW := (cardWidth - 2*photoX) / 3
	cols := []struct{ label, value string }{
		{"STATE", data.State},
		{"LGA", data.LGA},
		{"WARD", data.Ward},
	}
	rowY := photoY + photoH + 24
	for i, col := range cols {
		x := photoX + float64(i)*colW
		p.text(col.label, helv, 4, gray, x, rowY)
		p.text(fit(strings.ToUpper(col.value), 12), helv, 5.5, ink, x, rowY+5)
	}
}

func (r *Renderer) drawBack(p *painter, data CardData, qrPNG []byte, helv, helvBold, courierBold *model.PdfFont) {
	green := creator.ColorRGBFrom8bit(0, 104, 55)
	white := creator.ColorRGBFrom8bit(255, 255, 255)
	ink := creator.ColorRGBFrom8bit(30, 30, 30)
	gray := creator.ColorRGBFrom8bit(110, 110, 110)
	black := creator.ColorRGBFrom8bit(0, 0, 0)

	if p.err != nil {
		return
	}

	// Half divider.
	div := p.c.NewLine(0, backTop, cardWidth, backTop)
	div.SetLineWidth(0.5)
	div.SetColor(gray)
	p.draw(div)

	// Verification QR, embedded verbatim.
	img, err := p.c.NewImageFromData(qrPNG)
	if err != nil {
		p.err = err
		return
	}
	img.SetWidth(qrSize)
	img.SetHeight(qrSize)
	img.SetPos(photoX, backTop+8)
	p.draw(img)
	p.text("SCAN TO VERIFY", helv, 4, gray, photoX, backTop+8+qrSize+2)

	// Decorative pseudo-barcode with a truncated numeric VIN fragment.
	seed := data.VIN
	if seed == "" {
		seed = "0"
	}
	barX := photoX + qrSize + 12
	x := barX
	for i := 0; x < cardWidth-10 && i < 64; i++ {
		w := 0.6 + float64(int(seed[i%len(seed)])%3)*0.6
		if i%2 == 0 {
			p.filledRect(x, backTop+10, w, 22, black)
		}
		x += w + 0.4
	}
	p.text(numericFragment(data.VIN, 12), courierBold, 6, ink, barX, backTop+35)

	// Fixed 2x2 civic grid. All placeholders except the polling unit code.
	grid := []struct{ label, value string }{
		{"POLLING UNIT", GeneratePollingUnitCode(data.State, data.LGA, data.Ward)},
		{"NATIONALITY", "NIGERIAN"},
		{"OCCUPATION", "N/A"},
		{"BLOOD GROUP", "N/A"},
	}
	gridY := backTop + 54
	cellW := (cardWidth - 2*photoX) / 2
	for i, cell := range grid {
		gx := photoX + float64(i%2)*cellW
		gy := gridY + float64(i/2)*16
		p.text(cell.label, helv, 4, gray, gx, gy)
		p.text(cell.value, helv, 5.5, ink, gx, gy+5)
	}

	// Issuing footer.
	p.filledRect(0, cardHeight-22, cardWidth, 22, green)
	p.centeredText("ISSUED BY THE NATIONAL ELECTORAL COMMISSION", helv, 4, white, cardHeight-20)
	p.centeredText(fmt.Sprintf("REF %s  .  %s", data.ApplicationRef, formatDate(data.IssueDate)), helv, 4.5, white, cardHeight-14.5)
	p.centeredText("OFFICIAL DOCUMENT", helvBold, 5, white, cardHeight-8)
}

// drawPhoto places the passport photo, or a visible placeholder when the
// photo is absent or cannot be fetched. Photo problems never abort a render.
func (r *Renderer) drawPhoto(ctx context.Context, p *painter, photoURL string, helv *model.PdfFont, gray creator.Color) {
	if p.err != nil {
		return
	}
	if photoURL != "" {
		if raw, err := r.fetchPhoto(ctx, photoURL); err != nil {
			log.Println("voter-card: photo load failed, using placeholder:", err)
		} else if img, err := p.c.NewImageFromData(raw); err != nil {
			log.Println("voter-card: photo decode failed, using placeholder:", err)
		} else {
			img.SetWidth(photoW)
			img.SetHeight(photoH)
			img.SetPos(photoX, photoY)
			p.draw(img)
			return
		}
	}
	box := p.c.NewRectangle(photoX, photoY, photoW, photoH)
	box.SetBorderColor(gray)
	box.SetBorderWidth(0.5)
	p.draw(box)
	p.text("PHOTO", helv, 6, gray, photoX+11, photoY+photoH/2-3)
}

func (r *Renderer) fetchPhoto(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photo fetch returned status %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("photo fetch returned empty body")
	}
	return raw, nil
}

// formatDate is the canonical card date format.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func givenNames(data CardData) string {
	if data.MiddleName == "" {
		return data.FirstName
	}
	return data.FirstName + " " + data.MiddleName
}

// fit truncates a value so an overlong field cannot disturb the layout.
// Truncation happens on rune boundaries so accented names stay valid UTF-8.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// numericFragment extracts up to n digits from the VIN for the barcode
// caption, padding with zeros when the VIN carries too few.
func numericFragment(vin string, n int) string {
	var b strings.Builder
	for _, r := range vin {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() == n {
			break
		}
	}
	s := b.String()
	for len(s) < n {
		s += "0"
	}
	return s
}
