package services

import (
	"bytes"
	"fmt"

	"github.com/communitydir/backend/internal/config"
	"github.com/communitydir/backend/internal/models"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// ReferralService renders printable referral cards for listings: a one-page
// PDF with the resource's contact details and a QR code pointing at the
// public listing, handed out at intake desks.
type ReferralService struct {
	cfg *config.Config
}

func NewReferralService(cfg *config.Config) *ReferralService {
	return &ReferralService{cfg: cfg}
}

// GenerateReferralPDF generates an A4 referral card for a resource
func (s *ReferralService) GenerateReferralPDF(resource *models.Resource) ([]byte, error) {
	listingURL := fmt.Sprintf("%s/resources/%s", s.cfg.FrontendURL, resource.Slug)

	// Create QR PNG in memory
	var qrBuf bytes.Buffer
	png, err := qrcode.Encode(listingURL, qrcode.Medium, 512)
	if err != nil {
		return nil, err
	}
	qrBuf.Write(png)

	// Create PDF
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, resource.Name)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	details := ""
	if resource.Services != "" {
		details += fmt.Sprintf("Services: %s\n", resource.Services)
	}
	if resource.Phone != "" {
		details += fmt.Sprintf("Phone: %s\n", resource.DisplayPhone())
	}
	if resource.Address != "" {
		details += fmt.Sprintf("Address: %s, %s, %s %s\n", resource.Address, resource.City, resource.State, resource.Zip)
	}
	if resource.Hours != "" {
		details += fmt.Sprintf("Hours: %s\n", resource.Hours)
	}
	if resource.Eligibility != "" {
		details += fmt.Sprintf("Eligibility: %s\n", resource.Eligibility)
	}
	details += fmt.Sprintf("Listing: %s", listingURL)
	pdf.MultiCell(0, 6, details, "", "L", false)

	// Register image from reader
	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("qr", opt, bytes.NewReader(qrBuf.Bytes()))

	// Center QR on the page
	x := (210.0 - 100.0) / 2.0 // A4 width 210mm, QR size 100mm
	y := pdf.GetY() + 10
	pdf.ImageOptions("qr", x, y, 100, 100, false, opt, 0, "")

	// Output to buffer
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
