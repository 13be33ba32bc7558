package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

// QRCodeSize is the edge length in pixels of generated share codes
const QRCodeSize = 300

type qrCodeService struct {
	publicBaseURL string
}

// NewQRCodeService creates a QR code service. publicBaseURL is the origin
// public form links are built on when the caller does not supply one.
func NewQRCodeService(publicBaseURL string) QRCodeService {
	return &qrCodeService{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *qrCodeService) Generate(ctx context.Context, req *models.QRCodeRequest) (*models.QRCodeResponse, error) {
	code := strings.TrimSpace(req.FormCode)
	if code == "" {
		return nil, invalid("formCode", "form code is required")
	}

	link := strings.TrimSpace(req.FormURL)
	if link == "" {
		link = s.publicBaseURL + "/form/" + url.PathEscape(code)
	}

	png, err := qrcode.Encode(link, qrcode.Medium, QRCodeSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	return &models.QRCodeResponse{
		QRCode: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		URL:    link,
	}, nil
}
