package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/JonnyWalker81/formcraft/backend/internal/models"
)

func TestQRCodeService_Generate(t *testing.T) {
	svc := NewQRCodeService("https://forms.example.com/")

	res, err := svc.Generate(context.Background(), &models.QRCodeRequest{FormCode: "abc12345"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if res.URL != "https://forms.example.com/form/abc12345" {
		t.Errorf("url = %q", res.URL)
	}

	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(res.QRCode, prefix) {
		t.Fatalf("qrcode is not a PNG data URL: %.40s", res.QRCode)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(res.QRCode, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != QRCodeSize || b.Dy() != QRCodeSize {
		t.Errorf("image size = %dx%d, want %d", b.Dx(), b.Dy(), QRCodeSize)
	}
}

func TestQRCodeService_ExplicitURL(t *testing.T) {
	svc := NewQRCodeService("https://forms.example.com")

	res, err := svc.Generate(context.Background(), &models.QRCodeRequest{
		FormCode: "abc12345",
		FormURL:  "https://custom.example.org/f/abc12345",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.URL != "https://custom.example.org/f/abc12345" {
		t.Errorf("url = %q, want the supplied url", res.URL)
	}
}

func TestQRCodeService_RequiresCode(t *testing.T) {
	svc := NewQRCodeService("https://forms.example.com")

	_, err := svc.Generate(context.Background(), &models.QRCodeRequest{FormCode: "  "})

	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "formCode" {
		t.Errorf("error = %v, want formCode validation error", err)
	}
}
