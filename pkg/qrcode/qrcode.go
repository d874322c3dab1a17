package qrcode

import (
	"encoding/base64"
	"fmt"

	qr "github.com/skip2/go-qrcode"
)

const defaultSize = 512

// GeneratePNG encodes a URL as a QR code PNG.
func GeneratePNG(url string) ([]byte, error) {
	png, err := qr.Encode(url, qr.Medium, defaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}

// GenerateDataURL encodes a URL as a base64 PNG data URL, used when no
// object storage bucket is configured.
func GenerateDataURL(url string) (string, error) {
	png, err := GeneratePNG(url)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
