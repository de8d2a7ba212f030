package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/disintegration/imaging"
)

// maxLogoSize is the largest logo dimension printed on documents (px)
const maxLogoSize = 240

// LoadLogoDataURI reads a PNG or JPEG logo, shrinks it to fit maxLogoSize and
// returns it as a PNG data URI ready to inline in a document
func LoadLogoDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	return LogoDataURI(data)
}

// LogoDataURI converts raw image bytes into an inline PNG data URI
func LogoDataURI(data []byte) (string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode logo: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxLogoSize || bounds.Dy() > maxLogoSize {
		log.Printf("🔄 Resizing logo: %dx%d (%s) to fit %dpx", bounds.Dx(), bounds.Dy(), format, maxLogoSize)
		img = imaging.Fit(img, maxLogoSize, maxLogoSize, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("failed to encode logo: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
