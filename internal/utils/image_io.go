// Package utils holds image I/O helpers shared by the CLI and the server.
package utils

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"

	"github.com/qrproof/qrproof/internal/qr"
)

// SupportedImageExtensions lists supported file extensions for loading.
var SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}

// IsSupportedImage reports whether the path has a supported image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedImageExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// LoadImage opens and decodes an image file. Any failure, from a missing
// file to a corrupt payload, comes back as a *qr.ImageLoadError.
func LoadImage(path string) (image.Image, error) {
	if path == "" {
		return nil, &qr.ImageLoadError{Err: errors.New("empty path")}
	}
	if !IsSupportedImage(path) {
		return nil, &qr.ImageLoadError{Err: fmt.Errorf("unsupported format: %q", filepath.Ext(path))}
	}

	f, err := os.Open(path) //nolint:gosec // G304: reading a user-provided image path is the point
	if err != nil {
		return nil, &qr.ImageLoadError{Err: err}
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing image file: %v\n", err)
		}
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &qr.ImageLoadError{Err: err}
	}
	return img, nil
}

// DecodeImage decodes in-memory image bytes, for callers that receive
// uploads rather than paths.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, &qr.ImageLoadError{Err: errors.New("empty image data")}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &qr.ImageLoadError{Err: err}
	}
	return img, nil
}
