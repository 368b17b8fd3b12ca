// Package testutil generates QR fixtures and synthetic images for tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	qrgen "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/require"
)

// GenerateQR renders a QR code for content at the given pixel size.
func GenerateQR(t *testing.T, content string, size int) image.Image {
	t.Helper()

	code, err := qrgen.New(content, qrgen.Medium)
	require.NoError(t, err, "Failed to build QR code for %q", content)

	return code.Image(size)
}

// GenerateQRLevel is GenerateQR with an explicit recovery level.
func GenerateQRLevel(t *testing.T, content string, size int, level qrgen.RecoveryLevel) image.Image {
	t.Helper()

	code, err := qrgen.New(content, level)
	require.NoError(t, err, "Failed to build QR code for %q", content)

	return code.Image(size)
}

// GenerateQRBytes renders a QR code for content as PNG bytes.
func GenerateQRBytes(t *testing.T, content string, size int) []byte {
	t.Helper()

	data, err := qrgen.Encode(content, qrgen.Medium, size)
	require.NoError(t, err, "Failed to encode QR PNG for %q", content)

	return data
}

// UniformImage creates a single-color image, the degenerate input for
// threshold and decode paths.
func UniformImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

// GradientImage creates a horizontal black-to-white ramp, useful for
// exercising histogram-based transforms on non-degenerate input.
func GradientImage(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(x * 255 / (width - 1))
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

// EncodePNG renders any image as PNG bytes.
func EncodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img), "Failed to encode PNG image")
	return buf.Bytes()
}
