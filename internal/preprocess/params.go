// Package preprocess provides pure, stateless pixel-buffer transforms used
// to generate candidate images for the decode search and the stress battery.
// Every operation returns a new image and never mutates its input.
package preprocess

// Params describes one preprocessing recipe for the decode search.
// Instances come from the known-good table or from a Source; they are
// value types and never mutated after construction.
type Params struct {
	// Resize is the target in pixels for the image's longest side.
	// 0 disables resizing; images already at or below the target are
	// left alone (the search only ever shrinks).
	Resize int
	// Contrast is a multiplier around the 128 midpoint (1.0 = unchanged).
	Contrast float64
	// Brightness is a plain per-channel multiplier (1.0 = unchanged).
	Brightness float64
	// Blur is a gaussian sigma in pixels; values at or below the
	// negligible threshold are skipped entirely.
	Blur float64
	// Grayscale converts to a single luminance channel before the
	// contrast/brightness pass.
	Grayscale bool
}

// KnownGood returns the fixed table of preprocessing combinations that have
// proven effective on artistic and AI-generated QR codes. Ordered roughly
// by historical hit rate.
func KnownGood() []Params {
	return []Params{
		{Resize: 400, Contrast: 2.0, Brightness: 1.0, Blur: 0.0, Grayscale: true},
		{Resize: 350, Contrast: 2.5, Brightness: 1.0, Blur: 0.5, Grayscale: true},
		{Resize: 300, Contrast: 2.0, Brightness: 1.1, Blur: 0.3, Grayscale: true},
		{Resize: 400, Contrast: 1.8, Brightness: 0.9, Blur: 0.0, Grayscale: true},
		{Resize: 250, Contrast: 2.5, Brightness: 1.0, Blur: 1.0, Grayscale: true},
		{Resize: 300, Contrast: 3.0, Brightness: 1.0, Blur: 0.8, Grayscale: true},
		{Resize: 0, Contrast: 2.5, Brightness: 1.0, Blur: 0.0, Grayscale: true},
		{Resize: 0, Contrast: 2.0, Brightness: 1.1, Blur: 0.5, Grayscale: true},
		{Resize: 500, Contrast: 1.5, Brightness: 1.0, Blur: 0.0, Grayscale: true},
		{Resize: 450, Contrast: 2.2, Brightness: 1.0, Blur: 0.3, Grayscale: true},
		{Resize: 350, Contrast: 3.5, Brightness: 1.2, Blur: 1.0, Grayscale: true},
		{Resize: 300, Contrast: 4.0, Brightness: 1.0, Blur: 1.5, Grayscale: true},
	}
}
