// Package decode wraps the two opaque QR decode engines behind a single
// capability: given a single-channel pixel buffer, return the decoded
// content plus whatever metadata the engine exposes, or a clean failure.
package decode

import "image"

// Result is what a single engine reports for a successful decode.
type Result struct {
	Content string
	// Version is the QR symbol version (1-40); 0 when the engine does
	// not expose it.
	Version int
	// ECC is a quirc-style error correction index; -1 when the engine
	// does not expose it.
	ECC int
}

// Engine is one opaque QR bitstream decoder. Implementations must never
// fault on arbitrary or malformed buffers; they either succeed or return
// an error.
type Engine interface {
	Name() string
	Decode(gray *image.Gray) (*Result, error)
}
