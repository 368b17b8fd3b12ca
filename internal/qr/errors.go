package qr

import (
	"errors"
	"fmt"
)

// ErrDecodeFailed reports that every search tier was exhausted without a
// successful decode. It is a normal business outcome, not a fault; callers
// surface it as decodable=false.
var ErrDecodeFailed = errors.New("no QR code found in image")

// ImageLoadError reports that input bytes are not a recognizable raster
// format. Unlike ErrDecodeFailed it is fatal for the request.
type ImageLoadError struct {
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image: %v", e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }
