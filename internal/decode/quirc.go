package decode

import (
	"errors"
	"fmt"
	"image"

	"github.com/liyue201/goqr"
)

// quircEngine is the secondary decode engine, backed by the goqr port of
// quirc. It is less tolerant of degraded input than zxing but reports the
// symbol version and error correction level, so it doubles as the
// metadata source for decodes the primary engine found first.
type quircEngine struct{}

// NewQuircEngine returns the goqr-backed engine.
func NewQuircEngine() Engine {
	return &quircEngine{}
}

func (e *quircEngine) Name() string { return "quirc" }

func (e *quircEngine) Decode(gray *image.Gray) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("quirc: recovered panic: %v", r)
		}
	}()

	codes, err := goqr.Recognize(gray)
	if err != nil {
		return nil, fmt.Errorf("quirc: %w", err)
	}
	if len(codes) == 0 {
		return nil, errors.New("quirc: no grids detected")
	}

	first := codes[0]
	return &Result{
		Content: string(first.Payload),
		Version: first.Version,
		ECC:     first.EccLevel,
	}, nil
}
