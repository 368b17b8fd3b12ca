package decode

import (
	"errors"
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// zxingEngine is the primary decode engine, backed by the gozxing port of
// ZXing. It is the most robust finder-pattern detector of the pair but
// exposes no symbol version; error correction is available through result
// metadata for some symbols.
type zxingEngine struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewZXingEngine returns the gozxing-backed engine with TRY_HARDER enabled.
func NewZXingEngine() Engine {
	return &zxingEngine{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

func (e *zxingEngine) Name() string { return "zxing" }

func (e *zxingEngine) Decode(gray *image.Gray) (result *Result, err error) {
	// The engine is a black box fed arbitrary preprocessed buffers;
	// convert any panic into a clean failure.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("zxing: recovered panic: %v", r)
		}
	}()

	bmp, err := gozxing.NewBinaryBitmapFromImage(gray)
	if err != nil {
		return nil, fmt.Errorf("zxing: %w", err)
	}

	reader := qrcode.NewQRCodeReader()
	res, err := reader.Decode(bmp, e.hints)
	if err != nil {
		return nil, fmt.Errorf("zxing: %w", err)
	}
	if res == nil || res.GetText() == "" {
		return nil, errors.New("zxing: empty result")
	}

	return &Result{
		Content: res.GetText(),
		Version: 0, // not exposed by gozxing results
		ECC:     eccFromMetadata(res.GetResultMetadata()),
	}, nil
}

// eccFromMetadata extracts a quirc-style ECC index from gozxing result
// metadata, or -1 when absent.
func eccFromMetadata(meta map[gozxing.ResultMetadataType]interface{}) int {
	v, ok := meta[gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL]
	if !ok {
		return -1
	}
	s, ok := v.(string)
	if !ok {
		return -1
	}
	switch s {
	case "M":
		return 0
	case "L":
		return 1
	case "H":
		return 2
	case "Q":
		return 3
	default:
		return -1
	}
}
