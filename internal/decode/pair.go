package decode

import (
	"image"

	"github.com/qrproof/qrproof/internal/preprocess"
	"github.com/qrproof/qrproof/internal/qr"
)

// Pair is the fixed, ordered pair of decode engines tried in priority
// order: the primary first, then the secondary for confirmation and
// metadata enrichment. It is deliberately not an open plugin registry.
type Pair struct {
	primary   Engine
	secondary Engine
}

// NewPair builds a Pair from explicit engines, primarily for tests.
func NewPair(primary, secondary Engine) *Pair {
	return &Pair{primary: primary, secondary: secondary}
}

// NewDefaultPair returns the production pairing: zxing primary,
// quirc secondary.
func NewDefaultPair() *Pair {
	return NewPair(NewZXingEngine(), NewQuircEngine())
}

// DecodeImage converts the candidate to a single-channel buffer once and
// runs DecodeGray on it.
func (p *Pair) DecodeImage(img image.Image) (*qr.DecodeOutcome, error) {
	return p.DecodeGray(preprocess.Luma8(img))
}

// DecodeGray tests a single candidate buffer against both engines.
//
// If the primary succeeds but its metadata is absent or less complete, the
// secondary is also invoked on the same buffer and its metadata preferred
// when present; the outcome records the union of engines that succeeded.
// If the primary fails, the secondary is attempted alone before the
// candidate is declared a failure.
func (p *Pair) DecodeGray(gray *image.Gray) (*qr.DecodeOutcome, error) {
	if pri, err := p.primary.Decode(gray); err == nil {
		version := pri.Version
		ecc := pri.ECC
		names := []string{p.primary.Name()}

		if version == 0 || ecc < 0 {
			if sec, err := p.secondary.Decode(gray); err == nil {
				names = append(names, p.secondary.Name())
				// Prefer the secondary's richer metadata wholesale.
				version = sec.Version
				ecc = sec.ECC
			}
		}
		return newOutcome(pri.Content, version, ecc, names), nil
	}

	if sec, err := p.secondary.Decode(gray); err == nil {
		return newOutcome(sec.Content, sec.Version, sec.ECC, []string{p.secondary.Name()}), nil
	}

	return nil, qr.ErrDecodeFailed
}

func newOutcome(content string, version, ecc int, decoders []string) *qr.DecodeOutcome {
	return &qr.DecodeOutcome{
		Content: content,
		Metadata: &qr.Metadata{
			Version:         version,
			ErrorCorrection: qr.ParseECCIndex(ecc),
			Modules:         qr.ModuleCount(version),
			DecodersSuccess: decoders,
		},
	}
}
