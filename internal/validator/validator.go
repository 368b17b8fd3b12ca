// Package validator assembles the decode search, stress battery, and
// score calculator into the single entry point the CLI and server use.
package validator

import (
	"context"
	"image"

	"github.com/qrproof/qrproof/internal/decode"
	"github.com/qrproof/qrproof/internal/preprocess"
	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/scorer"
	"github.com/qrproof/qrproof/internal/search"
	"github.com/qrproof/qrproof/internal/utils"
)

// maxDimension caps input size before the search fans out. Images larger
// than this decode no better and cost quadratically more, so they are
// scaled down first.
const maxDimension = 2048

// Options tunes a Validator.
type Options struct {
	// Workers bounds decode-search parallelism; 0 means all CPUs.
	Workers int
	// Tier4Trials is the random-exploration trial count; 0 means the
	// search default.
	Tier4Trials int
	// Seed fixes the random-exploration seed, for reproducible runs;
	// 0 means wall clock.
	Seed uint64
}

// Validator scores QR images for scannability.
type Validator struct {
	orch   *search.Orchestrator
	runner *scorer.Runner
}

// New builds a Validator over the default engine pair.
func New(opts Options) *Validator {
	orch := search.New(decode.NewDefaultPair(), search.Options{
		Workers:     opts.Workers,
		Tier4Trials: opts.Tier4Trials,
		Seed:        opts.Seed,
	})
	return &Validator{orch: orch, runner: scorer.NewRunner(orch)}
}

// Validate decodes the image bytes and runs the full validation: decode
// search, stress battery, score. A broken or unsupported image yields a
// *qr.ImageLoadError; an image with no readable QR code is a valid
// outcome, reported with Decodable=false and a nil error.
func (v *Validator) Validate(ctx context.Context, data []byte) (*qr.ValidationResult, error) {
	img, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return v.ValidateImage(ctx, img)
}

// ValidateFast is Validate with the reduced stress profile.
func (v *Validator) ValidateFast(ctx context.Context, data []byte) (*qr.ValidationResult, error) {
	img, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return v.ValidateImageFast(ctx, img)
}

// ValidateImage runs the full validation on an already-decoded image.
func (v *Validator) ValidateImage(ctx context.Context, img image.Image) (*qr.ValidationResult, error) {
	return v.validate(ctx, img, false)
}

// ValidateImageFast runs the reduced validation on an already-decoded image.
func (v *Validator) ValidateImageFast(ctx context.Context, img image.Image) (*qr.ValidationResult, error) {
	return v.validate(ctx, img, true)
}

func (v *Validator) validate(ctx context.Context, img image.Image, fast bool) (*qr.ValidationResult, error) {
	img = capSize(img)

	out, err := v.orch.Decode(ctx, img)
	if err != nil {
		// Not decodable is a result, not a failure.
		return &qr.ValidationResult{Score: 0, Decodable: false}, nil
	}

	var stress qr.StressResult
	if fast {
		stress = v.runner.RunFast(ctx, img)
	} else {
		stress = v.runner.Run(ctx, img)
	}

	multiEngine := len(out.Decoders()) > 1
	var score int
	if fast {
		score = scorer.ScoreFast(stress, multiEngine)
	} else {
		score = scorer.Score(stress, multiEngine)
	}

	return &qr.ValidationResult{
		Score:     score,
		Decodable: true,
		Content:   out.Content,
		Metadata:  out.Metadata,
		Stress:    stress,
	}, nil
}

// DecodeOnly runs the decode search without the stress battery. It
// returns qr.ErrDecodeFailed when no tier finds a readable code.
func (v *Validator) DecodeOnly(ctx context.Context, data []byte) (*qr.DecodeOutcome, error) {
	img, err := utils.DecodeImage(data)
	if err != nil {
		return nil, err
	}
	return v.orch.Decode(ctx, capSize(img))
}

// ValidateFile loads path and runs Validate (or ValidateFast).
func (v *Validator) ValidateFile(ctx context.Context, path string, fast bool) (*qr.ValidationResult, error) {
	img, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	if fast {
		return v.ValidateImageFast(ctx, img)
	}
	return v.ValidateImage(ctx, img)
}

// DecodeFile loads path and runs DecodeOnly.
func (v *Validator) DecodeFile(ctx context.Context, path string) (*qr.DecodeOutcome, error) {
	img, err := utils.LoadImage(path)
	if err != nil {
		return nil, err
	}
	return v.orch.Decode(ctx, capSize(img))
}

// capSize scales oversized inputs down to maxDimension on the longest
// side, preserving aspect ratio.
func capSize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxDimension && b.Dy() <= maxDimension {
		return img
	}
	return preprocess.Fit(img, maxDimension)
}
