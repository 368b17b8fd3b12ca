// Package scorer measures how robustly a QR image decodes: a battery of
// degraded variants is pushed through the full decode search and the
// pass/fail pattern is folded into a 0-100 scannability score.
package scorer

import (
	"context"
	"image"
	"log/slog"
	"sync"

	"github.com/qrproof/qrproof/internal/preprocess"
	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/search"
)

// Stress transform constants. The variants model common real-world
// degradation: small prints, camera shake, and washed-out displays.
const (
	blurLightSigma    = 1.0
	blurMediumSigma   = 2.0
	lowContrastFactor = 0.5
)

// Runner executes the stress battery over a decode search orchestrator.
type Runner struct {
	orch *search.Orchestrator
}

// NewRunner builds a Runner over orch.
func NewRunner(orch *search.Orchestrator) *Runner {
	return &Runner{orch: orch}
}

// stressVariant names one battery entry and how to derive it.
type stressVariant struct {
	name      string
	transform func(image.Image) image.Image
	record    func(*qr.StressResult, bool)
}

// battery lists the degraded variants. The original image is not listed
// here; it gates the whole battery and is tested first.
var battery = []stressVariant{
	{
		name:      "downscale_50",
		transform: func(img image.Image) image.Image { return preprocess.Downscale(img, 0.5) },
		record:    func(r *qr.StressResult, ok bool) { r.Downscale50 = ok },
	},
	{
		name:      "downscale_25",
		transform: func(img image.Image) image.Image { return preprocess.Downscale(img, 0.25) },
		record:    func(r *qr.StressResult, ok bool) { r.Downscale25 = ok },
	},
	{
		name:      "blur_light",
		transform: func(img image.Image) image.Image { return preprocess.Blur(img, blurLightSigma) },
		record:    func(r *qr.StressResult, ok bool) { r.BlurLight = ok },
	},
	{
		name:      "blur_medium",
		transform: func(img image.Image) image.Image { return preprocess.Blur(img, blurMediumSigma) },
		record:    func(r *qr.StressResult, ok bool) { r.BlurMedium = ok },
	},
	{
		name:      "low_contrast",
		transform: func(img image.Image) image.Image { return preprocess.ReduceContrast(img, lowContrastFactor) },
		record:    func(r *qr.StressResult, ok bool) { r.LowContrast = ok },
	},
}

// fastBattery is the reduced profile: one downscale and one blur variant,
// enough signal for interactive use at a fraction of the cost.
var fastBattery = []stressVariant{battery[0], battery[2]}

// Run executes the full stress battery. Every variant is tested even when
// earlier ones fail, except that a failure on the unmodified image short
// circuits the battery to all-false: nothing degraded can decode when the
// clean image cannot.
func (r *Runner) Run(ctx context.Context, img image.Image) qr.StressResult {
	return r.run(ctx, img, battery)
}

// RunFast executes the reduced battery used by the fast scoring profile.
func (r *Runner) RunFast(ctx context.Context, img image.Image) qr.StressResult {
	return r.run(ctx, img, fastBattery)
}

func (r *Runner) run(ctx context.Context, img image.Image, variants []stressVariant) qr.StressResult {
	var res qr.StressResult

	_, err := r.orch.Decode(ctx, img)
	res.Original = err == nil
	if !res.Original {
		slog.Debug("stress battery skipped, original image not decodable")
		return res
	}

	// The degraded variants are independent and each runs its own full
	// decode search, so they run concurrently. record closures touch
	// disjoint fields of res.
	var wg sync.WaitGroup
	for _, v := range variants {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.orch.Decode(ctx, v.transform(img))
			v.record(&res, err == nil)
			slog.Debug("stress variant tested", "variant", v.name, "decodable", err == nil)
		}()
	}
	wg.Wait()

	return res
}
