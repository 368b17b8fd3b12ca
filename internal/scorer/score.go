package scorer

import "github.com/qrproof/qrproof/internal/qr"

// Per-variant score weights. The unmodified image and the mild
// degradations count most; the harsher variants distinguish excellent
// codes from merely adequate ones.
const (
	weightOriginal    = 20
	weightDownscale50 = 15
	weightDownscale25 = 10
	weightBlurLight   = 15
	weightBlurMedium  = 10
	weightLowContrast = 15

	// multiEngineBonus rewards images both decode engines agree on.
	multiEngineBonus = 15
)

const (
	fullTotal = weightOriginal + weightDownscale50 + weightDownscale25 +
		weightBlurLight + weightBlurMedium + weightLowContrast + multiEngineBonus

	fastTotal = weightOriginal + weightDownscale50 + weightBlurLight + multiEngineBonus
)

// Score folds a full stress battery into a 0-100 scannability score.
// multiEngine is whether more than one decode engine read the image.
func Score(stress qr.StressResult, multiEngine bool) int {
	points := 0
	if stress.Original {
		points += weightOriginal
	}
	if stress.Downscale50 {
		points += weightDownscale50
	}
	if stress.Downscale25 {
		points += weightDownscale25
	}
	if stress.BlurLight {
		points += weightBlurLight
	}
	if stress.BlurMedium {
		points += weightBlurMedium
	}
	if stress.LowContrast {
		points += weightLowContrast
	}
	if multiEngine {
		points += multiEngineBonus
	}
	return normalize(points, fullTotal)
}

// ScoreFast folds a fast-profile battery into a score. Variants the fast
// profile never ran are excluded from the denominator rather than counted
// as failures, so fast and full scores stay comparable.
func ScoreFast(stress qr.StressResult, multiEngine bool) int {
	points := 0
	if stress.Original {
		points += weightOriginal
	}
	if stress.Downscale50 {
		points += weightDownscale50
	}
	if stress.BlurLight {
		points += weightBlurLight
	}
	if multiEngine {
		points += multiEngineBonus
	}
	return normalize(points, fastTotal)
}

// normalize maps raw points onto 0-100, rounding down and capping at 100.
func normalize(points, total int) int {
	score := points * 100 / total
	if score > 100 {
		score = 100
	}
	return score
}
