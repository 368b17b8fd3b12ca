// Package search implements the tiered decode search: four escalating
// phases of candidate generation, each raced in parallel with
// first-success-wins semantics, over the decode engine pair.
package search

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/qrproof/qrproof/internal/decode"
	"github.com/qrproof/qrproof/internal/preprocess"
	"github.com/qrproof/qrproof/internal/qr"
)

// DefaultTier4Trials is the number of random preprocessing parameter sets
// the last-resort tier draws. Legacy callers used up to 256; both are
// tuning constants, not normative, so the count is configurable.
const DefaultTier4Trials = 64

// Options tunes the orchestrator.
type Options struct {
	// Workers bounds per-tier parallelism; 0 means runtime.NumCPU().
	Workers int
	// Tier4Trials is the random parameter set count; 0 means
	// DefaultTier4Trials.
	Tier4Trials int
	// Seed overrides the tier-4 PRNG seed; 0 means wall clock.
	Seed uint64
}

// Orchestrator runs the escalating decode search. It is safe for
// concurrent use: candidate tasks share no mutable state, and the only
// internal writes are atomic tier counters.
type Orchestrator struct {
	pair    *decode.Pair
	workers int
	trials  int
	seed    uint64

	tierRuns [4]atomic.Int64
}

// New builds an Orchestrator over the given engine pair.
func New(pair *decode.Pair, opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	trials := opts.Tier4Trials
	if trials <= 0 {
		trials = DefaultTier4Trials
	}
	return &Orchestrator{pair: pair, workers: workers, trials: trials, seed: opts.Seed}
}

// TierRuns reports how many times each tier has executed, for tests and
// diagnostics.
func (o *Orchestrator) TierRuns() [4]int64 {
	var runs [4]int64
	for i := range o.tierRuns {
		runs[i] = o.tierRuns[i].Load()
	}
	return runs
}

// Decode searches for a decodable variant of img, escalating through the
// tiers until one succeeds. It returns qr.ErrDecodeFailed when every tier
// is exhausted.
func (o *Orchestrator) Decode(ctx context.Context, img image.Image) (*qr.DecodeOutcome, error) {
	// Tier 1: the unmodified image, the zero-cost path for clean inputs.
	o.tierRuns[0].Add(1)
	if out, err := o.pair.DecodeImage(img); err == nil {
		slog.Debug("decode search succeeded", "tier", 1, "decoders", out.Decoders())
		return out, nil
	}

	// Tier 2: cheap, broadly effective binarization fixes.
	o.tierRuns[1].Add(1)
	if out := o.race(ctx, o.tier2Candidates(img)); out != nil {
		slog.Debug("decode search succeeded", "tier", 2, "decoders", out.Decoders())
		return out, nil
	}

	// Tier 3: known-good parameter combos plus channel extractions.
	o.tierRuns[2].Add(1)
	if out := o.race(ctx, o.tier3Candidates(img)); out != nil {
		slog.Debug("decode search succeeded", "tier", 3, "decoders", out.Decoders())
		return out, nil
	}

	// Tier 4: random parameter exploration, the last resort.
	o.tierRuns[3].Add(1)
	if out := o.race(ctx, o.tier4Candidates(img)); out != nil {
		slog.Debug("decode search succeeded", "tier", 4, "decoders", out.Decoders())
		return out, nil
	}

	slog.Debug("decode search exhausted all tiers")
	return nil, qr.ErrDecodeFailed
}

// tier2Candidates builds the quick trio: Otsu, Otsu inverted, and the
// histogram-stretch + fixed-threshold variant.
func (o *Orchestrator) tier2Candidates(img image.Image) []candidate {
	return []candidate{
		func() *qr.DecodeOutcome {
			out, _ := o.pair.DecodeGray(preprocess.Otsu(img))
			return out
		},
		func() *qr.DecodeOutcome {
			out, _ := o.pair.DecodeGray(preprocess.Invert(preprocess.Otsu(img)))
			return out
		},
		func() *qr.DecodeOutcome {
			out, _ := o.pair.DecodeGray(preprocess.HighContrastThreshold(img))
			return out
		},
	}
}

// tier3Candidates assembles one unified pool: the known-good preprocessing
// table, the color channels (raw and Otsu), and the hue/value channels.
// Each pool entry is further expanded raw / Otsu / Otsu-inverted inside
// its task.
func (o *Orchestrator) tier3Candidates(img image.Image) []candidate {
	variants := make([]image.Image, 0, 50)

	for _, p := range preprocess.KnownGood() {
		variants = append(variants, preprocess.Apply(img, p))
	}

	for _, ch := range preprocess.ColorChannels(img) {
		variants = append(variants, ch, preprocess.Otsu(ch))
	}

	hue := preprocess.HueChannel(img)
	value := preprocess.ValueChannel(img)
	variants = append(variants,
		hue, preprocess.Otsu(hue),
		value, preprocess.StretchContrast(value),
	)

	cands := make([]candidate, 0, len(variants))
	for _, v := range variants {
		cands = append(cands, func() *qr.DecodeOutcome { return o.tryVariants(v) })
	}
	return cands
}

// tier4Candidates draws the random parameter list. The whole list is
// generated sequentially before any parallel dispatch so workers never
// touch the generator.
func (o *Orchestrator) tier4Candidates(img image.Image) []candidate {
	seed := o.seed
	if seed == 0 {
		seed = preprocess.TimeSeed()
	}
	params := preprocess.NewSource(seed).RandomParams(o.trials)

	cands := make([]candidate, 0, len(params))
	for _, p := range params {
		cands = append(cands, func() *qr.DecodeOutcome {
			return o.tryVariants(preprocess.Apply(img, p))
		})
	}
	return cands
}

// tryVariants tests a candidate image raw, then Otsu-binarized, then
// Otsu-binarized-and-inverted.
func (o *Orchestrator) tryVariants(img image.Image) *qr.DecodeOutcome {
	if out, err := o.pair.DecodeImage(img); err == nil {
		return out
	}
	otsu := preprocess.Otsu(img)
	if out, err := o.pair.DecodeGray(otsu); err == nil {
		return out
	}
	if out, err := o.pair.DecodeGray(preprocess.Invert(otsu)); err == nil {
		return out
	}
	return nil
}
