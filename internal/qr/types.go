// Package qr defines the shared value types produced by QR validation:
// decode outcomes, stress-test results, and the final validation result.
package qr

import (
	"encoding/json"
	"fmt"
)

// ErrorCorrectionLevel is the QR error correction level of a decoded symbol.
type ErrorCorrectionLevel int

const (
	// ECLevelL recovers ~7% of damaged data.
	ECLevelL ErrorCorrectionLevel = iota
	// ECLevelM recovers ~15% of damaged data.
	ECLevelM
	// ECLevelQ recovers ~25% of damaged data.
	ECLevelQ
	// ECLevelH recovers ~30% of damaged data.
	ECLevelH
)

// String returns the single-letter code for the level.
func (l ErrorCorrectionLevel) String() string {
	switch l {
	case ECLevelL:
		return "L"
	case ECLevelM:
		return "M"
	case ECLevelQ:
		return "Q"
	case ECLevelH:
		return "H"
	default:
		return "M"
	}
}

// MarshalJSON encodes the level as its single-letter code.
func (l ErrorCorrectionLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a single-letter code into the level.
func (l *ErrorCorrectionLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "L":
		*l = ECLevelL
	case "M":
		*l = ECLevelM
	case "Q":
		*l = ECLevelQ
	case "H":
		*l = ECLevelH
	default:
		return fmt.Errorf("invalid error correction level: %q", s)
	}
	return nil
}

// ParseECCIndex converts a quirc-style ECC index into a level.
// Index values: 0=M, 1=L, 2=H, 3=Q; anything else defaults to M.
func ParseECCIndex(i int) ErrorCorrectionLevel {
	switch i {
	case 0:
		return ECLevelM
	case 1:
		return ECLevelL
	case 2:
		return ECLevelH
	case 3:
		return ECLevelQ
	default:
		return ECLevelM
	}
}

// Metadata holds the technical properties of a decoded QR symbol.
type Metadata struct {
	// Version is the QR symbol version (1-40); 0 when no engine reported it.
	Version int `json:"version"`
	// ErrorCorrection is the symbol's error correction level.
	ErrorCorrection ErrorCorrectionLevel `json:"error_correction"`
	// Modules is the symbol's side length in modules (17 + 4*version), 0 when unknown.
	Modules int `json:"modules"`
	// DecodersSuccess lists the engines that decoded this symbol.
	DecodersSuccess []string `json:"decoders_success"`
}

// ModuleCount returns the module grid side length for a QR version,
// or 0 when the version is unknown.
func ModuleCount(version int) int {
	if version <= 0 {
		return 0
	}
	return 17 + 4*version
}

// DecodeOutcome is the result of a successful decode of a candidate image.
// It is created exactly once, at the moment a candidate succeeds.
type DecodeOutcome struct {
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Decoders returns the engine names that succeeded on this outcome.
func (o *DecodeOutcome) Decoders() []string {
	if o == nil || o.Metadata == nil {
		return nil
	}
	return o.Metadata.DecodersSuccess
}

// StressResult records the pass/fail outcome of each stress variant.
// All flags default to false; a flag is only meaningful for variants
// the chosen profile actually ran.
type StressResult struct {
	Original    bool `json:"original"`
	Downscale50 bool `json:"downscale_50"`
	Downscale25 bool `json:"downscale_25"`
	BlurLight   bool `json:"blur_light"`
	BlurMedium  bool `json:"blur_medium"`
	LowContrast bool `json:"low_contrast"`
}

// ValidationResult is the terminal output of a validation run.
type ValidationResult struct {
	// Score is the scannability score in [0, 100].
	Score int `json:"score"`
	// Decodable reports whether any search tier produced a decode.
	Decodable bool `json:"decodable"`
	// Content is the decoded payload; empty when not decodable.
	Content string `json:"content,omitempty"`
	// Metadata is present when a decode succeeded.
	Metadata *Metadata `json:"metadata,omitempty"`
	// Stress holds the per-variant stress outcomes used for scoring.
	Stress StressResult `json:"stress_results"`
}
