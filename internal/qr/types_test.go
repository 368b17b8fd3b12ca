package qr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseECCIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  ErrorCorrectionLevel
	}{
		{"index 0 is M", 0, ECLevelM},
		{"index 1 is L", 1, ECLevelL},
		{"index 2 is H", 2, ECLevelH},
		{"index 3 is Q", 3, ECLevelQ},
		{"unknown index defaults to M", 7, ECLevelM},
		{"negative index defaults to M", -1, ECLevelM},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseECCIndex(tt.index))
		})
	}
}

func TestModuleCount(t *testing.T) {
	assert.Equal(t, 21, ModuleCount(1))
	assert.Equal(t, 25, ModuleCount(2))
	assert.Equal(t, 177, ModuleCount(40))
	assert.Equal(t, 0, ModuleCount(0), "unknown version has no module count")
}

func TestErrorCorrectionLevelJSON(t *testing.T) {
	data, err := json.Marshal(ECLevelQ)
	require.NoError(t, err)
	assert.Equal(t, `"Q"`, string(data))

	var level ErrorCorrectionLevel
	require.NoError(t, json.Unmarshal([]byte(`"H"`), &level))
	assert.Equal(t, ECLevelH, level)

	assert.Error(t, json.Unmarshal([]byte(`"X"`), &level))
}

func TestValidationResultJSON(t *testing.T) {
	result := ValidationResult{
		Score:     85,
		Decodable: true,
		Content:   "https://example.com",
		Metadata: &Metadata{
			Version:         2,
			ErrorCorrection: ECLevelM,
			Modules:         25,
			DecodersSuccess: []string{"zxing", "quirc"},
		},
		Stress: StressResult{Original: true, Downscale50: true, BlurLight: true},
	}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(85), decoded["score"])
	assert.Equal(t, true, decoded["decodable"])
	assert.Contains(t, decoded, "stress_results")

	meta, ok := decoded["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "M", meta["error_correction"])
	assert.Equal(t, float64(25), meta["modules"])
}

func TestValidationResultJSONOmitsEmpty(t *testing.T) {
	result := ValidationResult{Score: 0, Decodable: false}

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.NotContains(t, decoded, "content")
	assert.NotContains(t, decoded, "metadata")
}

func TestImageLoadError(t *testing.T) {
	inner := assert.AnError
	err := &ImageLoadError{Err: inner}

	assert.Contains(t, err.Error(), "failed to load image")
	assert.ErrorIs(t, err, inner)
}

func TestDecodeOutcomeDecoders(t *testing.T) {
	out := &DecodeOutcome{Content: "x"}
	assert.Empty(t, out.Decoders())

	out.Metadata = &Metadata{DecodersSuccess: []string{"zxing"}}
	assert.Equal(t, []string{"zxing"}, out.Decoders())
}
