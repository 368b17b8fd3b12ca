package decode

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrproof/qrproof/internal/preprocess"
	"github.com/qrproof/qrproof/internal/testutil"
)

func TestZXingEngineDecodesCleanQR(t *testing.T) {
	img := testutil.GenerateQR(t, "https://example.com/zxing", 256)

	res, err := NewZXingEngine().Decode(preprocess.Luma8(img))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/zxing", res.Content)
}

func TestZXingEngineFailsOnBlank(t *testing.T) {
	_, err := NewZXingEngine().Decode(image.NewGray(image.Rect(0, 0, 64, 64)))
	assert.Error(t, err)
}

func TestQuircEngineDecodesCleanQR(t *testing.T) {
	img := testutil.GenerateQR(t, "https://example.com/quirc", 256)

	res, err := NewQuircEngine().Decode(preprocess.Luma8(img))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/quirc", res.Content)
	assert.Greater(t, res.Version, 0, "quirc reports the symbol version")
}

func TestQuircEngineFailsOnBlank(t *testing.T) {
	_, err := NewQuircEngine().Decode(image.NewGray(image.Rect(0, 0, 64, 64)))
	assert.Error(t, err)
}

func TestDefaultPairDecodesCleanQR(t *testing.T) {
	img := testutil.GenerateQR(t, "pair test payload", 256)

	out, err := NewDefaultPair().DecodeImage(img)
	require.NoError(t, err)
	assert.Equal(t, "pair test payload", out.Content)
	require.NotNil(t, out.Metadata)
	assert.NotEmpty(t, out.Metadata.DecodersSuccess)
}
