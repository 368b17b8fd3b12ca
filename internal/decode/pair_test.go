package decode

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrproof/qrproof/internal/qr"
)

// fakeEngine returns a fixed result or error and counts invocations.
type fakeEngine struct {
	name   string
	result *Result
	err    error
	calls  int
}

func (f *fakeEngine) Name() string { return f.name }

func (f *fakeEngine) Decode(gray *image.Gray) (*Result, error) {
	f.calls++
	return f.result, f.err
}

func testGray() *image.Gray {
	return image.NewGray(image.Rect(0, 0, 8, 8))
}

func TestPairPrimaryWithCompleteMetadata(t *testing.T) {
	primary := &fakeEngine{name: "primary", result: &Result{Content: "hello", Version: 2, ECC: 0}}
	secondary := &fakeEngine{name: "secondary", result: &Result{Content: "hello", Version: 2, ECC: 1}}

	out, err := NewPair(primary, secondary).DecodeGray(testGray())
	require.NoError(t, err)

	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, 2, out.Metadata.Version)
	assert.Equal(t, qr.ECLevelM, out.Metadata.ErrorCorrection)
	assert.Equal(t, 25, out.Metadata.Modules)
	assert.Equal(t, []string{"primary"}, out.Metadata.DecodersSuccess)
	assert.Zero(t, secondary.calls, "secondary is skipped when primary metadata is complete")
}

func TestPairSecondaryEnrichesMetadata(t *testing.T) {
	// Primary succeeds but reports no version, mirroring the zxing engine.
	primary := &fakeEngine{name: "primary", result: &Result{Content: "hello", Version: 0, ECC: -1}}
	secondary := &fakeEngine{name: "secondary", result: &Result{Content: "hello", Version: 3, ECC: 3}}

	out, err := NewPair(primary, secondary).DecodeGray(testGray())
	require.NoError(t, err)

	assert.Equal(t, "hello", out.Content, "content stays with the primary")
	assert.Equal(t, 3, out.Metadata.Version, "metadata comes from the secondary")
	assert.Equal(t, qr.ECLevelQ, out.Metadata.ErrorCorrection)
	assert.Equal(t, 29, out.Metadata.Modules)
	assert.Equal(t, []string{"primary", "secondary"}, out.Metadata.DecodersSuccess)
}

func TestPairIncompleteMetadataSecondaryFails(t *testing.T) {
	primary := &fakeEngine{name: "primary", result: &Result{Content: "hello", Version: 0, ECC: -1}}
	secondary := &fakeEngine{name: "secondary", err: errors.New("nope")}

	out, err := NewPair(primary, secondary).DecodeGray(testGray())
	require.NoError(t, err)

	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, 0, out.Metadata.Version)
	assert.Equal(t, 0, out.Metadata.Modules)
	assert.Equal(t, qr.ECLevelM, out.Metadata.ErrorCorrection, "unknown ECC defaults to M")
	assert.Equal(t, []string{"primary"}, out.Metadata.DecodersSuccess)
}

func TestPairSecondaryAloneOnPrimaryFailure(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("nope")}
	secondary := &fakeEngine{name: "secondary", result: &Result{Content: "fallback", Version: 1, ECC: 1}}

	out, err := NewPair(primary, secondary).DecodeGray(testGray())
	require.NoError(t, err)

	assert.Equal(t, "fallback", out.Content)
	assert.Equal(t, 1, out.Metadata.Version)
	assert.Equal(t, qr.ECLevelL, out.Metadata.ErrorCorrection)
	assert.Equal(t, []string{"secondary"}, out.Metadata.DecodersSuccess)
}

func TestPairBothFail(t *testing.T) {
	primary := &fakeEngine{name: "primary", err: errors.New("nope")}
	secondary := &fakeEngine{name: "secondary", err: errors.New("also nope")}

	out, err := NewPair(primary, secondary).DecodeGray(testGray())
	assert.Nil(t, out)
	assert.ErrorIs(t, err, qr.ErrDecodeFailed)
}
