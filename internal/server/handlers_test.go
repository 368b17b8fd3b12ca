package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/testutil"
)

// fakeValidator returns canned results for handler tests.
type fakeValidator struct {
	result *qr.ValidationResult
	out    *qr.DecodeOutcome
	err    error
}

func (f *fakeValidator) Validate(ctx context.Context, data []byte) (*qr.ValidationResult, error) {
	return f.result, f.err
}

func (f *fakeValidator) ValidateFast(ctx context.Context, data []byte) (*qr.ValidationResult, error) {
	return f.result, f.err
}

func (f *fakeValidator) DecodeOnly(ctx context.Context, data []byte) (*qr.DecodeOutcome, error) {
	return f.out, f.err
}

func newTestServer(fake *fakeValidator) *Server {
	return &Server{validator: fake, maxUploadMB: 4, timeoutSec: 10}
}

// multipartImage builds a multipart body with the given bytes under the
// "image" field plus any extra form values.
func multipartImage(t *testing.T, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("image", "qr.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(&fakeValidator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandlerRejectsPost(t *testing.T) {
	srv := newTestServer(&fakeValidator{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	srv.healthHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidateHandler(t *testing.T) {
	srv := newTestServer(&fakeValidator{
		result: &qr.ValidationResult{
			Score:     85,
			Decodable: true,
			Content:   "payload",
			Stress:    qr.StressResult{Original: true},
		},
	})

	data := testutil.GenerateQRBytes(t, "payload", 128)
	body, contentType := multipartImage(t, data, nil)

	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.validateHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 85, resp.Result.Score)
	assert.Equal(t, "payload", resp.Result.Content)
}

func TestValidateHandlerBadImage(t *testing.T) {
	srv := newTestServer(&fakeValidator{err: &qr.ImageLoadError{Err: assert.AnError}})

	body, contentType := multipartImage(t, []byte("junk"), nil)
	req := httptest.NewRequest(http.MethodPost, "/validate", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.validateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateHandlerNoFile(t *testing.T) {
	srv := newTestServer(&fakeValidator{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/validate", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.validateHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidateHandlerRejectsGet(t *testing.T) {
	srv := newTestServer(&fakeValidator{})

	req := httptest.NewRequest(http.MethodGet, "/validate", nil)
	rec := httptest.NewRecorder()
	srv.validateHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestDecodeHandler(t *testing.T) {
	srv := newTestServer(&fakeValidator{
		out: &qr.DecodeOutcome{
			Content:  "decoded",
			Metadata: &qr.Metadata{Version: 1, Modules: 21, DecodersSuccess: []string{"zxing"}},
		},
	})

	data := testutil.GenerateQRBytes(t, "decoded", 128)
	body, contentType := multipartImage(t, data, nil)

	req := httptest.NewRequest(http.MethodPost, "/decode", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.decodeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "decoded", resp.Result.Content)
}

func TestDecodeHandlerNotDecodable(t *testing.T) {
	srv := newTestServer(&fakeValidator{err: qr.ErrDecodeFailed})

	data := testutil.EncodePNG(t, testutil.UniformImage(32, 32, color.White))
	body, contentType := multipartImage(t, data, nil)

	req := httptest.NewRequest(http.MethodPost, "/decode", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.decodeHandler(rec, req)

	// Not decodable is a 200 with success=false, not a server error.
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DecodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestSetupRoutes(t *testing.T) {
	srv := newTestServer(&fakeValidator{result: &qr.ValidationResult{Decodable: false}})

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
