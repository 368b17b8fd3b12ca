package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// validateHandler scores an uploaded QR image. The optional form value
// "fast" selects the reduced stress profile.
func (s *Server) validateHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	fast := r.FormValue("fast") == "true"
	mode := "full"
	if fast {
		mode = "fast"
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	var (
		result *qr.ValidationResult
		err    error
	)
	if fast {
		result, err = s.validator.ValidateFast(ctx, data)
	} else {
		result, err = s.validator.Validate(ctx, data)
	}
	validationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())

	if err != nil {
		var loadErr *qr.ImageLoadError
		if errors.As(err, &loadErr) {
			validationsTotal.WithLabelValues(mode, "bad_image").Inc()
			s.writeError(w, "Invalid image data", http.StatusBadRequest)
			return
		}
		validationsTotal.WithLabelValues(mode, "error").Inc()
		s.writeError(w, fmt.Sprintf("Validation failed: %v", err), http.StatusInternalServerError)
		return
	}

	if result.Decodable {
		validationsTotal.WithLabelValues(mode, "ok").Inc()
		validationScore.Observe(float64(result.Score))
	} else {
		validationsTotal.WithLabelValues(mode, "not_decodable").Inc()
	}

	s.writeJSON(w, ValidateResponse{Success: true, Result: result})
}

// decodeHandler extracts QR content without running the stress battery.
func (s *Server) decodeHandler(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	start := time.Now()
	out, err := s.validator.DecodeOnly(ctx, data)
	validationDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	if err != nil {
		var loadErr *qr.ImageLoadError
		switch {
		case errors.As(err, &loadErr):
			validationsTotal.WithLabelValues("decode", "bad_image").Inc()
			s.writeError(w, "Invalid image data", http.StatusBadRequest)
		case errors.Is(err, qr.ErrDecodeFailed):
			// A missing QR code is a result, not a server error.
			validationsTotal.WithLabelValues("decode", "not_decodable").Inc()
			s.writeJSON(w, DecodeResponse{Success: false, Error: err.Error()})
		default:
			validationsTotal.WithLabelValues("decode", "error").Inc()
			s.writeError(w, fmt.Sprintf("Decode failed: %v", err), http.StatusInternalServerError)
		}
		return
	}

	validationsTotal.WithLabelValues("decode", "ok").Inc()
	s.writeJSON(w, DecodeResponse{Success: true, Result: out})
}

// readUpload pulls the multipart "image" file out of a POST request,
// enforcing method and size limits. On failure it writes the error
// response itself and returns ok=false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeError(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeError(w, "No image file provided", http.StatusBadRequest)
		return nil, false
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxBytes {
		s.writeError(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeError(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, false
	}

	uploadSizeBytes.Observe(float64(len(data)))
	return data, true
}

// requestContext derives a per-request deadline from the configured
// timeout.
func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeoutSec <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), time.Duration(s.timeoutSec)*time.Second)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding response: %v\n", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ValidateResponse{Success: false, Error: message}); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding error response: %v\n", err)
	}
}
