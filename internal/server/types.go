// Package server exposes QR validation over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qrproof/qrproof/internal/qr"
	"github.com/qrproof/qrproof/internal/validator"
)

// validatorInterface defines the methods the server needs from a validator.
type validatorInterface interface {
	Validate(ctx context.Context, data []byte) (*qr.ValidationResult, error)
	ValidateFast(ctx context.Context, data []byte) (*qr.ValidationResult, error)
	DecodeOnly(ctx context.Context, data []byte) (*qr.DecodeOutcome, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	validator   validatorInterface
	maxUploadMB int64
	timeoutSec  int
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	MaxUploadMB int64
	TimeoutSec  int

	// Validation tuning, passed through to the validator.
	Workers     int
	Tier4Trials int
}

// Response types for API endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

type ValidateResponse struct {
	Success bool                 `json:"success"`
	Result  *qr.ValidationResult `json:"result,omitempty"`
	Error   string               `json:"error,omitempty"`
}

type DecodeResponse struct {
	Success bool              `json:"success"`
	Result  *qr.DecodeOutcome `json:"result,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// NewServer creates a new validation server instance.
func NewServer(config Config) *Server {
	v := validator.New(validator.Options{
		Workers:     config.Workers,
		Tier4Trials: config.Tier4Trials,
	})
	return &Server{
		validator:   v,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
	}
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.instrument(s.healthHandler))
	mux.HandleFunc("/validate", s.instrument(s.validateHandler))
	mux.HandleFunc("/decode", s.instrument(s.decodeHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
