package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qrproof/qrproof/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validation HTTP server",
	Long: `Serve starts an HTTP server exposing QR validation endpoints:

  POST /validate  multipart upload, full (or fast) validation with score
  POST /decode    multipart upload, decode only
  GET  /health    liveness check
  GET  /metrics   Prometheus metrics

Examples:
  qrproof serve
  qrproof serve --host 0.0.0.0 --port 9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "host interface to bind (default from config)")
	serveCmd.Flags().Int("port", 0, "port to listen on (default from config)")
	serveCmd.Flags().Int("max-upload-size", 0, "maximum upload size in MB (default from config)")
	serveCmd.Flags().Int("timeout", 0, "request timeout in seconds (default from config)")
	serveCmd.Flags().Int("shutdown-timeout", 0, "graceful shutdown timeout in seconds (default from config)")
	serveCmd.Flags().Int("workers", 0, "decode search workers (0 = all CPUs)")
	serveCmd.Flags().Int("trials", 0, "random exploration trials (0 = default)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg := GetConfig()

	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetInt("port")
	maxUploadSize, _ := cmd.Flags().GetInt("max-upload-size")
	timeout, _ := cmd.Flags().GetInt("timeout")
	shutdownTimeout, _ := cmd.Flags().GetInt("shutdown-timeout")
	workers, _ := cmd.Flags().GetInt("workers")
	trials, _ := cmd.Flags().GetInt("trials")

	if host == "" {
		host = cfg.Server.Host
	}
	if port == 0 {
		port = cfg.Server.Port
	}
	if maxUploadSize == 0 {
		maxUploadSize = cfg.Server.MaxUploadMB
	}
	if timeout == 0 {
		timeout = cfg.Server.TimeoutSec
	}
	if shutdownTimeout == 0 {
		shutdownTimeout = cfg.Server.ShutdownTimeout
	}
	if workers == 0 {
		workers = cfg.Search.MaxWorkers
	}
	if trials == 0 {
		trials = cfg.Search.Tier4Trials
	}

	qrServer := server.NewServer(server.Config{
		Host:        host,
		Port:        port,
		MaxUploadMB: int64(maxUploadSize),
		TimeoutSec:  timeout,
		Workers:     workers,
		Tier4Trials: trials,
	})

	mux := http.NewServeMux()
	qrServer.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(timeout) * time.Second,
		WriteTimeout:      time.Duration(timeout) * time.Second,
	}

	go func() {
		slog.Info("Starting validation server", "host", host, "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Context cancelled, initiating shutdown")
	}

	slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server shutdown completed")
	}

	return nil
}
