package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spacesedan/sentilex/internal/monitoring"
	"github.com/spacesedan/sentilex/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the analysis web page and JSON API",
	Long: `Start an HTTP server with the interactive analysis page.

The server provides the following endpoints:
  GET  /            - Analysis page
  POST /analyze     - Analyse one text (form)
  POST /upload      - Preview an uploaded CSV (multipart)
  POST /batch       - Analyse a column of the previewed CSV (form)
  POST /api/analyze - Analyse one text (JSON)
  POST /api/batch   - Analyse a column of an uploaded CSV (multipart)
  GET  /api/stats   - Label counts (requires Valkey)
  GET  /health      - Capability status
  GET  /metrics     - Prometheus metrics

Examples:
  sentilex serve
  sentilex serve --addr :8080 --max-upload-mb 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appConfig)
		if err != nil {
			return err
		}
		defer a.Close()

		srvCfg := web.Config{
			Analyzer:    a.analyzer,
			Health:      a.status,
			MaxUploadMB: appConfig.Server.MaxUploadMB,
			Charts:      a.chartsEnabled(),
		}
		if a.valkey != nil {
			srvCfg.Stats = a.valkey
		}
		srv, err := web.NewServer(srvCfg)
		if err != nil {
			return err
		}

		go monitoring.MonitorCapabilities(ctx, monitoring.HEALTHCHECK_INTERVAL, a.status, a.monitored...)

		httpServer := &http.Server{
			Addr:              appConfig.Server.Addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("[Main] Starting HTTP server", slog.String("addr", httpServer.Addr))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		slog.Info("[Main] Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		slog.Info("[Main] HTTP server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8501)")
	serveCmd.Flags().Int64("max-upload-mb", 0, "maximum CSV upload size in MB (default 10)")

	v := loader.Viper()
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("server.max_upload_mb", serveCmd.Flags().Lookup("max-upload-mb"))
}
