package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/boxlabel/internal/config"
	"github.com/MeKo-Tech/boxlabel/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve <image-list>",
	Short: "Start HTTP server with the WebSocket editor",
	Long: `Start an HTTP server that lets one browser client drive the editor over
a WebSocket. The current image is saved when the client disconnects.

The server provides the following endpoints:
  GET /ws            - Editor WebSocket (one client at a time)
  GET /image/{index} - Raw image file, index or "current"
  GET /health        - Health check endpoint
  GET /metrics       - Prometheus metrics

Examples:
  boxlabel serve images.txt
  boxlabel serve images.txt --port 8080
  boxlabel serve images.txt --host 0.0.0.0 --frame-mode png`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		corsOrigin := cfg.Server.CORSOrigin
		if cmd.Flags().Changed("cors-origin") {
			corsOrigin, _ = cmd.Flags().GetString("cors-origin")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		frameMode := cfg.Server.FrameMode
		if cmd.Flags().Changed("frame-mode") {
			frameMode, _ = cmd.Flags().GetString("frame-mode")
		}

		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", port)
		}
		if frameMode != config.FrameModeOps && frameMode != config.FrameModePNG {
			return fmt.Errorf("invalid frame mode: %s (must be ops or png)", frameMode)
		}

		a, palette, err := newApp(cmd, cfg, args[0])
		if err != nil {
			return err
		}
		if err := a.Open(); err != nil {
			return err
		}

		editorServer := server.NewServer(a, server.Config{
			Host:       host,
			Port:       port,
			CORSOrigin: corsOrigin,
			FrameMode:  frameMode,
			Palette:    palette,
			Logger:     slog.Default(),
		})

		mux := http.NewServeMux()
		editorServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		go func() {
			slog.Info("Starting editor server", "host", host, "port", port, "images", a.Session().Len(), "frame_mode", frameMode)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		}
		if err := editorServer.Close(shutdownCtx); err != nil {
			return fmt.Errorf("close editor session: %w", err)
		}

		if err := a.Save(); err != nil {
			return fmt.Errorf("save on shutdown: %w", err)
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().String("frame-mode", config.FrameModeOps, "frame encoding sent to the editor: ops or png")
	addBoxDirFlag(serveCmd)
}
