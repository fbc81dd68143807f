package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Wyydra/relay/internal/adapter/driven/gateway/ws"
	"github.com/Wyydra/relay/internal/adapter/driven/persistence/memory"
	handler "github.com/Wyydra/relay/internal/adapter/driving/http"
	"github.com/Wyydra/relay/internal/config"
	"github.com/Wyydra/relay/internal/core/service"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		host     string
		port     int
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           "relay",
		Short:         "WebRTC signaling relay",
		Long:          `relay lets clients register, meet in named rooms and exchange opaque signaling messages over a websocket. All state is in memory.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Flags win over the environment, but only when given.
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = host
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "interface to listen on (overrides HOST)")
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port to listen on (overrides PORT)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error (overrides LOG_LEVEL)")
	return cmd
}

func setupLogger(cfg config.Config) {
	var w io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.LogFormat == "json" {
		w = os.Stdout
	}
	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = zerolog.New(w).With().Timestamp().Caller().Logger()
}

func run(ctx context.Context, cfg config.Config) error {
	setupLogger(cfg)

	hub := ws.NewHub()
	router := service.NewSignalingRouter(memory.NewConnectionRegistry(), memory.NewRoomRegistry(), hub)
	h := handler.NewHandler(router, hub, handler.Options{
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.Origins(),
		SendBufferSize: cfg.SendBufferSize,
		MaxMessageSize: int64(cfg.MaxMessageSize),
		WriteWait:      cfg.WriteWait,
		PongWait:       cfg.PongWait,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; the hub
	// closes them.
	hub.Stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}
