package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	transport "github.com/Lego1st/quizzess/internal/transport/http"
	"github.com/spf13/cobra"
)

func newStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the local view server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}
}

func runServer(ctx context.Context, opts *options) error {
	cfg := opts.cfg
	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := opts.port
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     transport.NewRouter(d.sessions, d.authoring(), d.play()),
		ReadTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting view server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
