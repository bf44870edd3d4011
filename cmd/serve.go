package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LOLLOVANDEV/incognitobot/internal/adapters/httpapi"
	"github.com/spf13/cobra"
)

const readHeaderTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bot webhook and event API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := opts.wire(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			if listen == "" {
				listen = app.cfg.Server.Listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, app, listen)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (defaults to server.listen)")

	return cmd
}

func serve(ctx context.Context, app *app, listen string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if app.cfg.Server.APIToken == "" {
		app.logger.Info("server.api_token is not set, event API disabled")
	}
	if app.deliverer == nil {
		app.logger.Info("no telegram token configured, webhook disabled")
	}

	handler := httpapi.NewHandler(app.router, httpapi.Options{
		APIToken:      app.cfg.Server.APIToken,
		Deliverer:     app.deliverer,
		WebhookSecret: app.cfg.Server.WebhookSecret,
		Logger:        app.logger,
	})
	server := &http.Server{
		Addr:              listen,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	compactDone := make(chan struct{})
	go func() {
		defer close(compactDone)
		runCompaction(ctx, app)
	}()

	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("server listening", "addr", listen, "ledger_driver", app.cfg.Ledger.Driver)
		serveErr <- server.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("shutdown http server: %w", err)
		}
	}

	cancel()
	<-compactDone
	return runErr
}

// runCompaction folds the flat-file journal into the snapshot until ctx is
// done. Other ledger drivers have nothing to compact.
func runCompaction(ctx context.Context, app *app) {
	store, ok := app.store.(compactor)
	if !ok || app.cfg.Server.CompactInterval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(app.cfg.Server.CompactInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.Compact(ctx); err != nil && ctx.Err() == nil {
				app.logger.Warn("ledger compaction failed", "error", err)
			}
		}
	}
}
