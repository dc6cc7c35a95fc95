package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"flash-gen/internal/api"
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web page and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, appOptions{provider: true})
			if err != nil {
				return err
			}
			defer a.close()

			if port == "" {
				port = a.cfg.Port
			}

			server := api.NewServer(a.generator, a.events, a.log, api.Options{
				DefaultCards:    a.cfg.DefaultCards,
				DefaultLanguage: a.cfg.DefaultLanguage,
				MaxUploadBytes:  a.cfg.MaxUploadBytes(),
			})

			srv := &http.Server{
				Addr:              ":" + port,
				Handler:           server.Handler(),
				ReadHeaderTimeout: 15 * time.Second,
				ReadTimeout:       60 * time.Second,
				// No WriteTimeout: a generation waits on the completion service
				// for as long as it takes.
			}

			errCh := make(chan error, 1)
			go func() {
				a.log.Info("listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			a.log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (default: $PORT or 8080)")
	return cmd
}
