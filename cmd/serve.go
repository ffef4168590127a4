package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/serroba/editops/internal/api"
	"github.com/serroba/editops/internal/collab"
	"github.com/serroba/editops/internal/fragment"
	"github.com/serroba/editops/internal/ws"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and websocket server",
		Long: `Serve the edit API and live fragments until interrupted.

Routes: POST /operations/parse, POST /operations/execute, POST /diff,
POST /fragments, GET|DELETE /fragments/{id}, GET /ws?fragmentId={id}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, newHTTPServer(slog.Default()), slog.Default())
		},
	}

	cmd.Flags().StringP(addrFlagName, "a", defaultServerAddr, "address to listen on")
	bindFlagToConfig(cmd.Flags().Lookup(addrFlagName), serverAddrKey)

	return cmd
}

// newHTTPServer wires the fragment store, hub, service and API from config.
func newHTTPServer(logger *slog.Logger) *http.Server {
	hub := ws.NewHub()
	diff := diffSettings()

	service := collab.NewService(collab.Config{
		Store:         fragment.NewMemoryStore(),
		Hub:           hub,
		Logger:        logger,
		MaxTextLength: viper.GetInt(serverMaxTextLengthKey),
		Diff:          &diff,
	})

	server := api.NewServer(api.ServerConfig{
		Service: service,
		Hub:     hub,
		Logger:  logger,
	})

	return &http.Server{
		Addr:              viper.GetString(serverAddrKey),
		Handler:           server.Handler(),
		ReadHeaderTimeout: viper.GetDuration(serverReadHeaderTimeoutKey),
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Info("starting server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), viper.GetDuration(serverShutdownTimeoutKey))
		defer cancel()

		logger.Info("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func init() {
	rootCmd.AddCommand(newServeCmd())
}
