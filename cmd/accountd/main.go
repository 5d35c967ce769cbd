package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"serviceflow/internal/devserver"
	"serviceflow/internal/location"
	"serviceflow/internal/store"
)

const shutdownTimeout = 5 * time.Second

type options struct {
	addr            string
	dataDir         string
	logLevel        string
	country         string
	denyGeolocation bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "accountd",
		Short:        "ServiceFlow development backend (accounts + geocoding)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zapcore.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to parse log level: %w", err)
			}
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(level)
			log, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			ln, err := net.Listen("tcp", opts.addr)
			if err != nil {
				return err
			}
			return run(cmd.Context(), ln, opts, log)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "persist accounts under this directory (default: memory only)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	cmd.Flags().StringVar(&opts.country, "country", location.DefaultCountry, "country used when a search names none")
	cmd.Flags().BoolVar(&opts.denyGeolocation, "deny-geolocation", false, "answer 403 to /geocode/current")
	return cmd
}

// run serves on ln until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, ln net.Listener, opts *options, log *zap.Logger) error {
	if opts.dataDir != "" {
		if err := os.MkdirAll(opts.dataDir, 0o700); err != nil {
			return err
		}
	}

	srv := devserver.New(
		store.NewAccountFileStore(opts.dataDir),
		store.NewGazetteer(nil),
		devserver.Config{
			DenyGeolocation: opts.denyGeolocation,
			Current:         location.DefaultCenter,
			Country:         opts.country,
		},
		log,
	)
	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("accountd listening", zap.String("addr", ln.Addr().String()))
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("accountd shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
