package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"serviceflow/internal/app"
)

// Command annotations read by the root pre-run hook.
const (
	// skipWire marks commands that run without the dependency graph.
	skipWire = "skip-wire"
	// ownsTerminal marks commands that draw a full-screen UI unless --no-input is set.
	ownsTerminal = "owns-terminal"
)

type rootOptions struct {
	configPath string
	backendURL string
	verbose    bool

	cfg  *app.Config
	log  *zap.Logger
	wire *app.Wire
}

// Execute runs the CLI with os.Args and cancels on SIGINT or SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "serviceflow",
		Short: "Register your service company with ServiceFlow",
		Long: `serviceflow walks a company through registration in three steps:
company details, service location and account credentials.

Run "serviceflow register" to start the interactive wizard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipWire] != "" {
				return nil
			}

			cfg, err := app.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.backendURL != "" {
				cfg.Backend.BaseURL = opts.backendURL
			}
			opts.cfg = cfg

			quiet := false
			if cmd.Annotations[ownsTerminal] != "" {
				noInput, _ := cmd.Flags().GetBool("no-input")
				quiet = !noInput
			}
			log, err := app.NewLogger(cfg.Logging, opts.verbose, quiet)
			if err != nil {
				return err
			}
			opts.log = log

			w, err := app.NewWire(cfg, log)
			if err != nil {
				return fmt.Errorf("%w (check %s)", err, opts.configPath)
			}
			opts.wire = w
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", app.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "backend base URL (overrides config, e.g. http://127.0.0.1:8080)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(registerCmd(opts), locateCmd(opts), configCmd(opts))
	return root
}
