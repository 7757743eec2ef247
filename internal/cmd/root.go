package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/niels/tinyhttpd/pkg/config"
	"github.com/niels/tinyhttpd/pkg/logging"
	"github.com/niels/tinyhttpd/pkg/retry"
	"github.com/niels/tinyhttpd/pkg/server"
	"github.com/niels/tinyhttpd/pkg/stats"
	"github.com/niels/tinyhttpd/pkg/version"
	"github.com/spf13/cobra"
)

// options holds the values bound to command line flags
type options struct {
	configPath     string
	host           string
	port           int
	root           string
	maxConnections int
	debug          bool
	showVersion    bool
}

// NewRootCmd creates the root command for tinyhttpd
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   version.AppName,
		Short: version.Description,
		Long: fmt.Sprintf(`%s - %s

Serves files below a document root over HTTP/1.1, one request per connection.
`, version.AppName, version.Description),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
				return nil
			}

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			logger, closeLog := logging.New(opts.debug, cfg.Logging)
			defer closeLog()

			if opts.configPath != "" {
				logger.Debug().Str("path", opts.configPath).Msg("Configuration loaded")
			}

			tracker := stats.NewConsoleTracker().WithWriter(cmd.OutOrStdout())
			srv := server.New(cfg.Server, logger,
				server.WithTracker(tracker),
				server.WithRetry(retry.FromConfig(cfg.Retry)),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.ListenAndServe(ctx); err != nil {
				logger.Error().Err(err).Msg("Server failed")
				return fmt.Errorf("server failed: %w", err)
			}

			tracker.Finish()
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	flags.StringVar(&opts.host, "host", "", "Host to bind (default 0.0.0.0, all interfaces)")
	flags.IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default 80)")
	flags.StringVarP(&opts.root, "root", "r", "", "Document root directory (default current directory)")
	flags.IntVar(&opts.maxConnections, "max-connections", 0, "Maximum concurrent connections, 0 for unbounded")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	flags.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	return rootCmd
}

// loadConfig layers defaults, the config file, environment and flags, then validates
func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg := config.LoadDefault()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if flags.Changed("root") {
		cfg.Server.Root = opts.root
	}
	if flags.Changed("max-connections") {
		cfg.Server.MaxConnections = opts.maxConnections
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command with a background context
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
