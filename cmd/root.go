// Package cmd contains the thumbcache CLI commands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"thumbcache/config"
	"thumbcache/di"
	"thumbcache/utils/logger"
	"thumbcache/utils/output"
)

var (
	cfgFile   string
	verbose   bool
	quiet     bool
	colorMode string
	cfg       *config.Config
	printer   *output.Printer
	container *di.ApplicationComponents
	version   = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "thumbcache",
	Short: "Thumbnail cache for local and remote images",
	Long: `thumbcache derives a deterministic cache key for every thumbnail request,
reuses the cached file while its source is unchanged, and regenerates it when
the source changes or the entry expires.

Example usage:
  thumbcache resolve images/cat.jpg 100 100          # print the cached file path
  thumbcache resolve images/cat.jpg 100 100 --url    # print the public URL
  thumbcache resolve https://example.com/a.png 64 64 --cache-mode checksum
  thumbcache serve                                   # run the HTTP API
  thumbcache clear                                   # remove every cached file`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by `thumbcache version`.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .thumbcache.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only print results and errors")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
}

// initConfig loads configuration and sets up logging and output. The
// application container is built on first use so commands like version do
// not touch the cache directory.
func initConfig(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return err
	}
	printer = output.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode, quiet)

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	// stdout is reserved for command results
	logger.Logger = logger.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	slog.SetDefault(logger.Logger)

	logger.Logger.Debug("configuration loaded",
		"cache_root", cfg.Cache.Root,
		"public_root", cfg.Public.Root,
		"expire", cfg.Cache.Expire,
		"single_flight", cfg.Cache.SingleFlight,
	)

	container = nil
	return nil
}

func components() (*di.ApplicationComponents, error) {
	if container != nil {
		return container, nil
	}
	c, err := di.NewApplicationComponents(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing thumbcache: %w", err)
	}
	container = c
	return container, nil
}
