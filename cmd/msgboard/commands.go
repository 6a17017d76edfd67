package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/msgboard/internal/app"
	"github.com/vovakirdan/msgboard/internal/config"
	applog "github.com/vovakirdan/msgboard/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "msgboard",
		Short:        "Message board API server",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (default ./config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newServeCmd(opts), newMigrateCmd(opts))
	return cmd
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr, driver string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(root, func(cfg *config.Config) {
				if addr != "" {
					cfg.Addr = addr
				}
				if driver != "" {
					cfg.Store.Driver = driver
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				logger.Error().Err(err).Msg("failed to initialize application")
				return err
			}

			logger.Info().Str("addr", cfg.Addr).Str("store", cfg.Store.Driver).Msg("starting msgboard server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address")
	cmd.Flags().StringVar(&driver, "store", "", "store driver: sqlite or memory")
	return cmd
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig(root, nil)
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.DriverSQLite {
				return fmt.Errorf("migrate requires the %s store, got %q", config.DriverSQLite, cfg.Store.Driver)
			}

			st, err := app.OpenStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			logger.Info().Str("db_path", cfg.Store.DatabasePath).Msg("schema is up to date")
			return nil
		},
	}
}

// loadConfig resolves configuration, applies flag overrides and builds the logger.
func loadConfig(root *rootOptions, override func(*config.Config)) (*config.Config, *zerolog.Logger, error) {
	bootstrap := applog.New("info", "console")

	cfg, path, err := config.Load(bootstrap, root.configPath)
	if err != nil {
		return nil, nil, err
	}
	if root.logLevel != "" {
		cfg.LogLevel = root.logLevel
	}
	if override != nil {
		override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("config", path).Msg("configuration loaded")
	return &cfg, logger, nil
}
