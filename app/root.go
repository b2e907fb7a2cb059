// Package app implements the console commands.
package app

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/atelier-market/admin-console/internal/config"
	"github.com/atelier-market/admin-console/internal/daemon"
	"github.com/atelier-market/admin-console/internal/logger"
)

var configPath string // directory holding main.toml

var rootCmd = &cobra.Command{
	Use:   "admin-console",
	Short: "Atelier admin console",
	Long: `Atelier admin console keeps the administrator session of the marketplace
admin API: login with optional two-factor verification, token refresh and
permission checks for every console surface.`,
	Args:         cobra.OnlyValidArgs,
	SilenceUsage: true,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "directory holding main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Log); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// openDaemon builds the console and restores the persisted session.
func openDaemon(ctx context.Context) (*daemon.Daemon, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	d, err := daemon.New(cfg)
	if err != nil {
		return nil, err
	}

	d.Restore(ctx)

	return d, nil
}
