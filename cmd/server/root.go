package main

import (
	"github.com/ecolehub/sel/internal/config"
	"github.com/ecolehub/sel/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sel",
		Short:         "sel runs the EcoleHub local exchange ledger",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default .env)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	return rootCmd
}

// bootstrap loads configuration and builds the logger every command needs.
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(config.New(cfgFile))
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
