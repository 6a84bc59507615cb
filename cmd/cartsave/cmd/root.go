/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/config"
	"github.com/ssargent/cartsave/pkg/di"
	"github.com/ssargent/cartsave/pkg/logging"
	"github.com/ssargent/cartsave/pkg/save"
)

var container *di.Container

// SetContainer injects the dependency container used by commands that touch
// the archive or the server.
func SetContainer(c *di.Container) {
	container = c
}

type configKey struct{}

// configFrom returns the config loaded by the root command.
func configFrom(cmd *cobra.Command) *config.Config {
	if cfg, ok := cmd.Context().Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cartsave",
		Short: "cartsave - cartridge save image toolkit",
		Long: `cartsave reads, validates and repairs battery and flash save images of
first and third generation handheld games.

It detects the image format from its size, picks the active save slot,
checks every checksum and can rewrite records, names and lists with the
checksums recomputed.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			logLevel, _ := cmd.Flags().GetString("log-level")
			region, _ := cmd.Flags().GetString("region")

			cfg := config.DefaultConfig()
			// init creates the file the other commands read.
			if cmd.Name() != "init" {
				var err error
				if cfg, err = loadConfig(configPath); err != nil {
					return err
				}
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if region != "" {
				if _, err := save.ParseRegion(region); err != nil {
					return err
				}
				cfg.Save.Region = region
			}

			if err := logging.SetUp(cfg.Logging.Level, cfg.Logging.Format); err != nil {
				return err
			}
			logging.SetOutput(cmd.ErrOrStderr())
			logrus.WithField("config", configPath).Debug("configuration loaded")

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (default is "+config.GetDefaultConfigPath()+")")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("region", "", "Character set region: auto, international or japanese")

	rootCmd.AddCommand(
		newInitCmd(),
		newInspectCmd(),
		newValidateCmd(),
		newRepairCmd(),
		newPartyCmd(),
		newRecordCmd(),
		newBoxNameCmd(),
		newBackupCmd(),
		newServeCmd(),
		newServiceCmd(),
	)
	return rootCmd
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist. An explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.GetDefaultConfigPath()
		if !config.ConfigExists(path) {
			return config.DefaultConfig(), nil
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
