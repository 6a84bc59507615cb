/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/config"
)

func newInitCmd() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file and backup archive",
		Long: `Create the cartsave configuration file with a freshly generated API key
and the backup archive directory.

Examples:
  cartsave init
  cartsave init --archive-dir ./backups --config ./cartsave.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			archiveDir, _ := cmd.Flags().GetString("archive-dir")
			force, _ := cmd.Flags().GetBool("force")
			printKey, _ := cmd.Flags().GetBool("print-key")

			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			if config.ConfigExists(configPath) && !force {
				cmd.Printf("Configuration already exists at %s. Use --force to overwrite it.\n", configPath)
				return nil
			}

			cfg, err := config.BootstrapConfig(configPath, archiveDir)
			if err != nil {
				return errors.Wrap(err, "bootstrap config")
			}
			if err := os.MkdirAll(cfg.ArchiveDir, 0750); err != nil {
				return errors.Wrap(err, "create archive dir")
			}

			cmd.Printf("Configuration written to %s\n", configPath)
			cmd.Printf("Archive directory: %s\n", cfg.ArchiveDir)
			if printKey {
				cmd.Printf("API key: %s\n", cfg.Security.APIKey)
			}
			return nil
		},
	}

	initCmd.Flags().String("archive-dir", "./archive", "Directory of the backup archive")
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration")
	initCmd.Flags().Bool("print-key", false, "Print the generated API key")
	return initCmd
}
