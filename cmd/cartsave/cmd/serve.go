/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/api"
	"github.com/ssargent/cartsave/pkg/config"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the cartsave REST API. Images are inspected and repaired over HTTP,
protected by the configured X-API-Key, with Prometheus metrics at /metrics
and the OpenAPI document at /swagger/doc.json.

Examples:
  cartsave serve
  cartsave serve --port 9000 --bind 0.0.0.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFrom(cmd)
			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			serverConfig, err := serverConfigFrom(cfg)
			if err != nil {
				return err
			}

			a, err := openArchive(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cmd.Printf("Starting cartsave server on %s:%d\n", cfg.Bind, cfg.Port)
			cmd.Printf("Archive directory: %s\n", cfg.ArchiveDir)
			return container.GetServerFactory().CreateServerStarter().StartServer(ctx, a, serverConfig)
		},
	}

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind")
	serveCmd.Flags().String("api-key", "", "API key clients must send in X-API-Key")
	return serveCmd
}

// serverConfigFrom maps the file config onto the API server config.
func serverConfigFrom(cfg *config.Config) (api.ServerConfig, error) {
	if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
		return api.ServerConfig{}, errors.New("no API key configured; run 'cartsave init' or pass --api-key")
	}
	opts, err := saveOptions(cfg)
	if err != nil {
		return api.ServerConfig{}, err
	}
	return api.ServerConfig{
		Port:          cfg.Port,
		Bind:          cfg.Bind,
		APIKey:        cfg.Security.APIKey,
		MaxImageSize:  int64(cfg.Security.MaxImageSize),
		Save:          opts,
		BackupOnWrite: cfg.Save.BackupOnWrite,
	}, nil
}
