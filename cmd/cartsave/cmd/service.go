/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/ssargent/cartsave/pkg/config"
)

const serviceName = "cartsave.service"

var (
	unitPath = "/etc/systemd/system/" + serviceName

	// runCommand runs a system command; replaced in tests.
	runCommand = func(command string, args ...string) error {
		c := exec.Command(command, args...)
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		return c.Run()
	}
)

func newServiceCmd() *cobra.Command {
	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Run the cartsave API as a systemd service",
		Long: `Manage the cartsave REST API as a systemd service with restart on
failure and a locked down sandbox.`,
	}

	unitCmd := &cobra.Command{
		Use:   "unit",
		Short: "Print the systemd unit without installing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			binary, _ := cmd.Flags().GetString("binary")
			configPath, err := resolvedConfigPath(cmd)
			if err != nil {
				return err
			}
			cmd.Print(systemdUnit(configFrom(cmd), configPath, user, binary))
			return nil
		},
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install and enable the systemd service",
		Long: `Write the systemd unit for 'cartsave serve', reload systemd and enable the
service. Requires root.

Examples:
  sudo cartsave service install
  sudo cartsave service install --user cartsave --start=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			binary, _ := cmd.Flags().GetString("binary")
			startNow, _ := cmd.Flags().GetBool("start")

			if os.Geteuid() != 0 {
				return errors.New("service install requires root privileges")
			}
			configPath, err := resolvedConfigPath(cmd)
			if err != nil {
				return err
			}
			cfg := configFrom(cmd)
			if _, err := serverConfigFrom(cfg); err != nil {
				return err
			}

			unit := systemdUnit(cfg, configPath, user, binary)
			if err := os.WriteFile(unitPath, []byte(unit), 0644); err != nil {
				return errors.Wrap(err, "write unit file")
			}
			if err := runCommand("systemctl", "daemon-reload"); err != nil {
				return errors.Wrap(err, "reload systemd")
			}
			if err := runCommand("systemctl", "enable", serviceName); err != nil {
				return errors.Wrap(err, "enable service")
			}
			cmd.Printf("Installed %s\n", unitPath)

			if startNow {
				if err := runCommand("systemctl", "start", serviceName); err != nil {
					return errors.Wrap(err, "start service")
				}
				cmd.Printf("Service started on %s:%d\n", cfg.Bind, cfg.Port)
			}
			return nil
		},
	}

	uninstallCmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Stop, disable and remove the systemd service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Geteuid() != 0 {
				return errors.New("service uninstall requires root privileges")
			}
			_ = runCommand("systemctl", "stop", serviceName)
			if err := runCommand("systemctl", "disable", serviceName); err != nil {
				cmd.Printf("Warning: could not disable service: %v\n", err)
			}
			if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
				return errors.Wrap(err, "remove unit file")
			}
			if err := runCommand("systemctl", "daemon-reload"); err != nil {
				return errors.Wrap(err, "reload systemd")
			}
			cmd.Println("Service uninstalled; configuration and archive were kept")
			return nil
		},
	}

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show service logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			follow, _ := cmd.Flags().GetBool("follow")
			lines, _ := cmd.Flags().GetInt("lines")

			journalArgs := []string{"-u", serviceName}
			if follow {
				journalArgs = append(journalArgs, "-f")
			}
			if lines > 0 {
				journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
			}
			return runCommand("journalctl", journalArgs...)
		},
	}
	logsCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")

	for _, c := range []*cobra.Command{unitCmd, installCmd} {
		c.Flags().String("user", "cartsave", "User to run the service as")
		c.Flags().String("binary", "/usr/local/bin/cartsave", "Path of the installed binary")
	}
	installCmd.Flags().Bool("start", true, "Start the service after installation")

	serviceCmd.AddCommand(unitCmd, installCmd, uninstallCmd, logsCmd)
	for _, action := range []string{"start", "stop", "restart", "status"} {
		serviceCmd.AddCommand(systemctlCmd(action))
	}
	return serviceCmd
}

func systemctlCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("systemctl %s %s", action, serviceName),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand("systemctl", action, serviceName)
		},
	}
}

// resolvedConfigPath returns the absolute config path the unit should pass
// to 'cartsave serve'.
func resolvedConfigPath(cmd *cobra.Command) (string, error) {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.GetDefaultConfigPath()
	}
	return filepath.Abs(configPath)
}

// systemdUnit renders the unit file for the API server.
func systemdUnit(cfg *config.Config, configPath, user, binary string) string {
	archiveDir, err := filepath.Abs(cfg.ArchiveDir)
	if err != nil {
		archiveDir = cfg.ArchiveDir
	}
	return fmt.Sprintf(`[Unit]
Description=cartsave save image API
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=%s serve --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, binary, configPath, archiveDir)
}
