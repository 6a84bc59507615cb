package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ssargent/cartsave/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemdUnit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ArchiveDir = "/var/lib/cartsave"

	unit := systemdUnit(cfg, "/etc/cartsave/config.yaml", "saves", "/opt/bin/cartsave")
	assert.Contains(t, unit, "User=saves\nGroup=saves\n")
	assert.Contains(t, unit, "ExecStart=/opt/bin/cartsave serve --config /etc/cartsave/config.yaml\n")
	assert.Contains(t, unit, "ReadWritePaths=/var/lib/cartsave\n")
	assert.True(t, strings.HasPrefix(unit, "[Unit]\n"))
}

func TestServiceUnitCommand(t *testing.T) {
	e := newEnv(t)

	out, err := e.run("service", "unit", "--user", "saves")
	require.NoError(t, err)
	assert.Contains(t, out, "ExecStart=/usr/local/bin/cartsave serve --config "+e.configPath)
	assert.Contains(t, out, "ReadWritePaths="+filepath.Join(e.dir, "archive"))
}

func TestServiceSystemctlCommands(t *testing.T) {
	e := newEnv(t)

	var calls []string
	orig := runCommand
	runCommand = func(command string, args ...string) error {
		calls = append(calls, command+" "+strings.Join(args, " "))
		return nil
	}
	t.Cleanup(func() { runCommand = orig })

	for _, action := range []string{"start", "stop", "restart", "status"} {
		_, err := e.run("service", action)
		require.NoError(t, err)
	}
	_, err := e.run("service", "logs", "-f", "-n", "50")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"systemctl start cartsave.service",
		"systemctl stop cartsave.service",
		"systemctl restart cartsave.service",
		"systemctl status cartsave.service",
		"journalctl -u cartsave.service -f -n50",
	}, calls)
}
