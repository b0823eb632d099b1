package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "combgrowth", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	isolate(t)

	out, _, err := executeCommand(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	isolate(t)

	out, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "combgrowth version")
}

func TestRootCommandSubcommands(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, expected := range []string{"measure", "profile", "contours", "colonies", "counts", "series", "config"} {
		assert.Contains(t, names, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(t, "--no-such-flag")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
}

func TestRootCommand_InvalidConfigValue(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(t, "profile", "a.png", "b.png", "--step-size", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step size")
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	isolate(t)

	_, _, err := executeCommand(t, "--config", "nope.yaml", "config", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestConfigInitAndShow(t *testing.T) {
	dir := isolate(t)

	out, _, err := executeCommand(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "combgrowth.yaml")
	assert.FileExists(t, filepath.Join(dir, "combgrowth.yaml"))

	_, _, err = executeCommand(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCommand(t, "config", "init", "--force")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile("custom.yaml", []byte("growth:\n  window: 4\n"), 0o600))
	out, _, err = executeCommand(t, "--config", "custom.yaml", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "window: 4")
	assert.Contains(t, out, "step_size: 1")
}

func TestConfigShow_FlagBeatsEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("COMBGROWTH_GROWTH_WINDOW", "7")

	out, _, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "window: 7")

	out, _, err = executeCommand(t, "config", "show", "--window", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "window: 3")
}

func TestVerboseLogsToStderr(t *testing.T) {
	isolate(t)

	out, errOut, err := executeCommand(t, "-v", "colonies")
	require.NoError(t, err)
	assert.Contains(t, out, "colony")
	assert.Contains(t, errOut, `"level":"DEBUG"`)
}
