package support

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/MeKo-Tech/combgrowth/cmd/combgrowth/cmd"
)

// TestContext holds the state for integration tests.
type TestContext struct {
	// Command execution state
	LastCommand string
	LastOutput  string
	LastStderr  string
	LastError   error

	// Test environment
	PreviousDir string
	TempDir     string
	envRestore  map[string]*string
}

// NewTestContext creates a scenario context working in a fresh temporary directory.
func NewTestContext() (*TestContext, error) {
	prev, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	tempDir, err := os.MkdirTemp("", "combgrowth-test-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if err := os.Chdir(tempDir); err != nil {
		return nil, fmt.Errorf("failed to enter temp directory: %w", err)
	}

	testCtx := &TestContext{PreviousDir: prev, TempDir: tempDir, envRestore: map[string]*string{}}
	// Keep config files in the developer's home out of the scenarios.
	testCtx.SetEnv("HOME", tempDir)
	testCtx.SetEnv("XDG_CONFIG_HOME", tempDir)
	return testCtx, nil
}

// SetEnv sets an environment variable until Cleanup.
func (testCtx *TestContext) SetEnv(name, value string) {
	if _, seen := testCtx.envRestore[name]; !seen {
		if old, ok := os.LookupEnv(name); ok {
			testCtx.envRestore[name] = &old
		} else {
			testCtx.envRestore[name] = nil
		}
	}
	_ = os.Setenv(name, value)
}

// Cleanup restores the environment and removes the scenario directory.
func (testCtx *TestContext) Cleanup() error {
	var errs []string

	for name, old := range testCtx.envRestore {
		if old == nil {
			_ = os.Unsetenv(name)
		} else {
			_ = os.Setenv(name, *old)
		}
	}
	if err := os.Chdir(testCtx.PreviousDir); err != nil {
		errs = append(errs, err.Error())
	}
	if err := os.RemoveAll(testCtx.TempDir); err != nil && !os.IsNotExist(err) {
		errs = append(errs, fmt.Sprintf("failed to remove temp directory %s: %v", testCtx.TempDir, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Run executes the CLI in-process. A leading "combgrowth" is dropped.
func (testCtx *TestContext) Run(command string) {
	args := strings.Fields(command)
	if len(args) > 0 && args[0] == "combgrowth" {
		args = args[1:]
	}

	root := cmd.GetRootCommand()
	resetFlags(root)

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	testCtx.LastCommand = command
	testCtx.LastError = root.Execute()
	testCtx.LastOutput = out.String()
	testCtx.LastStderr = errOut.String()
}

// resetFlags puts every flag back to its default between scenarios.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
