// Package testutil provides test utilities and helpers for convlog tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"
)

// HelperProcessConfig configures the behavior of TestHelperProcess.
type HelperProcessConfig struct {
	// ExitCode is the exit code to return (default 0).
	ExitCode int `json:"exit_code"`
	// Stdout is the content to write to stdout.
	Stdout string `json:"stdout"`
	// Stderr is the content to write to stderr.
	Stderr string `json:"stderr"`
	// EchoArgs writes the arguments following "--" to stdout, one per line,
	// after Stdout.
	EchoArgs bool `json:"echo_args"`
}

// HelperProcessEnvVars contains the environment variable names used by TestHelperProcess.
const (
	// EnvWantHelperProcess signals that the test binary should run as a helper process.
	EnvWantHelperProcess = "GO_WANT_HELPER_PROCESS"
	// EnvHelperProcessConfig contains JSON-encoded HelperProcessConfig.
	EnvHelperProcessConfig = "GO_HELPER_PROCESS_CONFIG"
)

// TestHelperProcess is a function to be called from a test function to
// implement the helper process pattern. When invoked with
// GO_WANT_HELPER_PROCESS=1, it behaves as a stand-in for an external command
// and exits without returning.
//
// Usage in test file:
//
//	func TestHelperProcess(t *testing.T) {
//	    testutil.TestHelperProcess(t)
//	}
func TestHelperProcess(t *testing.T) {
	if os.Getenv(EnvWantHelperProcess) != "1" {
		return
	}

	config := parseHelperConfig()
	runHelperProcess(config, argsAfterSeparator(os.Args))
}

// HelperCommand returns the executable and leading arguments that re-run the
// current test binary as the helper process. Arguments appended after these
// are visible to the helper after the "--" separator.
func HelperCommand(t *testing.T) (string, []string) {
	t.Helper()

	testBinary, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to get test binary path: %v", err)
	}
	return testBinary, []string{"-test.run=^TestHelperProcess$", "--"}
}

// HelperEnv returns the environment entries that switch the helper process on
// with the given behavior.
func HelperEnv(t *testing.T, config HelperProcessConfig) []string {
	t.Helper()

	configJSON, err := json.Marshal(config)
	if err != nil {
		t.Fatalf("encoding helper config: %v", err)
	}
	return []string{
		EnvWantHelperProcess + "=1",
		EnvHelperProcessConfig + "=" + string(configJSON),
	}
}

// parseHelperConfig parses HelperProcessConfig from environment variable.
func parseHelperConfig() HelperProcessConfig {
	config := HelperProcessConfig{}
	configJSON := os.Getenv(EnvHelperProcessConfig)
	if configJSON != "" {
		// Ignore parse errors; use defaults on failure
		_ = json.Unmarshal([]byte(configJSON), &config)
	}
	return config
}

// runHelperProcess executes the helper process behavior and always exits.
func runHelperProcess(config HelperProcessConfig, args []string) {
	if config.Stdout != "" {
		fmt.Fprint(os.Stdout, config.Stdout)
	}
	if config.EchoArgs {
		fmt.Fprint(os.Stdout, strings.Join(args, "\n"))
	}
	if config.Stderr != "" {
		fmt.Fprint(os.Stderr, config.Stderr)
	}

	os.Exit(config.ExitCode)
}

// argsAfterSeparator returns the arguments following the first "--".
func argsAfterSeparator(args []string) []string {
	for i, arg := range args {
		if arg == "--" {
			return args[i+1:]
		}
	}
	return nil
}
