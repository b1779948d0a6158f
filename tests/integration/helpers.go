//go:build integration

package integration

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/chatjpt"
)

// isCI returns true if running in a CI environment.
func isCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "CIRCLECI", "TRAVIS", "JENKINS_URL"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// skipIfNoAPIKey skips the test if OPENAI_API_KEY is not set.
// In CI, it fails unless CHATJPT_SKIP_INTEGRATION is set.
func skipIfNoAPIKey(t *testing.T) {
	t.Helper()
	if os.Getenv(chatjpt.EnvAPIKey) != "" {
		return
	}
	if isCI() && os.Getenv("CHATJPT_SKIP_INTEGRATION") == "" {
		t.Fatalf("%s not set (CI environment detected; set CHATJPT_SKIP_INTEGRATION=1 to skip)", chatjpt.EnvAPIKey)
	}
	t.Skipf("%s not set", chatjpt.EnvAPIKey)
}

// skipIfCostly skips tests for expensive endpoints unless
// CHATJPT_COSTLY_TESTS is set.
func skipIfCostly(t *testing.T, what string) {
	t.Helper()
	if os.Getenv("CHATJPT_COSTLY_TESTS") == "" {
		t.Skipf("%s is costly; set CHATJPT_COSTLY_TESTS=1 to run", what)
	}
}

// newClient returns a client built from the environment.
func newClient(t *testing.T, opts ...chatjpt.Option) *chatjpt.Client {
	t.Helper()
	skipIfNoAPIKey(t)

	client, err := chatjpt.NewFromEnv(opts...)
	if err != nil {
		t.Fatalf("NewFromEnv() error = %v", err)
	}
	return client
}

// testContext returns a context bounded by d.
func testContext(t *testing.T, d time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	t.Cleanup(cancel)
	return ctx
}

// testDataPath returns the path of a file in tests/testdata.
func testDataPath(t *testing.T, name string) string {
	t.Helper()

	candidates := []string{
		"../testdata",
		"testdata",
		"tests/testdata",
	}
	for _, candidate := range candidates {
		path := filepath.Join(candidate, name)
		if _, err := os.Stat(path); err == nil {
			abs, _ := filepath.Abs(path)
			return abs
		}
	}

	t.Fatalf("Could not find testdata file %s", name)
	return ""
}

// cliResult holds the result of running a CLI command.
type cliResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// cliEnv isolates the CLI from the developer's home directory: config
// and keystore live in a fresh HOME.
type cliEnv struct {
	home  string
	vars  map[string]string
	stdin string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	return &cliEnv{
		home: t.TempDir(),
		vars: map[string]string{
			"CHATJPT_MASTER_KEY": "integration-master-key",
		},
	}
}

func (e *cliEnv) environ() []string {
	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if name == "HOME" || name == "USERPROFILE" {
			continue
		}
		if _, ok := e.vars[name]; ok {
			continue
		}
		env = append(env, kv)
	}
	env = append(env, "HOME="+e.home, "USERPROFILE="+e.home)
	for k, v := range e.vars {
		env = append(env, k+"="+v)
	}
	return env
}

// run executes the CLI binary built by TestMain.
func (e *cliEnv) run(t *testing.T, args ...string) cliResult {
	t.Helper()

	if cliBinary == "" {
		t.Fatal("CLI binary not built - TestMain may not have run")
	}

	cmd := exec.Command(cliBinary, args...)
	cmd.Env = e.environ()
	cmd.Stdin = strings.NewReader(e.stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return cliResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// withStdin returns a copy of e that feeds stdin to the next run.
func (e *cliEnv) withStdin(stdin string) *cliEnv {
	c := *e
	c.stdin = stdin
	return &c
}
