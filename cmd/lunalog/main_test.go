package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigForTest(t *testing.T) string {
	t.Helper()

	root := t.TempDir()
	chdirForTest(t, root)
	path := filepath.Join(root, "lunalog.yaml")
	content := strings.Join([]string{
		"database:",
		"  path: " + filepath.Join(root, "period_tracker.db"),
		"log:",
		"  file: " + filepath.Join(root, "logs", "lunalog.log"),
		"secrets:",
		"  backend: file",
		"  dir: " + filepath.Join(root, "secrets"),
		"security:",
		"  bcrypt_cost: 4",
		"export:",
		"  dir: " + filepath.Join(root, "exports"),
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runForTest(t *testing.T, input string, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunRequiresCommand(t *testing.T) {
	code, _, stderr := runForTest(t, "")
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, "Usage: lunalog") {
		t.Fatalf("expected usage, got %q", stderr)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	code, _, stderr := runForTest(t, "", "serve")
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !strings.Contains(stderr, `unknown command "serve"`) {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

func TestRunSetupShellAndReset(t *testing.T) {
	configPath := writeConfigForTest(t)

	code, stdout, stderr := runForTest(t, "abcd\nabcd\n", "--config", configPath, "setup")
	if code != 0 {
		t.Fatalf("setup exit code %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "Password saved.") {
		t.Fatalf("unexpected setup output %q", stdout)
	}

	code, stdout, _ = runForTest(t, "abcd\nlog 2026-02-01 3\n\n\nexport csv\nquit\n", "--config", configPath, "shell")
	if code != 0 {
		t.Fatalf("shell exit code %d", code)
	}
	if !strings.Contains(stdout, "Saved 2026-02-01 (flow 3, cycle 1).") {
		t.Fatalf("unexpected shell output %q", stdout)
	}
	if !strings.Contains(stdout, "Exported 1 days to") {
		t.Fatalf("expected export confirmation in %q", stdout)
	}

	code, _, _ = runForTest(t, "", "--config", configPath, "reset", "--yes")
	if code != 0 {
		t.Fatalf("reset exit code %d", code)
	}

	code, stdout, _ = runForTest(t, "", "--config", configPath, "shell")
	if code != 0 {
		t.Fatalf("shell after reset exit code %d", code)
	}
	if !strings.Contains(stdout, "Run `lunalog setup` first.") {
		t.Fatalf("expected setup hint after reset, got %q", stdout)
	}
}

func TestRunFailsOnBadConfig(t *testing.T) {
	chdirForTest(t, t.TempDir())
	code, _, stderr := runForTest(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "setup")
	if code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(stderr, "config:") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory and restores the previous one when the test finishes.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()

	previous, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(previous); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
