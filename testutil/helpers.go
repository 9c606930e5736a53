package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// RequireCommand skips the test when the named command is not on PATH.
func RequireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("command %q not available: %v", name, err)
	}
}

// TempScript writes an executable shell script into a test-scoped
// directory and returns its path.
func TempScript(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+contents), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}
