package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles the CLI into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available on system")
	}
	binPath := filepath.Join(t.TempDir(), "release")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build CLI binary: %v; build output: %s", err, out)
	}
	return binPath
}

// setupRemote creates a bare repository, registers it as origin of dir and
// pushes the current branch with upstream tracking.
func setupRemote(t *testing.T, dir string) string {
	t.Helper()
	remote := filepath.Join(t.TempDir(), "remote.git")
	if out, err := exec.Command("git", "init", "--bare", remote).CombinedOutput(); err != nil {
		t.Fatalf("git init --bare failed: %v; output: %s", err, out)
	}
	for _, args := range [][]string{
		{"remote", "add", "origin", remote},
		{"push", "-u", "origin", "HEAD"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %v; output: %s", args, err, out)
		}
	}
	return remote
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %v failed: %v; output: %s", args, err, out)
	}
	return string(out)
}

func runBinary(dir, bin string, args ...string) (string, error) {
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// TestCLIBinaryIntegration releases a minor version end to end. The package
// manager is replaced by `true` so every script succeeds.
func TestCLIBinaryIntegration(t *testing.T) {
	bin := buildBinary(t)
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true is not available on system")
	}
	dir := setupRepo(t, "packageManager: \"true\"\n")
	remote := setupRemote(t, dir)

	out, err := runBinary(dir, bin, "--yes", "minor")
	if err != nil {
		t.Fatalf("release failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Release successful!") {
		t.Errorf("expected success summary, got:\n%s", out)
	}

	want := strings.Replace(initialPackageJSON, `"version": "1.0.0"`, `"version": "1.1.0"`, 1)
	if got := readPackageJSON(t, dir); got != want {
		t.Errorf("unexpected package.json:\n%s", got)
	}
	if msg := gitOutput(t, dir, "log", "-1", "--pretty=%s"); strings.TrimSpace(msg) != "release: v1.1.0" {
		t.Errorf("unexpected commit message %q", msg)
	}
	if tags := gitOutput(t, dir, "tag"); !strings.Contains(tags, "v1.1.0") {
		t.Errorf("expected tag v1.1.0, got:\n%s", tags)
	}
	if tags := gitOutput(t, remote, "tag"); !strings.Contains(tags, "v1.1.0") {
		t.Errorf("expected tag v1.1.0 on remote, got:\n%s", tags)
	}
	local := gitOutput(t, dir, "rev-parse", "HEAD")
	pushed := gitOutput(t, remote, "rev-parse", "refs/tags/v1.1.0^{commit}")
	if local != pushed {
		t.Errorf("remote tag points at %s, want %s", pushed, local)
	}
}

// TestCLIBinaryPublishFailureReverts makes the publish step fail after the
// release commit and checks that package.json goes back to the old version.
func TestCLIBinaryPublishFailureReverts(t *testing.T) {
	bin := buildBinary(t)
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available on system")
	}
	config := `packageManager: sh
scripts:
  typeCheck: ["-c", "exit 0"]
  lint: ["-c", "exit 0"]
  test: ["-c", "exit 0"]
  clean: ["-c", "exit 0"]
  buildTypes: ["-c", "exit 0"]
  buildBundle: ["-c", "exit 0"]
  changelog: ["-c", "exit 0"]
  publish: ["-c", "echo registry says no >&2; exit 7"]
`
	dir := setupRepo(t, config)

	out, err := runBinary(dir, bin, "--yes", "2.0.0")
	if err == nil {
		t.Fatalf("expected release to fail, got:\n%s", out)
	}
	if !strings.Contains(out, "Publishing package") || !strings.Contains(out, "exit code 7") {
		t.Errorf("expected publish failure in output, got:\n%s", out)
	}
	if got := readPackageJSON(t, dir); got != initialPackageJSON {
		t.Errorf("expected package.json to be reverted, got:\n%s", got)
	}
	if msg := gitOutput(t, dir, "log", "-1", "--pretty=%s"); strings.TrimSpace(msg) != "release: v2.0.0" {
		t.Errorf("expected the release commit before publish, got %q", msg)
	}
	if tags := gitOutput(t, dir, "tag"); strings.Contains(tags, "v2.0.0") {
		t.Errorf("no tag may be created after a failed publish, got:\n%s", tags)
	}
}
