package sync

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// newTestRepo creates a bare remote and a clone with one commit on main,
// returning the clone's path.
func newTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not found in PATH")
	}

	remoteDir := t.TempDir()
	run(t, remoteDir, "git", "init", "--bare")

	workDir := t.TempDir()
	run(t, workDir, "git", "clone", remoteDir, "repo")
	repoDir := filepath.Join(workDir, "repo")

	// Git needs user identity for commits.
	run(t, repoDir, "git", "config", "user.email", "scouts@example.com")
	run(t, repoDir, "git", "config", "user.name", "Scouts")
	run(t, repoDir, "git", "branch", "-m", "main")

	if err := os.WriteFile(filepath.Join(repoDir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	run(t, repoDir, "git", "add", ".")
	run(t, repoDir, "git", "commit", "-m", "init")
	run(t, repoDir, "git", "push", "origin", "main")
	return repoDir
}

func newQuietGitDestination(repo, dir string) *GitDestination {
	d := NewGitDestination(repo, dir, "main")
	d.output = io.Discard
	return d
}

func TestGitDestination(t *testing.T) {
	repoDir := newTestRepo(t)
	dest := newQuietGitDestination(repoDir, "")
	ctx := context.Background()

	first := []byte(`{"sections": []}` + "\n")
	if err := dest.Write(ctx, "QRScout_config.json", first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(repoDir, "QRScout_config.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(first) {
		t.Fatalf("file content mismatch: got %q", got)
	}
	if n := commitCount(t, repoDir); n != 2 {
		t.Fatalf("commit count = %d, want 2", n)
	}

	// Same data: no commit.
	if err := dest.Write(ctx, "QRScout_config.json", first); err != nil {
		t.Fatalf("second write (no-op): %v", err)
	}
	if n := commitCount(t, repoDir); n != 2 {
		t.Errorf("unchanged snapshot made a commit (count = %d)", n)
	}

	second := []byte(`{"title": "Crescendo", "sections": []}` + "\n")
	if err := dest.Write(ctx, "QRScout_config.json", second); err != nil {
		t.Fatalf("third write: %v", err)
	}
	if n := commitCount(t, repoDir); n != 3 {
		t.Errorf("commit count = %d, want 3", n)
	}
	if msg := gitOutput(t, repoDir, "log", "-1", "--format=%s"); msg != CommitMessage {
		t.Errorf("commit message = %q, want %q", msg, CommitMessage)
	}
	if pushed := gitOutput(t, repoDir, "rev-parse", "origin/main"); pushed != gitOutput(t, repoDir, "rev-parse", "HEAD") {
		t.Error("snapshot commit was not pushed")
	}
}

func TestGitDestination_SubDirectory(t *testing.T) {
	repoDir := newTestRepo(t)
	dest := newQuietGitDestination(repoDir, "forms/2024")

	data := []byte(`{"sections": []}` + "\n")
	if err := dest.Write(context.Background(), "Crescendo_config.json", data); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(repoDir, "forms", "2024", "Crescendo_config.json"))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("content mismatch: got %q", got)
	}
	if !strings.HasSuffix(dest.String(), "@main") {
		t.Errorf("String() = %q", dest.String())
	}
}

func commitCount(t *testing.T, dir string) int {
	t.Helper()
	return len(strings.Split(gitOutput(t, dir, "rev-list", "HEAD"), "\n"))
}

func gitOutput(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("git %v failed: %v", args, err)
	}
	return strings.TrimSpace(string(out))
}

func run(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("%s %v failed: %v", name, args, err)
	}
}
