package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteStarterConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapgate.yaml")

	wrote, err := writeStarterConfig(path)
	if err != nil || !wrote {
		t.Fatalf("first write = %v, %v", wrote, err)
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "project:") {
		t.Fatalf("starter config = %q, %v", data, err)
	}

	// existing files are never touched
	if err := os.WriteFile(path, []byte("project: mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wrote, err = writeStarterConfig(path)
	if err != nil || wrote {
		t.Fatalf("second write = %v, %v", wrote, err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "project: mine\n" {
		t.Fatalf("existing config overwritten: %q", data)
	}
}

func TestEnsureGitignore(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")

	added, err := ensureGitignore(path)
	if err != nil || added != len(gitignoreEntries) {
		t.Fatalf("fresh file added = %d, %v", added, err)
	}

	// idempotent on rerun
	added, err = ensureGitignore(path)
	if err != nil || added != 0 {
		t.Fatalf("rerun added = %d, %v", added, err)
	}

	data, _ := os.ReadFile(path)
	for _, e := range gitignoreEntries {
		if !strings.Contains(string(data), e) {
			t.Fatalf("missing entry %q in %q", e, data)
		}
	}
}

func TestEnsureGitignore_PreservesExistingLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".gitignore")
	if err := os.WriteFile(path, []byte("node_modules/\n.snapgate/diff/\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	added, err := ensureGitignore(path)
	if err != nil || added != len(gitignoreEntries)-1 {
		t.Fatalf("added = %d, %v", added, err)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "node_modules/\n") {
		t.Fatalf("existing content lost: %q", data)
	}
	if strings.Count(string(data), ".snapgate/diff/") != 1 {
		t.Fatalf("duplicate entry written: %q", data)
	}
}
