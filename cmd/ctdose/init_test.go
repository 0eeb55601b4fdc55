package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestInitCmd tests the init command.
func TestInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".ctdose")
		cmd := NewInitCmd()
		cmd.SetArgs([]string{"--output", path})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read created file: %v", err)
		}
		for _, want := range []string{"concurrency", "maxDepth", "history"} {
			if !strings.Contains(string(content), want) {
				t.Errorf("expected template to mention %q", want)
			}
		}
	})

	t.Run("refuses to overwrite existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".ctdose")
		if err := os.WriteFile(path, []byte("existing: true\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"--output", path})

		if err := cmd.Execute(); err == nil {
			t.Error("expected error when file exists")
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(content) != "existing: true\n" {
			t.Error("existing file was modified")
		}
	})

	t.Run("force overwrites existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".ctdose")
		if err := os.WriteFile(path, []byte("existing: true\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewInitCmd()
		cmd.SetArgs([]string{"--output", path, "--force"})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(content), "concurrency") {
			t.Error("expected file to be replaced with the template")
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
		cmd := NewInitCmd()
		cmd.SetArgs([]string{"--output", path})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})
}
