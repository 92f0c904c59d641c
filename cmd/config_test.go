package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsync/internal/shared"
	tu "github.com/desertthunder/ytsync/internal/testing"
)

func TestConfigCommands(t *testing.T) {
	t.Run("init", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ytsync", "config.toml")

		runner, output := newTestRunner(RunnerOpts{})
		if err := run(runner, "--config", path, "config", "init"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		tu.AssertDirExists(t, filepath.Dir(path))
		tu.AssertFileExists(t, path)
		if !strings.Contains(output.String(), "Created default config at "+path) {
			t.Errorf("unexpected output: %s", output.String())
		}

		content := tu.MustReadFile(t, path)
		if !strings.Contains(content, shared.PlaceholderPlaylistID) {
			t.Errorf("expected placeholder playlist id in %s", content)
		}

		t.Run("refuses to overwrite", func(t *testing.T) {
			runner, _ := newTestRunner(RunnerOpts{})
			err := run(runner, "--config", path, "config", "init")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("force overwrites", func(t *testing.T) {
			if err := os.WriteFile(path, []byte("playlist_id = \"edited\"\n"), 0o644); err != nil {
				t.Fatal(err)
			}
			runner, _ := newTestRunner(RunnerOpts{})
			if err := run(runner, "--config", path, "config", "init", "--force"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.Contains(tu.MustReadFile(t, path), "edited") {
				t.Error("expected file to be rewritten")
			}
		})
	})

	t.Run("show masks secrets", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		data := `{"playlistID": "PL123", "googleAPIKey": "abcdefgh1234", "destination": "/srv/music", "accessToken": "tok"}`
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}

		runner, output := newTestRunner(RunnerOpts{})
		if err := run(runner, "-c", path, "config", "show"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := output.String()
		if strings.Contains(out, "abcdefgh1234") {
			t.Errorf("expected API key to be masked, got:\n%s", out)
		}
		for _, want := range []string{"********1234", `"accessToken": "***"`, `"playlistID": "PL123"`, "/srv/music"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("show without config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.json")
		runner, _ := newTestRunner(RunnerOpts{})

		err := run(runner, "--config", path, "config", "show")
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
		if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
			t.Error("expected show not to create a config file")
		}
	})
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{shared.PlaceholderAPIKey, shared.PlaceholderAPIKey},
		{"abc", "***"},
		{"abcdef", "**cdef"},
	}

	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
