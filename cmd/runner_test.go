package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tagger"
	tu "github.com/desertthunder/ytsync/internal/testing"
)

// testConfig returns a valid config pointing at fresh temp directories.
func testConfig(t *testing.T) *shared.Config {
	t.Helper()
	config := shared.DefaultConfig()
	config.PlaylistID = "PL123"
	config.APIKey = "test-key"
	config.Destination = t.TempDir()
	config.Database.Enabled = true
	config.Database.Path = filepath.Join(t.TempDir(), "history.db")
	return config
}

func newTestRunner(opts RunnerOpts) (*Runner, *bytes.Buffer) {
	output := &bytes.Buffer{}
	if opts.Output == nil {
		opts.Output = output
	}
	opts.Logger = shared.NewLogger(io.Discard)
	return NewRunner(opts), output
}

func run(r *Runner, args ...string) error {
	return r.app().Run(context.Background(), append([]string{"ytsync"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := tu.NewMockPlaylist("a")
			dl := &tu.MockDownloader{}
			tg := &tu.MockTagger{}

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				Source:     source,
				Downloader: dl,
				Tagger:     tg,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.downloader != dl {
				t.Error("expected downloader to be set")
			}
			if runner.tagger != tg {
				t.Error("expected tagger to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil config defers loading", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config != nil {
				t.Error("expected config to be loaded lazily")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner, _ := newTestRunner(RunnerOpts{})
		names := map[string]bool{}
		for _, c := range runner.register() {
			names[c.Name] = true
		}
		for _, want := range []string{"sync", "config", "history"} {
			if !names[want] {
				t.Errorf("expected %s command to be registered", want)
			}
		}
	})

	t.Run("playlistService", func(t *testing.T) {
		t.Run("api source", func(t *testing.T) {
			runner, _ := newTestRunner(RunnerOpts{})
			svc := runner.playlistService(&shared.Config{Source: shared.SourceAPI, APIKey: "k"})
			if _, ok := svc.(*services.YouTubeService); !ok {
				t.Errorf("expected *services.YouTubeService, got %T", svc)
			}
		})

		t.Run("innertube source", func(t *testing.T) {
			runner, _ := newTestRunner(RunnerOpts{})
			svc := runner.playlistService(&shared.Config{Source: shared.SourceInnertube})
			if _, ok := svc.(*services.InnertubeService); !ok {
				t.Errorf("expected *services.InnertubeService, got %T", svc)
			}
		})

		t.Run("injected source wins", func(t *testing.T) {
			source := tu.NewMockPlaylist()
			runner, _ := newTestRunner(RunnerOpts{Source: source})
			if runner.playlistService(&shared.Config{}) != source {
				t.Error("expected injected source")
			}
		})
	})

	t.Run("mediaDownloader", func(t *testing.T) {
		runner, _ := newTestRunner(RunnerOpts{})
		config := shared.DefaultConfig()
		config.Downloader.Backend = "wget"
		if _, err := runner.mediaDownloader(config); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("fileTagger", func(t *testing.T) {
		runner, _ := newTestRunner(RunnerOpts{})
		config := shared.DefaultConfig()
		config.Tagger.Backend = shared.TaggerExec
		tg, err := runner.fileTagger(config)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := tg.(*tagger.ExecTagger); !ok {
			t.Errorf("expected *tagger.ExecTagger, got %T", tg)
		}
	})

	t.Run("resolveConfigPath", func(t *testing.T) {
		t.Run("flag wins", func(t *testing.T) {
			runner, output := newTestRunner(RunnerOpts{ConfigPath: "/from/opts.json"})
			if err := run(runner, "--config", "/from/flag.toml", "config", "path"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(output.String()) != "/from/flag.toml" {
				t.Errorf("expected flag path, got %q", output.String())
			}
		})

		t.Run("runner path", func(t *testing.T) {
			runner, output := newTestRunner(RunnerOpts{ConfigPath: "/from/opts.json"})
			if err := run(runner, "config", "path"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(output.String()) != "/from/opts.json" {
				t.Errorf("expected runner path, got %q", output.String())
			}
		})

		t.Run("default", func(t *testing.T) {
			runner, output := newTestRunner(RunnerOpts{})
			if err := run(runner, "config", "path"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strings.TrimSpace(output.String()) != shared.DefaultConfigPath() {
				t.Errorf("expected default path, got %q", output.String())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			runner, output := newTestRunner(RunnerOpts{})
			if err := runner.writePlain("Hello %s\n", "World"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.String() != "Hello World\n" {
				t.Errorf("expected 'Hello World\\n', got %q", output.String())
			}
		})

		t.Run("write error", func(t *testing.T) {
			runner, _ := newTestRunner(RunnerOpts{Output: &tu.FWriter{}})
			if err := runner.writePlain("test"); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlainln", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			runner, output := newTestRunner(RunnerOpts{})
			if err := runner.writePlainln("Test %d", 123); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if output.String() != "\nTest 123\n" {
				t.Errorf("expected '\\nTest 123\\n', got %q", output.String())
			}
		})

		t.Run("write error", func(t *testing.T) {
			lw := tu.NewLimitedWriter(0, 0, &bytes.Buffer{})
			runner, _ := newTestRunner(RunnerOpts{Output: &lw})
			if err := runner.writePlainln("test"); err == nil {
				t.Error("expected error from limited writer")
			}
		})
	})
}
