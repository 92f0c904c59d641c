package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

var song = models.RemoteItem{Title: "Artist - Song", ResourceID: "abc123"}

// fakeTool writes an executable shell script into a temp dir and returns its path.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "fake-ytdl")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

func TestExecDownloader(t *testing.T) {
	t.Run("Args", func(t *testing.T) {
		d := NewExecDownloader(Options{ExtraArgs: []string{"--no-playlist"}})
		got := d.Args(song, "/music")
		want := []string{
			"--extract-audio",
			"--audio-format", "mp3",
			"--output", filepath.Join("/music", OutputTemplate),
			"--no-playlist",
			"https://youtube.com/watch?v=abc123",
		}
		if !slices.Equal(got, want) {
			t.Errorf("Args() = %v, want %v", got, want)
		}
	})

	t.Run("custom audio format", func(t *testing.T) {
		got := NewExecDownloader(Options{AudioFormat: "opus"}).Args(song, "/music")
		if got[2] != "opus" {
			t.Errorf("expected audio format opus, got %s", got[2])
		}
	})

	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		argsFile := filepath.Join(dir, "args")
		tool := fakeTool(t, `echo "$@" > `+argsFile+`; echo progress; echo warning >&2; exit 0`)

		d := NewExecDownloader(Options{Command: tool})
		if err := d.Download(context.Background(), song, dir); err != nil {
			t.Fatalf("Download() error = %v", err)
		}

		data, err := os.ReadFile(argsFile)
		if err != nil {
			t.Fatalf("expected tool to record args: %v", err)
		}
		if !strings.Contains(string(data), "https://youtube.com/watch?v=abc123") {
			t.Errorf("expected url in args, got %s", data)
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		tool := fakeTool(t, `echo "ERROR: Video unavailable" >&2; exit 3`)

		err := NewExecDownloader(Options{Command: tool}).Download(context.Background(), song, t.TempDir())
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Fatalf("expected ErrDownloadFailed, got %v", err)
		}

		var dlErr *DownloadError
		if !errors.As(err, &dlErr) {
			t.Fatalf("expected *DownloadError, got %T", err)
		}
		if dlErr.ExitCode != 3 {
			t.Errorf("expected exit code 3, got %d", dlErr.ExitCode)
		}
		if !strings.Contains(dlErr.Stderr, "Video unavailable") {
			t.Errorf("expected stderr to be captured, got %q", dlErr.Stderr)
		}
		if dlErr.Item != song {
			t.Errorf("expected item to be attached")
		}
	})

	t.Run("missing tool", func(t *testing.T) {
		d := NewExecDownloader(Options{Command: filepath.Join(t.TempDir(), "missing")})
		if err := d.Download(context.Background(), song, t.TempDir()); !errors.Is(err, shared.ErrDownloadFailed) {
			t.Errorf("expected ErrDownloadFailed, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		tool := fakeTool(t, `exec sleep 5`)

		d := NewExecDownloader(Options{Command: tool, Timeout: 50 * time.Millisecond})
		err := d.Download(context.Background(), song, t.TempDir())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestYtdlpDownloader(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		dir := t.TempDir()
		argsFile := filepath.Join(dir, "args")
		tool := fakeTool(t, `echo "$@" > `+argsFile+`; exit 0`)

		d := NewYtdlpDownloader(Options{Command: tool, AudioFormat: "opus", ExtraArgs: []string{"--no-playlist"}})
		if err := d.Download(context.Background(), song, dir); err != nil {
			t.Fatalf("Download() error = %v", err)
		}

		data, err := os.ReadFile(argsFile)
		if err != nil {
			t.Fatalf("expected tool to record args: %v", err)
		}
		args := string(data)
		for _, want := range []string{
			"--extract-audio",
			"--audio-format opus",
			"--output " + filepath.Join(dir, OutputTemplate),
			"--no-playlist https://youtube.com/watch?v=abc123",
		} {
			if !strings.Contains(args, want) {
				t.Errorf("expected %q in args, got %s", want, args)
			}
		}
	})

	t.Run("non-zero exit", func(t *testing.T) {
		tool := fakeTool(t, `echo "ERROR: Private video" >&2; exit 3`)

		err := NewYtdlpDownloader(Options{Command: tool}).Download(context.Background(), song, t.TempDir())
		if !errors.Is(err, shared.ErrDownloadFailed) {
			t.Fatalf("expected ErrDownloadFailed, got %v", err)
		}

		var dlErr *DownloadError
		if !errors.As(err, &dlErr) {
			t.Fatalf("expected *DownloadError, got %T", err)
		}
		if dlErr.ExitCode != 3 {
			t.Errorf("expected exit code 3, got %d", dlErr.ExitCode)
		}
		if !strings.Contains(dlErr.Stderr, "Private video") {
			t.Errorf("expected stderr to be captured, got %q", dlErr.Stderr)
		}
		if dlErr.Item != song {
			t.Errorf("expected item to be attached")
		}
	})

	t.Run("timeout", func(t *testing.T) {
		tool := fakeTool(t, `exec sleep 5`)

		d := NewYtdlpDownloader(Options{Command: tool, Timeout: 50 * time.Millisecond})
		err := d.Download(context.Background(), song, t.TempDir())
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{backend: "", want: "*downloader.ExecDownloader"},
		{backend: shared.DownloaderExec, want: "*downloader.ExecDownloader"},
		{backend: shared.DownloaderYtdlp, want: "*downloader.YtdlpDownloader"},
		{backend: "wget", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			d, err := New(tt.backend, Options{})
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := typeName(d); got != tt.want {
				t.Errorf("New() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDownloadError(t *testing.T) {
	err := &DownloadError{Item: song, ExitCode: 1, Stderr: "  boom\n", Err: errors.New("exit status 1")}
	want := `download of "Artist - Song" failed (exit 1): exit status 1: boom`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestTail(t *testing.T) {
	long := strings.Repeat("a", stderrTail) + "end"
	if got := tail(long); len(got) != stderrTail || !strings.HasSuffix(got, "end") {
		t.Errorf("tail() kept %d bytes", len(got))
	}
	if tail("short") != "short" {
		t.Error("expected short strings to be unchanged")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *ExecDownloader:
		return "*downloader.ExecDownloader"
	case *YtdlpDownloader:
		return "*downloader.YtdlpDownloader"
	}
	return "unknown"
}
