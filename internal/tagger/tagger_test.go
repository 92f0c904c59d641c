package tagger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/ytsync/internal/shared"
)

func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}

	path := filepath.Join(t.TempDir(), "fake-mp3tags")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}

func TestParseArtistTitle(t *testing.T) {
	tests := []struct {
		stem       string
		wantArtist string
		wantTitle  string
	}{
		{stem: "Artist - Title", wantArtist: "Artist", wantTitle: "Title"},
		{stem: "AC-DC - Thunderstruck", wantArtist: "AC", wantTitle: "DC - Thunderstruck"},
		{stem: "NoDelimiter", wantArtist: "", wantTitle: "NoDelimiter"},
		{stem: "- Leading", wantArtist: "", wantTitle: "- Leading"},
		{stem: "Trailing -", wantArtist: "", wantTitle: "Trailing -"},
	}

	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			artist, title := ParseArtistTitle(tt.stem)
			if artist != tt.wantArtist || title != tt.wantTitle {
				t.Errorf("ParseArtistTitle(%q) = (%q, %q), want (%q, %q)", tt.stem, artist, title, tt.wantArtist, tt.wantTitle)
			}
		})
	}
}

func TestID3Tagger(t *testing.T) {
	t.Run("tags mp3 files", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"Artist - Song.mp3", "Solo.mp3", "notes.txt"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("not really audio"), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		out, err := NewID3Tagger().Tag(context.Background(), dir)
		if err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
		if strings.Count(out, "tagged ") != 2 {
			t.Errorf("expected two tagged lines, got %q", out)
		}

		tag, err := id3v2.Open(filepath.Join(dir, "Artist - Song.mp3"), id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen tag: %v", err)
		}
		defer tag.Close()

		if tag.Artist() != "Artist" || tag.Title() != "Song" {
			t.Errorf("expected Artist/Song, got %q/%q", tag.Artist(), tag.Title())
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewID3Tagger().Tag(context.Background(), filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, shared.ErrTaggingFailed) {
			t.Errorf("expected ErrTaggingFailed, got %v", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewID3Tagger().Tag(ctx, dir); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestExecTagger(t *testing.T) {
	t.Run("runs tool with directory", func(t *testing.T) {
		tool := fakeTool(t, `echo "tagging $1 $2"`)

		out, err := NewExecTagger(tool).Tag(context.Background(), "/music")
		if err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
		if strings.TrimSpace(out) != "tagging -p /music" {
			t.Errorf("unexpected output %q", out)
		}
	})

	t.Run("uses fallback", func(t *testing.T) {
		tool := fakeTool(t, `exit 0`)

		path, err := NewExecTagger("ytsync-no-such-tagger", tool).Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if path != tool {
			t.Errorf("Resolve() = %s, want %s", path, tool)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := NewExecTagger("ytsync-no-such-tagger", filepath.Join(t.TempDir(), "nope")).Tag(context.Background(), "/music")
		if !errors.Is(err, shared.ErrTaggerNotFound) {
			t.Errorf("expected ErrTaggerNotFound, got %v", err)
		}
	})

	t.Run("tool failure keeps output", func(t *testing.T) {
		tool := fakeTool(t, `echo "bad frame" >&2; exit 2`)

		out, err := NewExecTagger(tool).Tag(context.Background(), "/music")
		if !errors.Is(err, shared.ErrTaggingFailed) {
			t.Fatalf("expected ErrTaggingFailed, got %v", err)
		}
		if !strings.Contains(out, "bad frame") {
			t.Errorf("expected stderr in output, got %q", out)
		}
	})

	t.Run("default command", func(t *testing.T) {
		if got := NewExecTagger("").command; got != DefaultCommand {
			t.Errorf("expected %s, got %s", DefaultCommand, got)
		}
	})
}

func TestNew(t *testing.T) {
	if tg, err := New("", "", nil); err != nil {
		t.Fatalf("New() error = %v", err)
	} else if _, ok := tg.(*ID3Tagger); !ok {
		t.Errorf("expected *ID3Tagger by default, got %T", tg)
	}

	if tg, err := New(shared.TaggerExec, "mp3tags", []string{"/usr/bin/mp3tags"}); err != nil {
		t.Fatalf("New() error = %v", err)
	} else if _, ok := tg.(*ExecTagger); !ok {
		t.Errorf("expected *ExecTagger, got %T", tg)
	}

	if _, err := New("taglib", "", nil); !errors.Is(err, shared.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
