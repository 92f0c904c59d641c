package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/ytsync/internal/shared"
	tu "github.com/desertthunder/ytsync/internal/testing"
)

// syncedRunner returns a runner whose history holds two runs of PL123.
func syncedRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	config := testConfig(t)
	runner, output := newTestRunner(RunnerOpts{
		Config:     config,
		Source:     tu.NewMockPlaylist("Song A", "Song B"),
		Downloader: &tu.MockDownloader{},
	})

	for range 2 {
		if err := run(runner); err != nil {
			t.Fatalf("sync failed: %v", err)
		}
	}
	output.Reset()
	return runner, output
}

func TestHistoryCommands(t *testing.T) {
	t.Run("list empty", func(t *testing.T) {
		runner, output := newTestRunner(RunnerOpts{Config: testConfig(t)})
		if err := run(runner, "history", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "No runs recorded") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("list", func(t *testing.T) {
		runner, output := syncedRunner(t)

		if err := run(runner, "history", "list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Sync runs (2)") {
			t.Errorf("expected two runs, got:\n%s", out)
		}
		if strings.Index(out, "#2") > strings.Index(out, "#1") {
			t.Errorf("expected newest run first, got:\n%s", out)
		}
		if !strings.Contains(out, "dl=2") || !strings.Contains(out, "skipped=2") {
			t.Errorf("expected counters, got:\n%s", out)
		}
	})

	t.Run("list with limit", func(t *testing.T) {
		runner, output := syncedRunner(t)

		if err := run(runner, "history", "list", "--limit", "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "Sync runs (1)") {
			t.Errorf("expected one run, got:\n%s", output.String())
		}
	})

	t.Run("show", func(t *testing.T) {
		tests := []struct {
			name string
			args []string
			want []string
		}{
			{"latest text", []string{"history", "show"}, []string{"Run #2", "skip"}},
			{"by sequence", []string{"history", "show", "1"}, []string{"Run #1", "download", "Song A"}},
			{"markdown", []string{"history", "show", "--format", "md", "#1"}, []string{"# Run #1", "Song A"}},
		}

		runner, output := syncedRunner(t)

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				output.Reset()
				if err := run(runner, tt.args...); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				for _, want := range tt.want {
					if !strings.Contains(output.String(), want) {
						t.Errorf("expected %q in:\n%s", want, output.String())
					}
				}
			})
		}

		t.Run("csv to file", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.csv")
			if err := run(runner, "history", "show", "-f", "csv", "-o", path, "1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tu.AssertFileExists(t, path)

			records, err := csv.NewReader(strings.NewReader(tu.MustReadFile(t, path))).ReadAll()
			if err != nil {
				t.Fatalf("report is not valid CSV: %v", err)
			}
			if len(records) != 3 {
				t.Errorf("expected header and two items, got %d records", len(records))
			}
		})

		t.Run("unknown format", func(t *testing.T) {
			err := run(runner, "history", "show", "--format", "xml", "1")
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})

		t.Run("missing run", func(t *testing.T) {
			err := run(runner, "history", "show", "99")
			if !errors.Is(err, shared.ErrRunNotFound) {
				t.Errorf("expected ErrRunNotFound, got %v", err)
			}
		})
	})

	t.Run("delete", func(t *testing.T) {
		runner, _ := syncedRunner(t)

		if err := run(runner, "history", "delete", "1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := run(runner, "history", "show", "1"); !errors.Is(err, shared.ErrRunNotFound) {
			t.Errorf("expected deleted run to be hidden, got %v", err)
		}
		if err := run(runner, "history", "delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("migrate", func(t *testing.T) {
		runner, output := newTestRunner(RunnerOpts{Config: testConfig(t)})

		if err := run(runner, "history", "migrate"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(output.String(), "History schema at version") {
			t.Errorf("unexpected output: %s", output.String())
		}

		if err := run(runner, "history", "migrate", "--rollback"); err != nil {
			t.Fatalf("unexpected rollback error: %v", err)
		}
	})
}
