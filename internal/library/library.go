// Package library lists and prunes the tracks stored in the destination directory.
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

// Scanner lists the regular files of a destination directory.
//
// Hidden files and subdirectories are never listed. When Extensions is non-empty only files
// with one of those extensions (compared case-insensitively, with the leading dot) are listed.
type Scanner struct {
	Extensions []string
}

// NewScanner creates a scanner restricted to extensions, or unrestricted when none are given.
func NewScanner(extensions ...string) *Scanner {
	normalized := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return &Scanner{Extensions: normalized}
}

// Scan returns the files in dir sorted by name, creating dir when it does not exist yet.
func (s *Scanner) Scan(dir string) ([]models.LocalFile, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create destination: %w", err)
		}
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to stat destination: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s", shared.ErrDestinationInvalid, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read destination: %w", err)
	}

	var files []models.LocalFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !s.accepts(entry.Name()) {
			continue
		}

		fi, err := entry.Info()
		if err != nil {
			// Entry vanished between ReadDir and Info.
			continue
		}
		files = append(files, models.LocalFile{Name: entry.Name(), Size: fi.Size(), ModTime: fi.ModTime()})
	}

	return files, nil
}

func (s *Scanner) accepts(name string) bool {
	if len(s.Extensions) == 0 {
		return true
	}
	return slices.Contains(s.Extensions, strings.ToLower(filepath.Ext(name)))
}

// Remove deletes name from dir. A file that no longer exists yields [shared.ErrFileNotFound].
func Remove(dir, name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("%w: refusing to remove %q", shared.ErrInvalidArgument, name)
	}

	if err := os.Remove(filepath.Join(dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", shared.ErrFileNotFound, name)
		}
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
