// Package tagger writes ID3 metadata into the tracks of a directory, either by running an external
// tool such as mp3tags ([ExecTagger]) or in-process with id3v2 ([ID3Tagger]).
package tagger

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytsync/internal/shared"
)

const DefaultCommand = "mp3tags"

// Tagger tags every track in dir and returns a human readable log of what it did.
type Tagger interface {
	Tag(ctx context.Context, dir string) (string, error)
}

// New returns the backend named by backend ("id3" or "exec").
func New(backend, command string, fallbacks []string) (Tagger, error) {
	switch backend {
	case "", shared.TaggerID3:
		return NewID3Tagger(), nil
	case shared.TaggerExec:
		return NewExecTagger(command, fallbacks...), nil
	default:
		return nil, fmt.Errorf("%w: unknown tagger backend %q", shared.ErrInvalidConfig, backend)
	}
}

// ParseArtistTitle splits a file stem of the form "Artist - Title" on the first "-".
//
// Without a delimiter the whole stem is the title and artist is empty.
func ParseArtistTitle(stem string) (artist, title string) {
	before, after, found := strings.Cut(stem, "-")
	if !found {
		return "", strings.TrimSpace(stem)
	}

	artist, title = strings.TrimSpace(before), strings.TrimSpace(after)
	if artist == "" || title == "" {
		return "", strings.TrimSpace(stem)
	}
	return artist, title
}
