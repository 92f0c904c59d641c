package tagger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/desertthunder/ytsync/internal/shared"
)

// ID3Tagger writes artist and title frames into every .mp3 file of a directory, deriving them from
// the file name.
type ID3Tagger struct{}

func NewID3Tagger() *ID3Tagger {
	return &ID3Tagger{}
}

// Tag tags each mp3 in dir. A file that cannot be tagged is reported and the rest are still tagged.
func (t *ID3Tagger) Tag(ctx context.Context, dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrTaggingFailed, err)
	}

	var out strings.Builder
	var errs []error
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return out.String(), err
		}

		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".mp3") {
			continue
		}

		artist, title, err := tagFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(&out, "failed %s: %v\n", name, err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		if artist == "" {
			fmt.Fprintf(&out, "tagged %s: title=%q\n", name, title)
		} else {
			fmt.Fprintf(&out, "tagged %s: artist=%q title=%q\n", name, artist, title)
		}
	}

	if len(errs) > 0 {
		return out.String(), fmt.Errorf("%w: %w", shared.ErrTaggingFailed, errors.Join(errs...))
	}
	return out.String(), nil
}

func tagFile(path string) (artist, title string, err error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	artist, title = ParseArtistTitle(stem)

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return "", "", fmt.Errorf("failed to open tag: %w", err)
	}
	defer tag.Close()

	tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	tag.SetTitle(title)
	if artist != "" {
		tag.SetArtist(artist)
	}

	if err := tag.Save(); err != nil {
		return "", "", fmt.Errorf("failed to save tag: %w", err)
	}
	return artist, title, nil
}
