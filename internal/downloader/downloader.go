// Package downloader fetches a playlist item and converts it to an audio file in the destination
// directory. [ExecDownloader] runs yt-dlp (or youtube-dl) as a subprocess; [YtdlpDownloader] drives
// yt-dlp through the go-ytdlp command builder.
package downloader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

const (
	DefaultCommand     = "yt-dlp"
	DefaultAudioFormat = "mp3"

	// OutputTemplate names downloaded files after the video title.
	OutputTemplate = "%(title)s.%(ext)s"

	stderrTail = 2048
)

// Downloader fetches one remote item into destDir.
type Downloader interface {
	Download(ctx context.Context, item models.RemoteItem, destDir string) error
}

// Options configure a downloader backend.
type Options struct {
	Command     string
	AudioFormat string
	ExtraArgs   []string
	// Timeout bounds a single download; zero means no limit.
	Timeout time.Duration
}

func (o Options) command() string {
	if o.Command == "" {
		return DefaultCommand
	}
	return o.Command
}

func (o Options) audioFormat() string {
	if o.AudioFormat == "" {
		return DefaultAudioFormat
	}
	return o.AudioFormat
}

// DownloadError reports a failed download.
type DownloadError struct {
	Item     models.RemoteItem
	ExitCode int
	Stderr   string
	Err      error
}

func (e *DownloadError) Error() string {
	msg := fmt.Sprintf("download of %q failed", e.Item.Title)
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s (exit %d)", msg, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, s)
	}
	return msg
}

// Is reports whether target is [shared.ErrDownloadFailed].
func (e *DownloadError) Is(target error) bool {
	return target == shared.ErrDownloadFailed
}

func (e *DownloadError) Unwrap() error { return e.Err }

// New returns the backend named by backend ("exec" or "go-ytdlp").
func New(backend string, opts Options) (Downloader, error) {
	switch backend {
	case "", shared.DownloaderExec:
		return NewExecDownloader(opts), nil
	case shared.DownloaderYtdlp:
		return NewYtdlpDownloader(opts), nil
	default:
		return nil, fmt.Errorf("%w: unknown downloader backend %q", shared.ErrInvalidConfig, backend)
	}
}

func outputPath(destDir string) string {
	return filepath.Join(destDir, OutputTemplate)
}

func tail(s string) string {
	if len(s) <= stderrTail {
		return s
	}
	return s[len(s)-stderrTail:]
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
