package downloader

import (
	"context"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/lrstanley/go-ytdlp"
)

// YtdlpDownloader downloads through the go-ytdlp command builder.
type YtdlpDownloader struct {
	opts Options
}

// NewYtdlpDownloader creates a go-ytdlp backed downloader.
func NewYtdlpDownloader(opts Options) *YtdlpDownloader {
	return &YtdlpDownloader{opts: opts}
}

func (d *YtdlpDownloader) command(destDir string) *ytdlp.Command {
	cmd := ytdlp.New().
		ExtractAudio().
		AudioFormat(d.opts.audioFormat()).
		Output(outputPath(destDir))

	if d.opts.Command != "" {
		cmd = cmd.SetExecutable(d.opts.Command)
	}
	return cmd
}

// Download runs yt-dlp for item and waits for it to exit.
func (d *YtdlpDownloader) Download(ctx context.Context, item models.RemoteItem, destDir string) error {
	cmdCtx, cancel := withTimeout(ctx, d.opts.Timeout)
	defer cancel()

	args := append(append([]string{}, d.opts.ExtraArgs...), item.URL())
	res, err := d.command(destDir).Run(cmdCtx, args...)
	if err != nil {
		dlErr := &DownloadError{Item: item, Err: err}
		if res != nil {
			dlErr.ExitCode = res.ExitCode
			dlErr.Stderr = tail(res.Stderr)
		}
		if cmdCtx.Err() != nil {
			dlErr.Err = cmdCtx.Err()
		}
		return dlErr
	}
	return nil
}
