package downloader

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/desertthunder/ytsync/internal/models"
)

// ExecDownloader runs a youtube-dl compatible tool for each item.
//
// Only the exit status decides success; output is captured and attached to the error.
type ExecDownloader struct {
	opts Options
}

// NewExecDownloader creates a subprocess downloader.
func NewExecDownloader(opts Options) *ExecDownloader {
	return &ExecDownloader{opts: opts}
}

// Args returns the tool arguments for item.
func (d *ExecDownloader) Args(item models.RemoteItem, destDir string) []string {
	args := []string{
		"--extract-audio",
		"--audio-format", d.opts.audioFormat(),
		"--output", outputPath(destDir),
	}
	args = append(args, d.opts.ExtraArgs...)
	return append(args, item.URL())
}

// Download runs the tool and waits for it to exit.
func (d *ExecDownloader) Download(ctx context.Context, item models.RemoteItem, destDir string) error {
	cmdCtx, cancel := withTimeout(ctx, d.opts.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, d.opts.command(), d.Args(item, destDir)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		dlErr := &DownloadError{Item: item, Stderr: tail(stderr.String()), Err: err}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			dlErr.ExitCode = exitErr.ExitCode()
		}
		if cmdCtx.Err() != nil {
			dlErr.Err = cmdCtx.Err()
		}
		return dlErr
	}

	return nil
}
