package main

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/reconcile"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	"github.com/urfave/cli/v3"
)

const decodeErrorMessage = "Error: Could not decode JSON response, ensure config.json is setup properly"

// Sync mirrors the configured playlist into the destination directory.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	verbose := cmd.Bool("verbose")
	if verbose {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config, err := r.loadConfig(cmd, true)
	if err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	opts := tasks.RunOptions{Simulate: cmd.Bool("simulate"), Tag: cmd.Bool("id3tag")}

	source := r.playlistService(config)
	dl, err := r.mediaDownloader(config)
	if err != nil {
		return err
	}

	engine := tasks.NewSyncEngine(tasks.Options{
		PlaylistID:  config.PlaylistID,
		Destination: config.Destination,
		Matcher:     reconcile.Matcher{FoldCase: config.Match.FoldCase, StripTitleExt: config.Match.StripTitleExt},
		Extensions:  config.Library.Extensions,
		Interval:    config.Downloader.Interval.Std(),
	}, source, dl).WithLogger(shared.WithLogger(r.logger, "component", "sync"))

	if opts.Tag {
		t, err := r.fileTagger(config)
		if err != nil {
			return err
		}
		engine.WithTagger(t)
	}

	if config.Database.Enabled {
		db, repo, err := r.openHistory(config)
		if err != nil {
			r.logger.Warn("run history disabled", "error", err)
		} else {
			defer db.Close()
			engine.WithRecorder(repo)
		}
	}

	r.logger.Info("starting sync", "playlist", config.PlaylistID, "destination", config.Destination, "source", source.Name())

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update, verbose)
		}
	}()

	result, err := engine.Run(ctx, opts, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		var apiErr *services.APIError
		switch {
		case errors.As(err, &apiErr):
			r.writePlain("%s\n", r.palette.Err("Error: "+apiErr.Error()))
		case errors.Is(err, shared.ErrDecodeResponse):
			r.writePlain("%s\n", r.palette.Err(decodeErrorMessage))
		}
		return err
	}

	if opts.Tag {
		r.printTagResult(result)
	}
	r.printSummary(result)

	if errors.Is(result.TagErr, shared.ErrTaggerNotFound) {
		return result.TagErr
	}
	return nil
}

func (r *Runner) printProgress(update tasks.ProgressUpdate, verbose bool) {
	switch update.Phase {
	case tasks.Download:
		if err, ok := update.Data.(error); ok {
			r.writePlain("%s\n", r.palette.Err(update.Message))
			r.logger.Debug("download error", "error", err)
			return
		}
		r.writePlain("%s\n", update.Message)
	case tasks.Skip:
		if verbose {
			r.writePlain("%s\n", r.palette.Help(update.Message))
		}
	case tasks.Remove:
		if _, ok := update.Data.(error); ok {
			r.writePlain("%s\n", r.palette.Err(update.Message))
			return
		}
		r.writePlain("%s\n", update.Message)
	default:
		r.logger.Debug(update.Message, "phase", update.Phase)
	}
}

func (r *Runner) printTagResult(result *tasks.SyncResult) {
	switch {
	case result.Run.TagStatus() == "":
		return
	case result.TagErr == nil:
		r.writePlain("%s\n", r.palette.OK("ID3 Tagged Files"))
	case errors.Is(result.TagErr, shared.ErrTaggerNotFound):
		r.writePlain("%s\n", r.palette.Err(result.TagErr.Error()))
	default:
		r.writePlain("%s\n", r.palette.Err("Failed to tag files"))
		if out := strings.TrimSpace(result.TagOutput); out != "" {
			r.writePlain("%s\n", out)
		}
	}
	r.logger.Debug("tag output", "output", result.TagOutput)
}

func (r *Runner) printSummary(result *tasks.SyncResult) {
	run := result.Run
	c := result.Counts

	r.writePlain("\n")
	if run.Simulate() {
		r.writePlainHeader("Sync Complete (simulated)")
	} else {
		r.writePlainHeader("Sync Complete!")
	}
	r.writePlain("Playlist: %s (%d items)\n", run.PlaylistID(), c.Remote)
	r.writePlain("Destination: %s\n", run.Destination())
	r.writePlain("Downloaded: %d  Failed: %d  Skipped: %d\n", c.Downloaded, c.Failed, c.Skipped)
	r.writePlain("Removed: %d  Remove failed: %d\n", c.Removed, c.RemoveFailed)
	r.writePlain("Duration: %s\n", formatter.FormatDuration(run.Duration()))
	if run.ID() != "" {
		r.writePlain("Run: #%d\n", run.Sequence())
	}

	if c.Failed > 0 {
		r.writePlain("\nFailed downloads:\n")
		for _, item := range result.Items {
			if item.Action == models.ActionDownload && item.Outcome == models.OutcomeFailed {
				r.writePlain("  - %s (%s)\n", item.Item.Title, item.Item.ResourceID)
			}
		}
	}
}
