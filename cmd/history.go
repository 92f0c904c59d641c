package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/ytsync/internal/formatter"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/repositories"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints recorded runs, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd, false)
	if err != nil {
		return err
	}

	db, repo, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repo.List(map[string]any{
		"playlist_id": cmd.String("playlist"),
		"limit":       cmd.Int("limit"),
	})
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded\n")
	}

	r.writePlainHeader(fmt.Sprintf("Sync runs (%d)", len(runs)))
	for _, run := range runs {
		c := run.Counts()
		r.writePlain("#%-4d %s  %-22s %-10s dl=%d failed=%d skipped=%d removed=%d  %s\n",
			run.Sequence(),
			run.StartedAt().Local().Format("2006-01-02 15:04"),
			formatter.StatusString(run),
			formatter.FormatDuration(run.Duration()),
			c.Downloaded, c.Failed, c.Skipped, c.Removed,
			run.PlaylistID(),
		)
	}
	return nil
}

// HistoryShow renders one run with its items as text, markdown or CSV.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd, false)
	if err != nil {
		return err
	}

	db, repo, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(repo, cmd.StringArg("run"), config.PlaylistID)
	if err != nil {
		return err
	}

	items, err := repo.Items(run.ID())
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if output := cmd.String("output"); output != "" {
		path, err := formatter.WriteReport(format, run, items, output)
		if err != nil {
			return err
		}
		r.logger.Info("report written", "path", path, "format", format)
		return r.writePlain("Wrote report to %s\n", path)
	}

	data, err := formatter.Render(format, run, items)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// HistoryDelete hides a run from the history.
func (r *Runner) HistoryDelete(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("run")
	if ref == "" {
		return fmt.Errorf("%w: run", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd, false)
	if err != nil {
		return err
	}

	db, repo, err := r.openHistory(config)
	if err != nil {
		return err
	}
	defer db.Close()

	run, err := findRun(repo, ref, config.PlaylistID)
	if err != nil {
		return err
	}
	if err := repo.Delete(run.ID()); err != nil {
		return err
	}
	return r.writePlain("Deleted run #%d\n", run.Sequence())
}

// HistoryMigrate applies pending migrations, or rolls back the latest one.
func (r *Runner) HistoryMigrate(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd, false)
	if err != nil {
		return err
	}

	path := config.Database.Path
	if path == "" {
		path = shared.DefaultDatabasePath()
	}

	r.logger.Info("initializing database", "path", path)
	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		if err := shared.RollbackMigration(db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
	} else if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := shared.CurrentVersion(db)
	if err != nil {
		return err
	}
	return r.writePlain("History schema at version %d (%s)\n", version, path)
}

// findRun resolves a run by sequence number, id, or "latest" (the default) for playlistID.
func findRun(repo *repositories.RunRepository, ref, playlistID string) (*models.SyncRun, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" || ref == "latest" {
		return repo.Latest(playlistID)
	}
	if seq, err := strconv.Atoi(ref); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}
