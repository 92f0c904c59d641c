// package tasks implements the playlist to directory sync pipeline.
//
// The core abstraction is SyncEngine, which fetches the playlist, reconciles it with the destination
// directory, downloads and removes tracks, tags them and records the run.
// Operations emit progress updates via channels for status reporting to the CLI layer.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsync/internal/downloader"
	"github.com/desertthunder/ytsync/internal/library"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/reconcile"
	"github.com/desertthunder/ytsync/internal/services"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tagger"
	"golang.org/x/time/rate"
)

// Options are the per-playlist settings of a [SyncEngine].
type Options struct {
	PlaylistID  string
	Destination string
	Matcher     reconcile.Matcher
	Extensions  []string
	// Interval is the minimum time between two downloads; zero disables pacing.
	Interval time.Duration
}

// RunOptions are the per-invocation switches of [SyncEngine.Run].
type RunOptions struct {
	Simulate bool // skip downloads
	Tag      bool // run the tag pass
}

// ItemResult is the outcome of one step applied to one item.
type ItemResult struct {
	Action   models.Action
	Outcome  models.Outcome
	Item     models.RemoteItem // set for downloads and skips
	File     models.LocalFile  // set for removals
	Err      error
	Duration time.Duration
}

// SyncResult contains all data from a sync run.
type SyncResult struct {
	Run       *models.SyncRun
	Remote    []models.RemoteItem
	Plan      reconcile.Diff
	Items     []ItemResult
	Counts    models.RunCounts
	TagOutput string
	TagErr    error
}

// RunRecorder persists runs and their items. [repositories.RunRepository] implements it.
type RunRecorder interface {
	Create(run *models.SyncRun) error
	Update(run *models.SyncRun) error
	AddItem(item *models.RunItem) error
}

// SyncEngine runs the sync pipeline for one playlist and destination.
type SyncEngine struct {
	opts       Options
	source     services.PlaylistService
	downloader downloader.Downloader
	tagger     tagger.Tagger
	recorder   RunRecorder
	scanner    *library.Scanner
	limiter    *rate.Limiter
	logger     *log.Logger
	remove     func(dir, name string) error
}

// NewSyncEngine creates a SyncEngine with the provided playlist source and downloader.
func NewSyncEngine(opts Options, source services.PlaylistService, dl downloader.Downloader) *SyncEngine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Interval), 1)
	}

	return &SyncEngine{
		opts:       opts,
		source:     source,
		downloader: dl,
		scanner:    library.NewScanner(opts.Extensions...),
		limiter:    limiter,
		logger:     log.New(io.Discard),
		remove:     library.Remove,
	}
}

// WithTagger sets the tagger used when [RunOptions.Tag] is set.
func (e *SyncEngine) WithTagger(t tagger.Tagger) *SyncEngine {
	e.tagger = t
	return e
}

// WithRecorder enables run history.
func (e *SyncEngine) WithRecorder(r RunRecorder) *SyncEngine {
	e.recorder = r
	return e
}

func (e *SyncEngine) WithLogger(l *log.Logger) *SyncEngine {
	e.logger = l
	return e
}

// sendProgress delivers update, blocking until it is received or ctx is done.
func (e *SyncEngine) sendProgress(ctx context.Context, progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	case <-ctx.Done():
	}
}

// Run performs one sync: fetch, scan, download or skip, rescan, remove, tag and record.
//
// Only fetch and scan failures (and cancellation) are returned as errors; failed downloads, removals
// and tagging are reported in the result.
func (e *SyncEngine) Run(ctx context.Context, opts RunOptions, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}
	if e.downloader == nil && !opts.Simulate {
		return nil, fmt.Errorf("%w: downloader not initialized", shared.ErrServiceUnavailable)
	}

	result := &SyncResult{Run: models.NewSyncRun(0, e.opts.PlaylistID, e.opts.Destination, opts.Simulate)}
	e.record("create run", func(r RunRecorder) error { return r.Create(result.Run) })

	if err := e.run(ctx, opts, progress, result); err != nil {
		e.finish(ctx, progress, result, err)
		return result, err
	}

	e.finish(ctx, progress, result, nil)
	return result, nil
}

func (e *SyncEngine) run(ctx context.Context, opts RunOptions, progress chan<- ProgressUpdate, result *SyncResult) error {
	e.sendProgress(ctx, progress, fetchPlaylistUpdate(e.source.Name()))

	remote, err := e.source.GetPlaylistItems(ctx, e.opts.PlaylistID)
	if err != nil {
		return err
	}
	// Skip/fetch decisions are keyed by position, so sources need not set it.
	for i := range remote {
		remote[i].Position = i
	}
	result.Remote = remote
	result.Counts.Remote = len(remote)
	e.sendProgress(ctx, progress, foundPlaylistUpdate(len(remote)))

	local, err := e.scanner.Scan(e.opts.Destination)
	if err != nil {
		return err
	}
	e.sendProgress(ctx, progress, scanLibraryUpdate(e.opts.Destination, len(local)))

	result.Plan = e.opts.Matcher.Plan(remote, local)
	fetch := make(map[int]bool, len(result.Plan.Fetch))
	for _, item := range result.Plan.Fetch {
		fetch[item.Position] = true
	}

	for i, item := range remote {
		step := i + 1
		if !fetch[item.Position] {
			e.sendProgress(ctx, progress, skipUpdate(step, len(remote), item))
			result.Counts.Skipped++
			e.addItem(result, ItemResult{Action: models.ActionSkip, Outcome: models.OutcomeOK, Item: item})
			continue
		}

		if err := e.download(ctx, step, len(remote), item, opts, progress, result); err != nil {
			return err
		}
	}

	// Downloads may have added files
	local, err = e.scanner.Scan(e.opts.Destination)
	if err != nil {
		return err
	}

	stale := e.opts.Matcher.FilesToRemove(local, models.Titles(remote))
	result.Plan.Remove = stale
	for i, file := range stale {
		if err := ctx.Err(); err != nil {
			return err
		}

		started := time.Now()
		res := ItemResult{Action: models.ActionRemove, Outcome: models.OutcomeOK, File: file}

		if err := e.remove(e.opts.Destination, file.Name); err != nil {
			e.logger.Warn("could not remove file", "file", file.Name, "error", err)
			e.sendProgress(ctx, progress, removeFailedUpdate(i+1, len(stale), file, err))
			res.Outcome, res.Err = models.OutcomeFailed, err
			result.Counts.RemoveFailed++
		} else {
			e.sendProgress(ctx, progress, removedUpdate(i+1, len(stale), file))
			result.Counts.Removed++
		}
		res.Duration = time.Since(started)
		e.addItem(result, res)
	}

	if opts.Tag && e.tagger != nil {
		e.tag(ctx, progress, result)
	}

	return ctx.Err()
}

func (e *SyncEngine) download(ctx context.Context, step, total int, item models.RemoteItem, opts RunOptions, progress chan<- ProgressUpdate, result *SyncResult) error {
	e.sendProgress(ctx, progress, downloadingUpdate(step, total, item))
	res := ItemResult{Action: models.ActionDownload, Item: item}

	if opts.Simulate {
		res.Outcome = models.OutcomeSimulated
		e.addItem(result, res)
		return nil
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}

	started := time.Now()
	err := e.downloader.Download(ctx, item, e.opts.Destination)
	res.Duration = time.Since(started)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.logger.Error("download failed", "title", item.Title, "id", item.ResourceID, "error", err)
		e.sendProgress(ctx, progress, downloadFailedUpdate(step, total, err))
		res.Outcome, res.Err = models.OutcomeFailed, err
		result.Counts.Failed++
	} else {
		res.Outcome = models.OutcomeOK
		result.Counts.Downloaded++
	}

	e.addItem(result, res)
	return nil
}

func (e *SyncEngine) tag(ctx context.Context, progress chan<- ProgressUpdate, result *SyncResult) {
	e.sendProgress(ctx, progress, tagUpdate(e.opts.Destination))
	started := time.Now()

	out, err := e.tagger.Tag(ctx, e.opts.Destination)
	result.TagOutput, result.TagErr = out, err

	res := ItemResult{Action: models.ActionTag, Outcome: models.OutcomeOK, Err: err, Duration: time.Since(started)}
	switch {
	case errors.Is(err, shared.ErrTaggerNotFound):
		res.Outcome = models.OutcomeFailed
		result.Run.SetTagStatus(models.TagNotFound)
	case err != nil:
		res.Outcome = models.OutcomeFailed
		result.Run.SetTagStatus(models.TagFailed)
	default:
		result.Run.SetTagStatus(models.TagOK)
	}

	if err != nil {
		e.logger.Error("tagging failed", "dir", e.opts.Destination, "error", err)
	}
	e.addItem(result, res)
}

func (e *SyncEngine) addItem(result *SyncResult, res ItemResult) {
	result.Items = append(result.Items, res)

	if e.recorder == nil || result.Run.ID() == "" {
		return
	}

	item := &models.RunItem{
		RunID:     result.Run.ID(),
		Position:  len(result.Items) - 1,
		Action:    res.Action,
		Outcome:   res.Outcome,
		Duration:  res.Duration,
		CreatedAt: time.Now(),
	}
	switch res.Action {
	case models.ActionRemove:
		item.Title, item.Reference = res.File.Name, res.File.Name
	case models.ActionTag:
		item.Title, item.Reference = "tag pass", e.opts.Destination
	default:
		item.Title, item.Reference = res.Item.Title, res.Item.ResourceID
	}
	if res.Err != nil {
		item.Message = res.Err.Error()
	}

	e.record("add run item", func(r RunRecorder) error { return r.AddItem(item) })
}

func (e *SyncEngine) finish(ctx context.Context, progress chan<- ProgressUpdate, result *SyncResult, err error) {
	result.Run.SetCounts(result.Counts)
	result.Run.Finish(err)

	if e.recorder == nil || result.Run.ID() == "" {
		return
	}
	if e.record("update run", func(r RunRecorder) error { return r.Update(result.Run) }) {
		e.sendProgress(ctx, progress, recordUpdate(result.Run))
	}
}

// record runs fn against the recorder, logging failures instead of returning them.
func (e *SyncEngine) record(what string, fn func(RunRecorder) error) bool {
	if e.recorder == nil {
		return false
	}
	if err := fn(e.recorder); err != nil {
		e.logger.Warn("failed to record history", "step", what, "error", err)
		return false
	}
	return true
}
