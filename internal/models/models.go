// package models defines the data model for the playlist sync pipeline
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

const watchURLPrefix = "https://youtube.com/watch?v="

// RemoteItem is one entry of the remote playlist.
type RemoteItem struct {
	Title      string
	ResourceID string // YouTube video id
	Position   int    // zero-based index in the playlist
}

// URL returns the watch URL handed to the downloader.
func (r RemoteItem) URL() string {
	return watchURLPrefix + r.ResourceID
}

// LocalFile is a regular file in the destination directory.
type LocalFile struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Titles returns the titles of items in order.
func Titles(items []RemoteItem) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}

// Names returns the file names of files in order.
func Names(files []LocalFile) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}

// Action is what the pipeline did with an item.
type Action string

const (
	ActionDownload Action = "download"
	ActionSkip     Action = "skip"
	ActionRemove   Action = "remove"
	ActionTag      Action = "tag"
)

// Outcome is how an action ended.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeFailed    Outcome = "failed"
	OutcomeSimulated Outcome = "simulated"
)

// RunStatus is the lifecycle state of a [SyncRun].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Tag pass results stored on a [SyncRun]; empty means the pass did not run.
const (
	TagOK       = "ok"
	TagFailed   = "failed"
	TagNotFound = "not_found"
)

// RunCounts are the per-run tallies.
type RunCounts struct {
	Remote       int
	Downloaded   int
	Failed       int
	Skipped      int
	Removed      int
	RemoveFailed int
}

// SyncRun is the persisted record of one pipeline execution.
type SyncRun struct {
	id          string
	sequence    int
	playlistID  string
	destination string
	simulate    bool
	status      RunStatus
	counts      RunCounts
	tagStatus   string
	errMessage  string
	startedAt   time.Time
	finishedAt  *time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewSyncRun creates a running [SyncRun] started now.
func NewSyncRun(sequence int, playlistID, destination string, simulate bool) *SyncRun {
	now := time.Now()
	return &SyncRun{
		sequence:    sequence,
		playlistID:  playlistID,
		destination: destination,
		simulate:    simulate,
		status:      RunRunning,
		startedAt:   now,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (r *SyncRun) ID() string { return r.id }
func (r *SyncRun) Sequence() int { return r.sequence }
func (r *SyncRun) PlaylistID() string { return r.playlistID }
func (r *SyncRun) Destination() string { return r.destination }
func (r *SyncRun) Simulate() bool { return r.simulate }
func (r *SyncRun) Status() RunStatus { return r.status }
func (r *SyncRun) Counts() RunCounts { return r.counts }
func (r *SyncRun) TagStatus() string { return r.tagStatus }
func (r *SyncRun) ErrorMessage() string { return r.errMessage }
func (r *SyncRun) StartedAt() time.Time { return r.startedAt }
func (r *SyncRun) FinishedAt() *time.Time { return r.finishedAt }
func (r *SyncRun) CreatedAt() time.Time { return r.createdAt }
func (r *SyncRun) UpdatedAt() time.Time { return r.updatedAt }
func (r *SyncRun) DeletedAt() *time.Time { return r.deletedAt }
func (r *SyncRun) SetID(id string) { r.id = id }
func (r *SyncRun) SetSequence(seq int) { r.sequence = seq }
func (r *SyncRun) SetCounts(c RunCounts) { r.counts = c }
func (r *SyncRun) SetTagStatus(s string) { r.tagStatus = s }
func (r *SyncRun) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *SyncRun) SetDeletedAt(t *time.Time) { r.deletedAt = t }

// SetTimes overrides the start and finish timestamps, used when loading from storage.
func (r *SyncRun) SetTimes(started time.Time, finished *time.Time, created time.Time) {
	r.startedAt = started
	r.finishedAt = finished
	r.createdAt = created
}

// SetStatus sets the run status without finishing it, used when loading from storage.
func (r *SyncRun) SetStatus(s RunStatus, message string) {
	r.status = s
	r.errMessage = message
}

// Finish marks the run completed, or failed when err is non-nil.
func (r *SyncRun) Finish(err error) {
	now := time.Now()
	r.finishedAt = &now
	r.updatedAt = now
	if err != nil {
		r.status = RunFailed
		r.errMessage = err.Error()
		return
	}
	r.status = RunCompleted
}

// Duration is the wall-clock time of a finished run, zero while running.
func (r *SyncRun) Duration() time.Duration {
	if r.finishedAt == nil {
		return 0
	}
	return r.finishedAt.Sub(r.startedAt)
}

func (r *SyncRun) Validate() error {
	if r.playlistID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if r.destination == "" {
		return fmt.Errorf("destination is required")
	}
	switch r.status {
	case RunRunning, RunCompleted, RunFailed:
	default:
		return fmt.Errorf("invalid status %q", r.status)
	}
	return nil
}

// RunItem is the outcome of one step applied to one item.
type RunItem struct {
	ID        string
	RunID     string
	Position  int
	Action    Action
	Outcome   Outcome
	Title     string
	Reference string // video id for downloads, filename for removals
	Message   string
	Duration  time.Duration
	CreatedAt time.Time
}

func (i RunItem) Validate() error {
	if i.RunID == "" {
		return fmt.Errorf("run id is required")
	}
	switch i.Action {
	case ActionDownload, ActionSkip, ActionRemove, ActionTag:
	default:
		return fmt.Errorf("invalid action %q", i.Action)
	}
	switch i.Outcome {
	case OutcomeOK, OutcomeFailed, OutcomeSimulated:
	default:
		return fmt.Errorf("invalid outcome %q", i.Outcome)
	}
	return nil
}
