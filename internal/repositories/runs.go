package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

const runColumns = `
	id, sequence, playlist_id, destination, simulate, status,
	remote_count, downloaded, failed, skipped, removed, remove_failed,
	tag_status, error_message, started_at, finished_at,
	created_at, updated_at, deleted_at
`

// RunRepository implements models.Repository[*models.SyncRun] and stores the items of each run.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

var _ models.Repository[*models.SyncRun] = (*RunRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new run with generated ID and sequence
func (r *RunRepository) Create(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "sync_runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	counts := run.Counts()

	query := `
		INSERT INTO sync_runs (
			id, sequence, playlist_id, destination, simulate, status,
			remote_count, downloaded, failed, skipped, removed, remove_failed,
			tag_status, error_message, started_at, finished_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.PlaylistID(),
		run.Destination(),
		run.Simulate(),
		run.Status(),
		counts.Remote,
		counts.Downloaded,
		counts.Failed,
		counts.Skipped,
		counts.Removed,
		counts.RemoveFailed,
		run.TagStatus(),
		nullable(run.ErrorMessage()),
		run.StartedAt(),
		run.FinishedAt(),
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	run.SetID(id)
	run.SetSequence(sequence)
	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE id = ? AND deleted_at IS NULL`
	return scanRun(r.db.QueryRow(query, id))
}

// GetBySequence retrieves a run by its sequence number, excluding soft-deleted runs
func (r *RunRepository) GetBySequence(sequence int) (*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE sequence = ? AND deleted_at IS NULL`
	return scanRun(r.db.QueryRow(query, sequence))
}

// Latest retrieves the most recent run for playlistID
func (r *RunRepository) Latest(playlistID string) (*models.SyncRun, error) {
	query := `
		SELECT ` + runColumns + ` FROM sync_runs
		WHERE playlist_id = ? AND deleted_at IS NULL
		ORDER BY sequence DESC
		LIMIT 1
	`
	return scanRun(r.db.QueryRow(query, playlistID))
}

// Update stores the run's status, counters and timestamps
func (r *RunRepository) Update(run *models.SyncRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)
	counts := run.Counts()

	query := `
		UPDATE sync_runs
		SET status = ?, remote_count = ?, downloaded = ?, failed = ?, skipped = ?,
			removed = ?, remove_failed = ?, tag_status = ?, error_message = ?,
			finished_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Status(),
		counts.Remote,
		counts.Downloaded,
		counts.Failed,
		counts.Skipped,
		counts.Removed,
		counts.RemoveFailed,
		run.TagStatus(),
		nullable(run.ErrorMessage()),
		run.FinishedAt(),
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return expectOne(result, run.ID())
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE sync_runs SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return expectOne(result, id)
}

// List retrieves runs matching the given criteria, newest first, excluding soft-deleted runs.
//
// Supported criteria: "playlist_id" (string), "status" (string) and "limit" (int).
func (r *RunRepository) List(criteria map[string]any) ([]*models.SyncRun, error) {
	query := `SELECT ` + runColumns + ` FROM sync_runs WHERE deleted_at IS NULL`
	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	query += " ORDER BY sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SyncRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

// AddItem inserts a run item with a generated ID
func (r *RunRepository) AddItem(item *models.RunItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	id := shared.GenerateID()

	query := `
		INSERT INTO run_items (id, run_id, position, action, outcome, title, reference, message, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		id,
		item.RunID,
		item.Position,
		item.Action,
		item.Outcome,
		item.Title,
		item.Reference,
		item.Message,
		item.Duration.Milliseconds(),
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run item: %w", err)
	}

	item.ID = id
	return nil
}

// Items retrieves the items of a run in the order they were recorded
func (r *RunRepository) Items(runID string) ([]models.RunItem, error) {
	query := `
		SELECT id, run_id, position, action, outcome, title, reference, message, duration_ms, created_at
		FROM run_items
		WHERE run_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run items: %w", err)
	}
	defer rows.Close()

	var items []models.RunItem
	for rows.Next() {
		var (
			item       models.RunItem
			action     string
			outcome    string
			durationMS int64
		)
		if err := rows.Scan(
			&item.ID, &item.RunID, &item.Position, &action, &outcome,
			&item.Title, &item.Reference, &item.Message, &durationMS, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run item: %w", err)
		}
		item.Action = models.Action(action)
		item.Outcome = models.Outcome(outcome)
		item.Duration = time.Duration(durationMS) * time.Millisecond
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// scanRun scans a single row into a [models.SyncRun]
func scanRun(row rowScanner) (*models.SyncRun, error) {
	var (
		id           string
		sequence     int
		playlistID   string
		destination  string
		simulate     bool
		status       string
		counts       models.RunCounts
		tagStatus    string
		errorMessage sql.NullString
		startedAt    time.Time
		finishedAt   sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &playlistID, &destination, &simulate, &status,
		&counts.Remote, &counts.Downloaded, &counts.Failed, &counts.Skipped, &counts.Removed, &counts.RemoveFailed,
		&tagStatus, &errorMessage, &startedAt, &finishedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run := models.NewSyncRun(sequence, playlistID, destination, simulate)
	run.SetID(id)
	run.SetStatus(models.RunStatus(status), errorMessage.String)
	run.SetCounts(counts)
	run.SetTagStatus(tagStatus)

	var finished *time.Time
	if finishedAt.Valid {
		finished = &finishedAt.Time
	}
	run.SetTimes(startedAt, finished, createdAt)
	run.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}

func expectOne(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrRunNotFound, id)
	}
	return nil
}
