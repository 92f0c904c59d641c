// Package repositories implements SQLite persistence for sync run history.
//
// [RunRepository] stores one row per [models.SyncRun] in sync_runs and one row per [models.RunItem] in
// run_items. Runs support soft deletes via deleted_at and deleted runs are excluded from queries.
// Items are removed with their run only when the run row itself is deleted.
//
// Sequence numbers provide stable, human-readable ordering (e.g., run #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments the counter in the sync_runs_sequence table.
package repositories
