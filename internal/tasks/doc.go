// Package tasks syncs a local music directory with a remote playlist, reporting progress as it goes.
//
// # Pipeline
//
// [SyncEngine.Run] performs, in order:
//
//  1. Fetch the playlist items from the configured [services.PlaylistService]
//  2. Scan the destination directory
//  3. For each item in playlist order, download it when no local file matches its title, otherwise skip it
//  4. Rescan the directory and remove every file that matches no playlist title
//  5. Optionally run the [tagger.Tagger] over the directory
//  6. Record the run and its items through the optional [RunRecorder]
//
// Simulate mode skips only step 3's downloads; removals still happen.
//
// # Errors
//
// Fetch and scan failures end the run and are returned. A failed download, a file that cannot be
// removed or a failed tag pass is logged, reported on the progress channel and kept in [SyncResult];
// the run carries on. History errors are logged and otherwise ignored.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Sends block until the consumer receives them or the context is cancelled, so a consumer must
// drain the channel for the duration of [SyncEngine.Run].
package tasks
