// Package models defines the data types shared by the ytsync pipeline.
//
// The package contains two categories of types:
//
// 1. Pipeline values: immutable inputs to reconciliation
//   - [RemoteItem] : one entry of the remote playlist (title + video id)
//   - [LocalFile] : one file already present in the destination directory
//
// 2. Persistent entities: run history stored in SQLite
//   - [SyncRun] : one execution of the pipeline with its counters
//   - [RunItem] : the outcome of a single download, skip, removal or tag pass
//
// Persistent entities implement the [Model] interface providing ID, timestamps and validation.
package models
