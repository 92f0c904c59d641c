package tasks

import (
	"fmt"

	"github.com/desertthunder/ytsync/internal/models"
)

// ProgressUpdate represents a progress event during a sync run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data ([models.RemoteItem], [models.LocalFile], error)
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	ScanLibrary
	Download
	Skip
	Remove
	Tag
	Record
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case ScanLibrary:
		return "scan_library"
	case Download:
		return "download"
	case Skip:
		return "skip"
	case Remove:
		return "remove"
	case Tag:
		return "tag"
	case Record:
		return "record"
	default:
		return ""
	}
}

func fetchPlaylistUpdate(source string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist (%s)...", source),
	}
}

func foundPlaylistUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlist items", total),
		Data:    total,
	}
}

func scanLibraryUpdate(dir string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanLibrary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d files in %s", count, dir),
		Data:    count,
	}
}

func downloadingUpdate(step, total int, item models.RemoteItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloading %s..", item.Title),
		Data:    item,
	}
}

func downloadFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Download,
		Step:    step,
		Total:   total,
		Message: "--DOWNLOAD FAILED--",
		Data:    err,
	}
}

func skipUpdate(step, total int, item models.RemoteItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Skip,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("SKIPPING %s", item.Title),
		Data:    item,
	}
}

func removedUpdate(step, total int, file models.LocalFile) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Remove,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Removed %s", file.Name),
		Data:    file,
	}
}

func removeFailedUpdate(step, total int, file models.LocalFile, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Remove,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Could not remove %s", file.Name),
		Data:    err,
	}
}

func tagUpdate(dir string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Tag,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Tagging files in %s...", dir),
	}
}

func recordUpdate(run *models.SyncRun) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Record,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recorded run #%d", run.Sequence()),
		Data:    run,
	}
}
