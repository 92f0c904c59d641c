// package formatter renders recorded sync runs in various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

const (
	FormatText     = "text"
	FormatMarkdown = "md"
	FormatCSV      = "csv"

	timeLayout = "2006-01-02 15:04:05"
)

// RunToCSV converts a run's items to CSV format with columns: Position, Action, Outcome, Title, Reference, Duration, Message
func RunToCSV(run *models.SyncRun, items []models.RunItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Action", "Outcome", "Title", "Reference", "Duration", "Message"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			strconv.Itoa(item.Position),
			string(item.Action),
			string(item.Outcome),
			item.Title,
			item.Reference,
			strconv.FormatInt(item.Duration.Milliseconds(), 10),
			item.Message,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// RunToMarkdown converts a run and its items to a Markdown report
func RunToMarkdown(run *models.SyncRun, items []models.RunItem) ([]byte, error) {
	var buf bytes.Buffer
	counts := run.Counts()

	buf.WriteString(fmt.Sprintf("# Run #%d\n\n", run.Sequence()))
	buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", run.PlaylistID()))
	buf.WriteString(fmt.Sprintf("**Destination**: %s\n", run.Destination()))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", StatusString(run)))
	buf.WriteString(fmt.Sprintf("**Started**: %s\n", run.StartedAt().Format(timeLayout)))
	buf.WriteString(fmt.Sprintf("**Duration**: %s\n", FormatDuration(run.Duration())))
	if run.TagStatus() != "" {
		buf.WriteString(fmt.Sprintf("**Tagging**: %s\n", run.TagStatus()))
	}
	if run.ErrorMessage() != "" {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", run.ErrorMessage()))
	}

	buf.WriteString("\n## Summary\n\n")
	buf.WriteString("| Remote | Downloaded | Failed | Skipped | Removed | Remove failed |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	buf.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d | %d |\n",
		counts.Remote, counts.Downloaded, counts.Failed, counts.Skipped, counts.Removed, counts.RemoveFailed))

	if len(items) > 0 {
		buf.WriteString("\n## Items\n\n")
		for i, item := range items {
			line := fmt.Sprintf("%d. `%s` %s: %s", i+1, item.Action, item.Outcome, escapeMarkdown(item.Title))
			if item.Message != "" {
				line += fmt.Sprintf(" (%s)", escapeMarkdown(item.Message))
			}
			buf.WriteString(line + "\n")
		}
	}

	return buf.Bytes(), nil
}

// RunToText converts a run and its items to plain text format
func RunToText(run *models.SyncRun, items []models.RunItem) ([]byte, error) {
	var buf bytes.Buffer
	counts := run.Counts()

	buf.WriteString(fmt.Sprintf("Run #%d (%s)\n", run.Sequence(), run.ID()))
	buf.WriteString(fmt.Sprintf("Playlist: %s\n", run.PlaylistID()))
	buf.WriteString(fmt.Sprintf("Destination: %s\n", run.Destination()))
	buf.WriteString(fmt.Sprintf("Status: %s\n", StatusString(run)))
	buf.WriteString(fmt.Sprintf("Started: %s\n", run.StartedAt().Format(timeLayout)))
	buf.WriteString(fmt.Sprintf("Duration: %s\n", FormatDuration(run.Duration())))
	if run.TagStatus() != "" {
		buf.WriteString(fmt.Sprintf("Tagging: %s\n", run.TagStatus()))
	}
	if run.ErrorMessage() != "" {
		buf.WriteString(fmt.Sprintf("Error: %s\n", run.ErrorMessage()))
	}
	buf.WriteString(fmt.Sprintf("Downloaded: %d, Failed: %d, Skipped: %d, Removed: %d, Remove failed: %d (of %d remote)\n",
		counts.Downloaded, counts.Failed, counts.Skipped, counts.Removed, counts.RemoveFailed, counts.Remote))

	if len(items) > 0 {
		buf.WriteString("\n")
	}
	for i, item := range items {
		line := fmt.Sprintf("%d. [%s/%s] %s", i+1, item.Action, item.Outcome, item.Title)
		if item.Message != "" {
			line += ": " + item.Message
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// Render dispatches to the renderer for format ("text", "md" or "csv").
func Render(format string, run *models.SyncRun, items []models.RunItem) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText, "txt":
		return RunToText(run, items)
	case FormatMarkdown, "markdown":
		return RunToMarkdown(run, items)
	case FormatCSV:
		return RunToCSV(run, items)
	default:
		return nil, fmt.Errorf("%w: unknown format %q (use text, md or csv)", shared.ErrInvalidArgument, format)
	}
}

// WriteReport renders the run and writes it to path.
//
// Defaults to run_{sequence}.{ext} in the working directory.
func WriteReport(format string, run *models.SyncRun, items []models.RunItem, path string) (string, error) {
	data, err := Render(format, run, items)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = fmt.Sprintf("run_%d.%s", run.Sequence(), extension(format))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}

// StatusString describes a run's status, noting simulated runs.
func StatusString(run *models.SyncRun) string {
	if run.Simulate() {
		return string(run.Status()) + " (simulated)"
	}
	return string(run.Status())
}

// FormatDuration formats d as m:ss, or h:mm:ss from an hour up.
func FormatDuration(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func extension(format string) string {
	switch strings.ToLower(format) {
	case FormatMarkdown, "markdown":
		return "md"
	case FormatCSV:
		return "csv"
	default:
		return "txt"
	}
}

var markdownEscaper = strings.NewReplacer("*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
