// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/ytsync/internal/models"
)

// MockPlaylistService is a test double for [services.PlaylistService]
type MockPlaylistService struct {
	Items []models.RemoteItem
	Err   error
	Calls int
}

func (m *MockPlaylistService) GetPlaylistItems(ctx context.Context, playlistID string) ([]models.RemoteItem, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	items := make([]models.RemoteItem, len(m.Items))
	copy(items, m.Items)
	for i := range items {
		items[i].Position = i
	}
	return items, nil
}

func (m *MockPlaylistService) Name() string { return "mock" }

// NewMockPlaylist builds a [MockPlaylistService] whose items have the given titles and ids "id0", "id1", ...
func NewMockPlaylist(titles ...string) *MockPlaylistService {
	items := make([]models.RemoteItem, len(titles))
	for i, title := range titles {
		items[i] = models.RemoteItem{Title: title, ResourceID: fmt.Sprintf("id%d", i)}
	}
	return &MockPlaylistService{Items: items}
}

// MockDownloader is a test double for [downloader.Downloader].
//
// On success it writes "<title>.mp3" into the destination so that rescans see the new file.
type MockDownloader struct {
	Fail  map[string]error // keyed by resource id
	Calls []models.RemoteItem
}

func (m *MockDownloader) Download(ctx context.Context, item models.RemoteItem, destDir string) error {
	m.Calls = append(m.Calls, item)
	if err := m.Fail[item.ResourceID]; err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(destDir, item.Title+".mp3"), []byte("audio"), 0o644)
}

// MockTagger is a test double for [tagger.Tagger]
type MockTagger struct {
	Output string
	Err    error
	Dirs   []string
}

func (m *MockTagger) Tag(ctx context.Context, dir string) (string, error) {
	m.Dirs = append(m.Dirs, dir)
	return m.Output, m.Err
}

// MockRecorder is an in-memory test double for [tasks.RunRecorder]
type MockRecorder struct {
	Runs      []*models.SyncRun
	Items     []*models.RunItem
	Updates   int
	CreateErr error
	UpdateErr error
	AddErr    error
}

func (m *MockRecorder) Create(run *models.SyncRun) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	run.SetID(fmt.Sprintf("run-%d", len(m.Runs)+1))
	run.SetSequence(len(m.Runs) + 1)
	m.Runs = append(m.Runs, run)
	return nil
}

func (m *MockRecorder) Update(run *models.SyncRun) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.Updates++
	return nil
}

func (m *MockRecorder) AddItem(item *models.RunItem) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Items = append(m.Items, item)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
