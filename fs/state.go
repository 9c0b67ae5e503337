package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/campusqa"
)

// State log file names inside the state directory.
const (
	VisitedFile = "visited.log"
	QueueFile   = "queue.log"
)

var _ campusqa.CrawlState = (*StateLog)(nil)

// StateLog persists crawl state as two newline-delimited, append-only logs:
// visited.log holds processed URLs and queue.log every URL ever enqueued.
// Deleting both resets the crawl.
type StateLog struct {
	dir string

	mu      sync.Mutex
	visited *os.File
	queued  *os.File
}

// NewStateLog returns a StateLog keeping its files in dir.
func NewStateLog(dir string) *StateLog {
	return &StateLog{dir: dir}
}

// Load reads both logs. Missing files are treated as empty.
func (s *StateLog) Load(ctx context.Context) (*campusqa.CrawlSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	visited, err := readLog(filepath.Join(s.dir, VisitedFile))
	if err != nil {
		return nil, err
	}
	queued, err := readLog(filepath.Join(s.dir, QueueFile))
	if err != nil {
		return nil, err
	}
	return &campusqa.CrawlSnapshot{Visited: visited, Queued: queued}, nil
}

// MarkQueued appends the URL to queue.log.
func (s *StateLog) MarkQueued(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open(&s.queued, QueueFile)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(url + "\n"); err != nil {
		return campusqa.Errorf(campusqa.EIO, "append %s: %w", QueueFile, err)
	}
	return nil
}

// MarkVisited appends the URL to visited.log. Before returning it syncs
// queue.log and then visited.log, so links queued while processing the URL
// are durable no later than the URL itself.
func (s *StateLog) MarkVisited(ctx context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queued != nil {
		if err := s.queued.Sync(); err != nil {
			return campusqa.Errorf(campusqa.EIO, "sync %s: %w", QueueFile, err)
		}
	}
	f, err := s.open(&s.visited, VisitedFile)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(url + "\n"); err != nil {
		return campusqa.Errorf(campusqa.EIO, "append %s: %w", VisitedFile, err)
	}
	if err := f.Sync(); err != nil {
		return campusqa.Errorf(campusqa.EIO, "sync %s: %w", VisitedFile, err)
	}
	return nil
}

// Reset deletes both logs.
func (s *StateLog) Reset() error {
	if err := s.Close(); err != nil {
		return err
	}
	for _, name := range []string{VisitedFile, QueueFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return campusqa.Errorf(campusqa.EIO, "remove %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the open log files.
func (s *StateLog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, f := range []**os.File{&s.visited, &s.queued} {
		if *f != nil {
			errs = append(errs, (*f).Close())
			*f = nil
		}
	}
	if err := errors.Join(errs...); err != nil {
		return campusqa.Errorf(campusqa.EIO, "close state log: %w", err)
	}
	return nil
}

func (s *StateLog) open(f **os.File, name string) (*os.File, error) {
	if *f != nil {
		return *f, nil
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "create state directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(s.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "open %s: %w", name, err)
	}
	*f = file
	return file, nil
}

func readLog(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	var lines []string
	if err := scanLines(f, func(line string) { lines = append(lines, line) }); err != nil {
		return nil, campusqa.Errorf(campusqa.EIO, "read %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}
