package crawl

import (
	"sync"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/bloom"
)

// Compile-time interface verification.
var _ campusqa.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier with Bloom filter backed
// deduplication. A URL is accepted at most once over the Frontier's life:
// once queued or visited it is never queued again.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Set
	queue []string
	head  int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom prefilter.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{seen: bloom.NewSet(n, fpRate)}
}

// Push appends a normalized URL to the frontier.
// Returns false if the URL has already been queued or visited.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Add(url) {
		return false
	}
	f.queue = append(f.queue, url)
	return true
}

// Visit records a URL as processed without queueing it.
func (f *Frontier) Visit(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen.Add(url)
}

// Pop returns the oldest queued URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.head == len(f.queue) {
		return "", false
	}
	url := f.queue[f.head]
	f.queue[f.head] = ""
	f.head++
	if f.head == len(f.queue) {
		f.queue, f.head = f.queue[:0], 0
	}
	return url, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue) - f.head
}

// Seen returns true if the URL has been visited or queued.
func (f *Frontier) Seen(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(url)
}
