package campusqa

import "context"

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push adds a normalized URL to the frontier.
	// Returns false if the URL has already been seen.
	Push(url string) bool

	// Pop returns the next URL in FIFO order.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}

// CrawlSnapshot is the persisted state of a crawl.
type CrawlSnapshot struct {
	// Visited lists processed URLs in the order they were marked.
	Visited []string

	// Queued lists every URL ever enqueued, in enqueue order.
	Queued []string
}

// Pending returns the queued URLs that have not been visited, in enqueue order.
func (s *CrawlSnapshot) Pending() []string {
	visited := make(map[string]struct{}, len(s.Visited))
	for _, u := range s.Visited {
		visited[u] = struct{}{}
	}
	var pending []string
	seen := make(map[string]struct{}, len(s.Queued))
	for _, u := range s.Queued {
		if _, ok := visited[u]; ok {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		pending = append(pending, u)
	}
	return pending
}

// CrawlState persists the visited set and the queue log of a crawl.
// Failures are reported as EIO.
type CrawlState interface {
	// Load reconstructs the state written by previous runs.
	Load(ctx context.Context) (*CrawlSnapshot, error)

	// MarkVisited appends the URL to the visited log and syncs it to disk
	// before returning.
	MarkVisited(ctx context.Context, url string) error

	// MarkQueued appends the URL to the queue log.
	MarkQueued(ctx context.Context, url string) error
}

// Confirmer asks the operator whether a URL should be fetched.
type Confirmer interface {
	Confirm(ctx context.Context, url string) (bool, error)
}
