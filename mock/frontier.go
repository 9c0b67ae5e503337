package mock

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of campusqa.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ campusqa.CrawlState = (*CrawlState)(nil)

// CrawlState is a mock implementation of campusqa.CrawlState.
type CrawlState struct {
	LoadFn        func(ctx context.Context) (*campusqa.CrawlSnapshot, error)
	MarkVisitedFn func(ctx context.Context, url string) error
	MarkQueuedFn  func(ctx context.Context, url string) error
}

func (s *CrawlState) Load(ctx context.Context) (*campusqa.CrawlSnapshot, error) {
	return s.LoadFn(ctx)
}

func (s *CrawlState) MarkVisited(ctx context.Context, url string) error {
	return s.MarkVisitedFn(ctx, url)
}

func (s *CrawlState) MarkQueued(ctx context.Context, url string) error {
	return s.MarkQueuedFn(ctx, url)
}

var _ campusqa.Confirmer = (*Confirmer)(nil)

// Confirmer is a mock implementation of campusqa.Confirmer.
type Confirmer struct {
	ConfirmFn func(ctx context.Context, url string) (bool, error)
}

func (c *Confirmer) Confirm(ctx context.Context, url string) (bool, error) {
	return c.ConfirmFn(ctx, url)
}
