package mock

import (
	"context"

	"github.com/fwojciec/campusqa"
)

var _ campusqa.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of campusqa.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ campusqa.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of campusqa.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string) (*campusqa.Resource, error)
}

func (d *Downloader) Download(ctx context.Context, url string) (*campusqa.Resource, error) {
	return d.DownloadFn(ctx, url)
}
