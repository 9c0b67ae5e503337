package main_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/fwojciec/campusqa"
	main "github.com/fwojciec/campusqa/cmd/campusqa"
	"github.com/fwojciec/campusqa/crawl"
	"github.com/fwojciec/campusqa/fs"
	"github.com/fwojciec/campusqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteCrawler serves a two page site: the home page links to /about.
func siteCrawler(written *[]string) *crawl.Crawler {
	return &crawl.Crawler{
		Extractor: &mock.Extractor{
			ExtractFn: func(ctx context.Context, url string) (*campusqa.Extraction, error) {
				if url == "https://example.edu/broken" {
					return nil, campusqa.Errorf(campusqa.ENETWORK, "connection reset")
				}
				return &campusqa.Extraction{Text: "text of " + url, HTML: "<html></html>", Method: campusqa.MethodStaticHTML}, nil
			},
		},
		Links: &mock.LinkSelector{
			ExtractLinksFn: func(html string, baseURL string) ([]string, error) {
				if baseURL == "https://example.edu" {
					return []string{"https://example.edu/about", "https://example.edu/broken", "https://other.edu/"}, nil
				}
				return nil, nil
			},
		},
		Documents: &mock.DocumentWriter{
			WriteDocumentFn: func(ctx context.Context, doc *campusqa.Document) error {
				*written = append(*written, doc.SourceURL)
				return nil
			},
		},
	}
}

func crawlDeps(t *testing.T, stateDir string, crawler *crawl.Crawler) (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	state := fs.NewStateLog(stateDir)
	t.Cleanup(func() { _ = state.Close() })
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  stderr,
		Logger:  slog.New(slog.NewTextHandler(stderr, nil)),
		State:   state,
		Crawler: crawler,
	}, stdout, stderr
}

func TestCrawlCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("crawls the site and reports the result", func(t *testing.T) {
		t.Parallel()

		var written []string
		deps, stdout, stderr := crawlDeps(t, t.TempDir(), siteCrawler(&written))

		cmd := &main.CrawlCmd{URL: "http://www.example.edu/"}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, []string{"https://example.edu", "https://example.edu/about"}, written)
		assert.Contains(t, stdout.String(), "Crawling example.edu")
		assert.Contains(t, stdout.String(), "2 extracted")
		assert.Contains(t, stdout.String(), "1 failed")
		assert.Contains(t, stderr.String(), "https://example.edu/broken")
	})

	t.Run("resumes without refetching visited pages", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var first []string
		deps, _, _ := crawlDeps(t, dir, siteCrawler(&first))
		require.NoError(t, (&main.CrawlCmd{URL: "https://example.edu", MaxPages: 1}).Run(deps))
		require.Equal(t, []string{"https://example.edu"}, first)
		require.NoError(t, deps.State.Close())

		var second []string
		deps, stdout, _ := crawlDeps(t, dir, siteCrawler(&second))
		require.NoError(t, (&main.CrawlCmd{URL: "https://example.edu"}).Run(deps))

		assert.Equal(t, []string{"https://example.edu/about"}, second)
		assert.Contains(t, stdout.String(), "Resuming crawl of example.edu")
	})

	t.Run("reset starts over", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		var first []string
		deps, _, _ := crawlDeps(t, dir, siteCrawler(&first))
		require.NoError(t, (&main.CrawlCmd{URL: "https://example.edu"}).Run(deps))
		require.NoError(t, deps.State.Close())

		var second []string
		deps, _, _ = crawlDeps(t, dir, siteCrawler(&second))
		require.NoError(t, (&main.CrawlCmd{URL: "https://example.edu", Reset: true}).Run(deps))

		assert.Equal(t, first, second)
	})

	t.Run("skips ignored extensions", func(t *testing.T) {
		t.Parallel()

		var written []string
		crawler := siteCrawler(&written)
		crawler.Links = &mock.LinkSelector{
			ExtractLinksFn: func(html string, baseURL string) ([]string, error) {
				return []string{"https://example.edu/campus.jpg"}, nil
			},
		}
		deps, stdout, _ := crawlDeps(t, t.TempDir(), crawler)

		cmd := &main.CrawlCmd{URL: "https://example.edu", Ignore: []string{"jpg"}}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, []string{"https://example.edu"}, written)
		assert.Contains(t, stdout.String(), "1 skipped")
	})

	t.Run("rejects invalid start URL", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := crawlDeps(t, t.TempDir(), siteCrawler(new([]string)))

		err := (&main.CrawlCmd{URL: "not a url"}).Run(deps)

		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}

func TestPromptConfirmer(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := main.NewPromptConfirmer(bytes.NewBufferString("y\nno\n YES \n"), &out)
	ctx := context.Background()

	for _, want := range []bool{true, false, true, false} {
		got, err := c.Confirm(ctx, "https://example.edu/prospectus.pdf")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Contains(t, out.String(), "Fetch https://example.edu/prospectus.pdf? [y/N]")
}

func TestPromptConfirmer_Canceled(t *testing.T) {
	t.Parallel()

	r, w := io.Pipe()
	defer w.Close()
	c := main.NewPromptConfirmer(r, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Confirm(ctx, "https://example.edu/a.pdf")

	assert.ErrorIs(t, err, context.Canceled)
}
