package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/extract"
	"github.com/fwojciec/campusqa/goquery"
	"github.com/fwojciec/campusqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func downloader(contentType, body string) *mock.Downloader {
	return &mock.Downloader{
		DownloadFn: func(ctx context.Context, url string) (*campusqa.Resource, error) {
			return &campusqa.Resource{URL: url, ContentType: contentType, Body: []byte(body)}, nil
		},
	}
}

func TestStatic_Extract(t *testing.T) {
	t.Parallel()

	t.Run("strips markup and keeps HTML for links", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script>var x = 1;</script></head><body><h1>Admissions</h1><p>Apply by March.</p></body></html>`
		s := &extract.Static{
			Downloader: downloader("text/html; charset=utf-8", html),
			Stripper:   goquery.NewStripper(),
		}

		ex, err := s.Extract(context.Background(), "https://example.edu/admissions")

		require.NoError(t, err)
		assert.Equal(t, campusqa.MethodStaticHTML, ex.Method)
		assert.Contains(t, ex.Text, "Apply by March.")
		assert.NotContains(t, ex.Text, "var x")
		assert.Equal(t, html, ex.HTML)
	})

	t.Run("routes PDF content type to the parser", func(t *testing.T) {
		t.Parallel()

		var parsed []byte
		s := &extract.Static{
			Downloader: downloader("application/pdf", "%PDF-1.7"),
			Stripper: &mock.MarkupStripper{
				StripFn: func(html string) (string, error) {
					t.Fatal("stripper must not be called for PDFs")
					return "", nil
				},
			},
			Parser: &mock.PDFParser{
				ParseFn: func(data []byte) (string, error) {
					parsed = data
					return "  Fee schedule 2025  ", nil
				},
			},
		}

		ex, err := s.Extract(context.Background(), "https://example.edu/download?id=7")

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.7"), parsed)
		assert.Equal(t, campusqa.MethodPDF, ex.Method)
		assert.Equal(t, "Fee schedule 2025", ex.Text)
		assert.Empty(t, ex.HTML)
	})

	t.Run("non-HTML bodies yield empty text", func(t *testing.T) {
		t.Parallel()

		s := &extract.Static{
			Downloader: downloader("image/png", "\x89PNG"),
			Stripper:   goquery.NewStripper(),
		}

		ex, err := s.Extract(context.Background(), "https://example.edu/logo")

		require.NoError(t, err)
		assert.Empty(t, ex.Text)
		assert.Empty(t, ex.HTML)
	})

	t.Run("propagates network errors", func(t *testing.T) {
		t.Parallel()

		s := &extract.Static{
			Downloader: &mock.Downloader{
				DownloadFn: func(ctx context.Context, url string) (*campusqa.Resource, error) {
					return nil, campusqa.Errorf(campusqa.ENETWORK, "HTTP 503 for %s", url)
				},
			},
			Stripper: goquery.NewStripper(),
		}

		_, err := s.Extract(context.Background(), "https://example.edu/a")

		require.Error(t, err)
		assert.Equal(t, campusqa.ENETWORK, campusqa.ErrorCode(err))
	})

	t.Run("retries when delays are configured", func(t *testing.T) {
		t.Parallel()

		calls := 0
		s := &extract.Static{
			Downloader: &mock.Downloader{
				DownloadFn: func(ctx context.Context, url string) (*campusqa.Resource, error) {
					calls++
					if calls == 1 {
						return nil, campusqa.Errorf(campusqa.ENETWORK, "connection reset")
					}
					return &campusqa.Resource{URL: url, ContentType: "text/html", Body: []byte("<p>ok</p>")}, nil
				},
			},
			Stripper:    goquery.NewStripper(),
			RetryDelays: []time.Duration{time.Millisecond},
		}

		ex, err := s.Extract(context.Background(), "https://example.edu/a")

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.Equal(t, "ok", ex.Text)
	})
}

func TestPDF_Extract(t *testing.T) {
	t.Parallel()

	t.Run("parses downloaded bytes", func(t *testing.T) {
		t.Parallel()

		p := &extract.PDF{
			Downloader: downloader("application/octet-stream", "%PDF-1.4"),
			Parser: &mock.PDFParser{
				ParseFn: func(data []byte) (string, error) {
					return "Page one\nPage two", nil
				},
			},
		}

		ex, err := p.Extract(context.Background(), "https://example.edu/brochure.pdf")

		require.NoError(t, err)
		assert.Equal(t, campusqa.MethodPDF, ex.Method)
		assert.Equal(t, "Page one\nPage two", ex.Text)
	})

	t.Run("parser failures are extraction errors", func(t *testing.T) {
		t.Parallel()

		p := &extract.PDF{
			Downloader: downloader("application/pdf", "garbage"),
			Parser: &mock.PDFParser{
				ParseFn: func(data []byte) (string, error) {
					return "", errors.New("malformed xref")
				},
			},
		}

		_, err := p.Extract(context.Background(), "https://example.edu/brochure.pdf")

		require.Error(t, err)
		assert.Equal(t, campusqa.EEXTRACT, campusqa.ErrorCode(err))
	})
}

func TestRendered_Extract(t *testing.T) {
	t.Parallel()

	const page = `<html><body><nav>Menu</nav><main><p>Hostel rooms are shared.</p></main></body></html>`

	fetcher := func(html string) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return html, nil
			},
		}
	}

	t.Run("uses content heuristic when it finds text", func(t *testing.T) {
		t.Parallel()

		r := &extract.Rendered{
			Fetcher: fetcher(page),
			Content: &mock.ContentExtractor{
				ExtractFn: func(html string) (*campusqa.ExtractResult, error) {
					return &campusqa.ExtractResult{Text: "Hostel rooms are shared."}, nil
				},
			},
			Stripper: goquery.NewStripper(),
		}

		ex, err := r.Extract(context.Background(), "https://example.edu/hostel")

		require.NoError(t, err)
		assert.Equal(t, campusqa.MethodRenderedHTML, ex.Method)
		assert.Equal(t, "Hostel rooms are shared.", ex.Text)
		assert.Equal(t, page, ex.HTML)
	})

	t.Run("falls back to stripping when heuristic is empty", func(t *testing.T) {
		t.Parallel()

		r := &extract.Rendered{
			Fetcher: fetcher(page),
			Content: &mock.ContentExtractor{
				ExtractFn: func(html string) (*campusqa.ExtractResult, error) {
					return &campusqa.ExtractResult{Text: "  \n "}, nil
				},
			},
			Stripper: goquery.NewStripper(),
		}

		ex, err := r.Extract(context.Background(), "https://example.edu/hostel")

		require.NoError(t, err)
		assert.Contains(t, ex.Text, "Menu")
		assert.Contains(t, ex.Text, "Hostel rooms are shared.")
	})

	t.Run("falls back to stripping when heuristic fails", func(t *testing.T) {
		t.Parallel()

		var logged []string
		r := &extract.Rendered{
			Fetcher: fetcher(page),
			Content: &mock.ContentExtractor{
				ExtractFn: func(html string) (*campusqa.ExtractResult, error) {
					return nil, campusqa.Errorf(campusqa.EEXTRACT, "not enough text")
				},
			},
			Stripper: goquery.NewStripper(),
			Log: func(format string, args ...any) {
				logged = append(logged, format)
			},
		}

		ex, err := r.Extract(context.Background(), "https://example.edu/hostel")

		require.NoError(t, err)
		assert.Contains(t, ex.Text, "Hostel rooms are shared.")
		assert.Len(t, logged, 1)
	})

	t.Run("fallback output is never empty when the page has visible text", func(t *testing.T) {
		t.Parallel()

		pages := []string{
			`<html><body><p>Only paragraph</p></body></html>`,
			`<html><body><div><span>Nested</span> <b>inline</b> text</div></body></html>`,
			`<html><body><table><tr><td>Fee</td><td>1200</td></tr></table></body></html>`,
			`<html><head><style>p{}</style></head><body>Bare body text<script>x()</script></body></html>`,
		}
		empty := &mock.ContentExtractor{
			ExtractFn: func(html string) (*campusqa.ExtractResult, error) {
				return &campusqa.ExtractResult{}, nil
			},
		}

		for _, html := range pages {
			r := &extract.Rendered{Fetcher: fetcher(html), Content: empty, Stripper: goquery.NewStripper()}

			ex, err := r.Extract(context.Background(), "https://example.edu/p")

			require.NoError(t, err, html)
			assert.NotEmpty(t, ex.Text, html)
		}
	})

	t.Run("render errors propagate", func(t *testing.T) {
		t.Parallel()

		r := &extract.Rendered{
			Fetcher: &mock.Fetcher{
				FetchFn: func(ctx context.Context, url string) (string, error) {
					return "", campusqa.Errorf(campusqa.ERENDER, "wait for body: timeout")
				},
			},
			Stripper: goquery.NewStripper(),
		}

		_, err := r.Extract(context.Background(), "https://example.edu/p")

		require.Error(t, err)
		assert.Equal(t, campusqa.ERENDER, campusqa.ErrorCode(err))
	})
}

func TestRouter_Extract(t *testing.T) {
	t.Parallel()

	variant := func(m campusqa.ExtractionMethod) *mock.Extractor {
		return &mock.Extractor{
			ExtractFn: func(ctx context.Context, url string) (*campusqa.Extraction, error) {
				return &campusqa.Extraction{Text: url, Method: m}, nil
			},
		}
	}

	tests := []struct {
		name       string
		htmlMethod campusqa.ExtractionMethod
		url        string
		want       campusqa.ExtractionMethod
	}{
		{"pdf by extension", campusqa.MethodStaticHTML, "https://example.edu/a.PDF", campusqa.MethodPDF},
		{"static html", campusqa.MethodStaticHTML, "https://example.edu/a", campusqa.MethodStaticHTML},
		{"rendered html", campusqa.MethodRenderedHTML, "https://example.edu/a", campusqa.MethodRenderedHTML},
		{"pdf wins over rendered", campusqa.MethodRenderedHTML, "https://example.edu/f.pdf?v=1", campusqa.MethodPDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &extract.Router{
				HTMLMethod: tt.htmlMethod,
				PDF:        variant(campusqa.MethodPDF),
				Static:     variant(campusqa.MethodStaticHTML),
				Rendered:   variant(campusqa.MethodRenderedHTML),
			}

			ex, err := r.Extract(context.Background(), tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ex.Method)
		})
	}

	t.Run("missing variant is invalid", func(t *testing.T) {
		t.Parallel()

		r := &extract.Router{HTMLMethod: campusqa.MethodRenderedHTML, Static: variant(campusqa.MethodStaticHTML)}

		_, err := r.Extract(context.Background(), "https://example.edu/a")

		require.Error(t, err)
		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(err))
	})
}
