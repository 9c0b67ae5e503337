package main

import (
	"fmt"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/crawl"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	if c.Reset {
		if err := deps.State.Reset(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
			return err
		}
	}

	method := campusqa.MethodStaticHTML
	if c.Render {
		method = campusqa.MethodRenderedHTML
	}

	session, err := crawl.NewSession(deps.Ctx, crawl.Config{
		StartURL:          c.URL,
		IgnoredExtensions: c.Ignore,
		ConfirmExtensions: c.Confirm,
		Interactive:       c.Interactive,
		HTMLMethod:        method,
		MaxPages:          c.MaxPages,
		UseSitemap:        c.Sitemap,
	}, deps.State)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}

	if session.Resumed() {
		fmt.Fprintf(deps.Stdout, "Resuming crawl of %s: %d visited, %d queued\n",
			session.Domain, session.Visited(), session.Frontier.Len())
	} else {
		fmt.Fprintf(deps.Stdout, "Crawling %s\n", session.Domain)
	}

	result, err := deps.Crawler.Run(deps.Ctx, session, c.progress(deps))
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", campusqa.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "\nDone: %s\n", crawl.FormatResult(result))
	if result.Interrupted {
		fmt.Fprintln(deps.Stdout, "Run the same command again to resume.")
	}
	return nil
}

const urlWidth = 60

func (c *CrawlCmd) progress(deps *Dependencies) crawl.ProgressFunc {
	return func(ev crawl.ProgressEvent) {
		switch ev.Outcome {
		case crawl.Seeded:
			if ev.Err != nil {
				deps.Logger.Warn("sitemap discovery failed", "url", ev.URL, "err", ev.Err)
			}
			fmt.Fprintf(deps.Stdout, "Sitemap: %d new URLs queued\n", ev.Discovered)
			return
		case crawl.Failed:
			deps.Logger.Warn("fetch failed", "url", ev.URL, "err", ev.Err)
		}

		line := fmt.Sprintf("[%d visited, %d queued] %-16s %s",
			ev.Visited, ev.Queued, ev.Outcome, crawl.TruncateURL(ev.URL, urlWidth))
		if ev.Outcome == crawl.Extracted {
			line += fmt.Sprintf(" (%s, %s)", crawl.FormatBytes(ev.Bytes), ev.Method)
		}
		fmt.Fprintln(deps.Stdout, line)
	}
}
