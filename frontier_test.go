package campusqa_test

import (
	"testing"

	"github.com/fwojciec/campusqa"
	"github.com/stretchr/testify/assert"
)

func TestCrawlSnapshot_Pending(t *testing.T) {
	t.Parallel()

	t.Run("queued minus visited in enqueue order", func(t *testing.T) {
		t.Parallel()

		s := &campusqa.CrawlSnapshot{
			Queued:  []string{"https://example.com", "https://example.com/a", "https://example.com/b", "https://example.com/c"},
			Visited: []string{"https://example.com", "https://example.com/b"},
		}

		assert.Equal(t, []string{"https://example.com/a", "https://example.com/c"}, s.Pending())
	})

	t.Run("repeated queue entries appear once", func(t *testing.T) {
		t.Parallel()

		s := &campusqa.CrawlSnapshot{
			Queued: []string{"https://example.com/a", "https://example.com/a"},
		}

		assert.Equal(t, []string{"https://example.com/a"}, s.Pending())
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, (&campusqa.CrawlSnapshot{}).Pending())
	})
}
