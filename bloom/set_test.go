package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/campusqa/bloom"
	"github.com/stretchr/testify/assert"
)

func TestSet_AddAndContains(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.False(t, s.Contains("https://example.com/page1"))

	assert.True(t, s.Add("https://example.com/page1"))

	assert.True(t, s.Contains("https://example.com/page1"))
	assert.False(t, s.Contains("https://example.com/page2"))
}

func TestSet_AddReportsDuplicates(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(1000, 0.01)

	assert.True(t, s.Add("https://example.com/a"))
	assert.False(t, s.Add("https://example.com/a"))
	assert.False(t, s.Add("https://example.com/a"))
	assert.Equal(t, 1, s.Len())
}

// A deliberately undersized filter saturates quickly; the exact set must
// still answer every lookup correctly.
func TestSet_FalsePositivesNeverDropItems(t *testing.T) {
	t.Parallel()

	s := bloom.NewSet(8, 0.5)

	for i := range 500 {
		assert.True(t, s.Add(fmt.Sprintf("https://example.com/page%d", i)), "page%d", i)
	}
	for i := 500; i < 1000; i++ {
		assert.False(t, s.Contains(fmt.Sprintf("https://example.com/page%d", i)), "page%d", i)
	}

	assert.Equal(t, 500, s.Len())
}
