package campusqa_test

import (
	"testing"

	"github.com/fwojciec/campusqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		html campusqa.ExtractionMethod
		want campusqa.ExtractionMethod
	}{
		{"https://example.com/brochure.pdf", campusqa.MethodStaticHTML, campusqa.MethodPDF},
		{"https://example.com/brochure.PDF", campusqa.MethodRenderedHTML, campusqa.MethodPDF},
		{"https://example.com/about", campusqa.MethodStaticHTML, campusqa.MethodStaticHTML},
		{"https://example.com/about", campusqa.MethodRenderedHTML, campusqa.MethodRenderedHTML},
		{"https://example.com/pdf-guide", campusqa.MethodStaticHTML, campusqa.MethodStaticHTML},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, campusqa.Classify(tt.url, tt.html), tt.url)
	}
}

func TestParseExtractionMethod(t *testing.T) {
	t.Parallel()

	for _, m := range []campusqa.ExtractionMethod{campusqa.MethodPDF, campusqa.MethodStaticHTML, campusqa.MethodRenderedHTML} {
		got, err := campusqa.ParseExtractionMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := campusqa.ParseExtractionMethod("selenium")
	assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(err))
}

func TestDocumentID(t *testing.T) {
	t.Parallel()

	id := campusqa.DocumentID("https://example.com/about")

	assert.Len(t, id, 16)
	assert.Equal(t, id, campusqa.DocumentID("https://example.com/about"), "ID must be stable")
	assert.NotEqual(t, id, campusqa.DocumentID("https://example.com/contact"))
}

func TestNewDocument(t *testing.T) {
	t.Parallel()

	doc := campusqa.NewDocument("https://example.com/about", "About us", campusqa.MethodStaticHTML)

	assert.Equal(t, campusqa.DocumentID("https://example.com/about"), doc.ID)
	assert.Equal(t, doc.ID+".txt", doc.Filename())
	require.NoError(t, doc.Validate())
}

func TestDocument_Validate(t *testing.T) {
	t.Parallel()

	t.Run("requires text", func(t *testing.T) {
		t.Parallel()

		doc := campusqa.NewDocument("https://example.com/about", "", campusqa.MethodStaticHTML)

		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(doc.Validate()))
	})

	t.Run("requires source URL", func(t *testing.T) {
		t.Parallel()

		doc := &campusqa.Document{ID: "abc", Text: "text"}

		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(doc.Validate()))
	})
}
