package pdf_test

import (
	"testing"

	"github.com/fwojciec/campusqa"
	"github.com/fwojciec/campusqa/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewParser().Parse(nil)

		require.Error(t, err)
		assert.Equal(t, campusqa.EEXTRACT, campusqa.ErrorCode(err))
	})

	t.Run("rejects non-PDF bytes", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewParser().Parse([]byte("<html><body>not a pdf</body></html>"))

		require.Error(t, err)
		assert.Equal(t, campusqa.EEXTRACT, campusqa.ErrorCode(err))
	})

	t.Run("rejects truncated PDF", func(t *testing.T) {
		t.Parallel()

		_, err := pdf.NewParser().Parse([]byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"))

		require.Error(t, err)
		assert.Equal(t, campusqa.EEXTRACT, campusqa.ErrorCode(err))
	})
}
