package campusqa_test

import (
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/campusqa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "forces https",
			url:  "http://example.com/about",
			want: "https://example.com/about",
		},
		{
			name: "strips www prefix",
			url:  "https://www.example.com/about",
			want: "https://example.com/about",
		},
		{
			name: "lowercases host",
			url:  "https://WWW.Example.COM/About",
			want: "https://example.com/About",
		},
		{
			name: "strips trailing slash",
			url:  "https://example.com/departments/",
			want: "https://example.com/departments",
		},
		{
			name: "strips index.html",
			url:  "https://example.com/departments/index.html",
			want: "https://example.com/departments",
		},
		{
			name: "root collapses to host",
			url:  "https://www.example.com/",
			want: "https://example.com",
		},
		{
			name: "root index.html collapses to host",
			url:  "https://example.com/index.html",
			want: "https://example.com",
		},
		{
			name: "decodes path",
			url:  "https://example.com/Time%20Table/caf%C3%A9",
			want: "https://example.com/Time%20Table/café",
		},
		{
			name: "keeps invalid utf-8 escaped",
			url:  "https://example.com/%C3/x%FFy",
			want: "https://example.com/%C3/x%FFy",
		},
		{
			name: "keeps escaped question mark escaped",
			url:  "https://example.com/what%3Fnow",
			want: "https://example.com/what%3Fnow",
		},
		{
			name: "drops fragment",
			url:  "https://example.com/page#section",
			want: "https://example.com/page",
		},
		{
			name: "keeps query",
			url:  "https://example.com/notice.php?id=12",
			want: "https://example.com/notice.php?id=12",
		},
		{
			name: "repeated slashes and index files",
			url:  "https://example.com/a//index.html/",
			want: "https://example.com/a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := campusqa.NormalizeURL(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Idempotent(t *testing.T) {
	t.Parallel()

	urls := []string{
		"http://www.example.com/a/",
		"https://example.com/a/index.html",
		"https://example.com/index.html/index.html",
		"https://www.www.example.com/x",
		"https://example.com/100%25",
		"https://example.com/a%23b",
		"https://example.com/a%3Fb?c=d",
		"https://example.com/with%20space/",
		"https://example.com/caf%C3%A9/",
		"https://example.com/%C3",
		"https://example.com/caf%C3%A9%E9",
		"https://example.com/search?q=a+b&x=%2F",
		"https://example.com:8443/port/",
	}

	for _, u := range urls {
		once, err := campusqa.NormalizeURL(u)
		require.NoError(t, err, u)
		twice, err := campusqa.NormalizeURL(once)
		require.NoError(t, err, once)
		assert.Equal(t, once, twice, "normalize not idempotent for %q", u)
		assert.True(t, utf8.ValidString(once), "normalized %q is not valid utf-8", u)
	}
}

func TestNormalizeURL_Equivalence(t *testing.T) {
	t.Parallel()

	a, err := campusqa.NormalizeURL("https://www.example.com/a/")
	require.NoError(t, err)
	b, err := campusqa.NormalizeURL("https://example.com/a/index.html")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestNormalizeURL_Invalid(t *testing.T) {
	t.Parallel()

	for _, u := range []string{"mailto:admissions@example.com", "/relative/path", "http://[::1"} {
		_, err := campusqa.NormalizeURL(u)
		require.Error(t, err, u)
		assert.Equal(t, campusqa.EINVALID, campusqa.ErrorCode(err))
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example.com", campusqa.Host("https://example.com/a"))
	assert.Equal(t, "example.com:8443", campusqa.Host("https://example.com:8443/a"))
	assert.Empty(t, campusqa.Host("http://[::1"))
}

func TestExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".pdf", campusqa.Extension("https://example.com/files/Brochure.PDF"))
	assert.Equal(t, ".pdf", campusqa.Extension("https://example.com/files/brochure.pdf?v=2"))
	assert.Equal(t, ".php", campusqa.Extension("https://example.com/notice.php?id=1"))
	assert.Empty(t, campusqa.Extension("https://example.com/about"))
	assert.Empty(t, campusqa.Extension("https://example.com"))
}
