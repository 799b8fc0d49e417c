package hackernews

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniketraj30/hackernews-scraper/internal/model"
)

func loadFixture(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", "frontpage.html"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestParsePage_FrontPage(t *testing.T) {
	base, _ := url.Parse("https://news.ycombinator.com/")
	items, err := ParsePage(loadFixture(t), base)
	require.NoError(t, err)

	want := []model.Candidate{
		{Title: "Alpha launches", Link: "https://example.com/alpha", Points: 123},
		{Title: "Ask HN: Beta question", Link: "https://news.ycombinator.com/item?id=102", Points: 1},
		{Title: "Gamma is hiring", Link: "https://jobs.example.org/", Points: 0},
		{Title: "Delta legacy markup", Link: "https://legacy.example.net/delta", Points: 0},
		{Title: "", Link: "", Points: 7},
	}
	assert.Equal(t, want, items)
}

func TestParsePage_NilBaseKeepsRelativeLinks(t *testing.T) {
	items, err := ParsePage(loadFixture(t), nil)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "item?id=102", items[1].Link)
}

func TestParsePage_NoStories(t *testing.T) {
	items, err := ParsePage(strings.NewReader("<html><body><p>maintenance</p></body></html>"), nil)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParsePoints(t *testing.T) {
	cases := map[string]int{
		"10 points":    10,
		"1 point":      1,
		"  42 points ": 42,
		"":             0,
		"points":       0,
		"abc points":   0,
		"-3 points":    0,
	}
	for in, want := range cases {
		assert.Equal(t, want, parsePoints(in), "input %q", in)
	}
	assert.Zero(t, parsePoints("99999999999999999999 points"), "overflow")
}
