package markdown

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	lines := WrapText("the quick brown fox jumps over the lazy dog", 10)
	require.NotEmpty(t, lines)
	for _, l := range lines {
		assert.LessOrEqual(t, ansi.StringWidth(l), 10, l)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog",
		strings.Join(strings.Fields(strings.Join(lines, " ")), " "))
}

func TestWrapText_Paragraphs(t *testing.T) {
	lines := WrapText("one\ntwo\n\nthree", 40)
	assert.Equal(t, []string{"one two", "", "three"}, lines)
}

func TestWrapText_Edges(t *testing.T) {
	assert.Empty(t, WrapText("   \n ", 20))
	assert.Equal(t, []string{"abc"}, WrapText("abc", 0))
}

func TestRenderContent_NarrowFallsBack(t *testing.T) {
	r := NewRenderer()
	lines := r.RenderContent("# Title\n\nbody text", MinWidthForMarkdown-1)
	assert.Equal(t, []string{"# Title", "", "body text"}, lines)
	assert.Zero(t, r.CacheLen())
}

func TestRenderContent_Empty(t *testing.T) {
	r := NewRenderer()
	assert.Empty(t, r.RenderContent("", 80))
}

func TestRenderContent_CachesPerTheme(t *testing.T) {
	r := NewRenderer(WithTheme("dark"))
	assert.Equal(t, "dark", r.Theme())

	first := r.RenderContent("# Hello\n\nworld", 60)
	require.NotEmpty(t, first)
	assert.Contains(t, ansi.Strip(strings.Join(first, "\n")), "Hello")
	assert.Equal(t, 1, r.CacheLen())

	again := r.RenderContent("# Hello\n\nworld", 60)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, r.CacheLen())

	r.SetTheme("light")
	r.RenderContent("# Hello\n\nworld", 60)
	assert.Equal(t, 2, r.CacheLen())

	r.SetTheme("")
	assert.Equal(t, DefaultTheme, r.Theme())
}

func TestCacheKey(t *testing.T) {
	base := cacheKey("x", 80, "dark")
	assert.Equal(t, base, cacheKey("x", 80, "dark"))
	assert.NotEqual(t, base, cacheKey("x", 81, "dark"))
	assert.NotEqual(t, base, cacheKey("x", 80, "light"))
	assert.NotEqual(t, base, cacheKey("y", 80, "dark"))
}
