package slides

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wilbur182/marquee/internal/features"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParse_FrontMatter(t *testing.T) {
	src := "---\ntitle: Roadmap\nflag: carousel_autoplay\norder: 3\n---\n\n# Ignored heading\n\nbody\n"
	s, err := Parse("deck/02-roadmap.md", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "02-roadmap", s.Name)
	assert.Equal(t, "Roadmap", s.Title)
	assert.Equal(t, "carousel_autoplay", s.Flag)
	assert.Equal(t, 3, s.Order)
	assert.Equal(t, "# Ignored heading\n\nbody\n", s.Body)
	assert.False(t, s.IsCode())
}

func TestParse_TitleFromHeading(t *testing.T) {
	s, err := Parse("intro.md", []byte("Some text\n\n## Hello `world` *again*\n\n# Later\n"))
	require.NoError(t, err)
	assert.Equal(t, "Hello world again", s.Title)
}

func TestParse_TitleFromFileName(t *testing.T) {
	s, err := Parse("notes.md", []byte("just a paragraph\n"))
	require.NoError(t, err)
	assert.Equal(t, "notes", s.Title)
}

func TestParse_CodeSlide(t *testing.T) {
	src := "---\nlang: go\n---\n# not a heading in Go\nfunc main() {}\n"
	s, err := Parse("main.md", []byte(src))
	require.NoError(t, err)
	assert.True(t, s.IsCode())
	assert.Equal(t, "go", s.Lang)
	assert.Equal(t, "main", s.Title)
}

func TestParse_BadFrontMatter(t *testing.T) {
	_, err := Parse("bad.md", []byte("---\ntitle: [unclosed\n---\nbody\n"))
	assert.Error(t, err)
}

func TestFirstHeading_None(t *testing.T) {
	assert.Empty(t, FirstHeading([]byte("plain\n\n- list\n")))
}

func TestLoadDir_OrderAndFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.md", "# B\n")
	writeFile(t, dir, "a.md", "# A\n")
	writeFile(t, dir, "first.md", "---\norder: -1\n---\n# First\n")
	writeFile(t, dir, "readme.txt", "not a slide")
	writeFile(t, dir, ".hidden.md", "# Hidden\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.md"), 0755))

	deck, err := LoadDir(dir)
	require.NoError(t, err)
	require.Equal(t, 3, deck.Len())

	var titles []string
	for _, s := range deck.Slides {
		titles = append(titles, s.Title)
		assert.False(t, s.ModTime.IsZero())
	}
	assert.Equal(t, []string{"First", "A", "B"}, titles)
}

func TestLoadDir_Empty(t *testing.T) {
	_, err := LoadDir(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoSlides))
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "only.md", "# Only\n")

	deck, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, deck.Len())
	assert.Equal(t, dir, deck.Dir)
	assert.Equal(t, "Only", deck.Slides[0].Title)

	_, err = Load(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDeck_Visible(t *testing.T) {
	deck := &Deck{Slides: []Slide{
		{Name: "open"},
		{Name: "gated", Flag: "carousel_autoplay"},
		{Name: "other", Flag: "style_switcher"},
	}}

	names := func(ss []Slide) []string {
		var out []string
		for _, s := range ss {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"open"}, names(deck.Visible(nil)))

	enabled := features.ProviderFunc(func(name string) bool { return name == "carousel_autoplay" })
	assert.Equal(t, []string{"open", "gated"}, names(deck.Visible(features.NewReader(enabled, true))))

	// Non-interactive readers hide every gated slide.
	assert.Equal(t, []string{"open"}, names(deck.Visible(features.NewReader(enabled, false))))

	var nilDeck *Deck
	assert.Nil(t, nilDeck.Visible(nil))
	assert.Zero(t, nilDeck.Len())
}
