package slides

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoSlides is returned when a deck path holds no markdown files.
var ErrNoSlides = errors.New("no slides found")

// Enabler answers feature flag lookups. features.Reader satisfies it.
type Enabler interface {
	IsEnabled(name string) bool
}

// Deck is an ordered set of slides.
type Deck struct {
	Dir    string
	Slides []Slide
}

// Len returns the number of slides, including gated ones.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Slides)
}

// Visible returns the slides whose flag is unset or enabled. A nil Enabler
// hides every gated slide.
func (d *Deck) Visible(e Enabler) []Slide {
	if d == nil {
		return nil
	}
	out := make([]Slide, 0, len(d.Slides))
	for _, s := range d.Slides {
		if s.Flag != "" && (e == nil || !e.IsEnabled(s.Flag)) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// IsSlideFile reports whether name is a markdown file LoadDir would read.
func IsSlideFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Load reads a deck from path, which may be a directory or a single file.
func Load(path string) (*Deck, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load deck: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	s, err := loadFile(path, info)
	if err != nil {
		return nil, err
	}
	return &Deck{Dir: filepath.Dir(path), Slides: []Slide{s}}, nil
}

// LoadDir reads every markdown file directly under dir, sorted by front
// matter order and then by file name.
func LoadDir(dir string) (*Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read deck dir: %w", err)
	}

	deck := &Deck{Dir: dir}
	for _, entry := range entries {
		if entry.IsDir() || !IsSlideFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", entry.Name(), err)
		}
		s, err := loadFile(filepath.Join(dir, entry.Name()), info)
		if err != nil {
			return nil, err
		}
		deck.Slides = append(deck.Slides, s)
	}

	if len(deck.Slides) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSlides, dir)
	}

	sort.SliceStable(deck.Slides, func(i, j int) bool {
		a, b := deck.Slides[i], deck.Slides[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Name < b.Name
	})
	return deck, nil
}

func loadFile(path string, info os.FileInfo) (Slide, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Slide{}, fmt.Errorf("read slide: %w", err)
	}
	s, err := Parse(path, data)
	if err != nil {
		return Slide{}, err
	}
	s.ModTime = info.ModTime()
	return s, nil
}
