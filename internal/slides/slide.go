// Package slides loads markdown slide decks from disk.
package slides

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Slide is one markdown file of a deck.
type Slide struct {
	Name    string // file name without extension
	Path    string
	Title   string
	Flag    string // feature flag gating the slide; empty means always shown
	Lang    string // non-empty marks a code slide highlighted as Lang
	Order   int
	Body    string // markdown (or code) without front matter
	ModTime time.Time
}

// IsCode reports whether the slide body is source code rather than markdown.
func (s Slide) IsCode() bool {
	return s.Lang != ""
}

type frontMatter struct {
	Title string `yaml:"title" toml:"title" json:"title"`
	Flag  string `yaml:"flag" toml:"flag" json:"flag"`
	Lang  string `yaml:"lang" toml:"lang" json:"lang"`
	Order int    `yaml:"order" toml:"order" json:"order"`
}

var headingParser = goldmark.New(goldmark.WithExtensions(extension.GFM)).Parser()

// Parse builds a Slide from raw file contents. The title comes from front
// matter, then the first heading, then the file name.
func Parse(path string, source []byte) (Slide, error) {
	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Slide{}, fmt.Errorf("parse front matter %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s := Slide{
		Name:  name,
		Path:  path,
		Title: strings.TrimSpace(meta.Title),
		Flag:  strings.TrimSpace(meta.Flag),
		Lang:  strings.TrimSpace(meta.Lang),
		Order: meta.Order,
		Body:  strings.TrimLeft(string(body), "\n"),
	}

	if s.Title == "" && !s.IsCode() {
		s.Title = FirstHeading(body)
	}
	if s.Title == "" {
		s.Title = name
	}
	return s, nil
}

// FirstHeading returns the plain text of the first heading in markdown src.
func FirstHeading(src []byte) string {
	doc := headingParser.Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title = nodeText(h, src)
		return ast.WalkStop, nil
	})
	return strings.TrimSpace(title)
}

func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
