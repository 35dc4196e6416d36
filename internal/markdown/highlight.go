package markdown

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

// Highlighter provides syntax highlighting for code slides using Chroma.
type Highlighter struct {
	lexer chroma.Lexer
	style *chroma.Style
}

// NewHighlighter creates a highlighter for a language name, alias or file name.
// Returns nil if no lexer is available.
func NewHighlighter(lang, theme string) *Highlighter {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Match(lang)
	}
	if lexer == nil {
		return nil
	}

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		lexer: chroma.Coalesce(lexer),
		style: style,
	}
}

// Segment is a run of text sharing one style.
type Segment struct {
	Text  string
	Style lipgloss.Style
}

// Highlight tokenizes and highlights a line of code.
func (h *Highlighter) Highlight(line string) []Segment {
	if h == nil || h.lexer == nil {
		return []Segment{{Text: line, Style: lipgloss.NewStyle()}}
	}

	iterator, err := h.lexer.Tokenise(nil, line)
	if err != nil {
		return []Segment{{Text: line, Style: lipgloss.NewStyle()}}
	}

	var segments []Segment
	for _, token := range iterator.Tokens() {
		// Chroma appends newlines to some tokens; they break lipgloss widths.
		text := strings.TrimSuffix(token.Value, "\n")
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:  text,
			Style: h.tokenStyle(token.Type),
		})
	}

	return segments
}

// Render highlights every line of code and returns the styled lines.
func (h *Highlighter) Render(code string) []string {
	code = strings.TrimRight(code, "\n")
	src := strings.Split(code, "\n")
	out := make([]string, 0, len(src))
	for _, line := range src {
		var sb strings.Builder
		for _, seg := range h.Highlight(line) {
			sb.WriteString(seg.Style.Render(seg.Text))
		}
		out = append(out, sb.String())
	}
	return out
}

// tokenStyle converts a Chroma token type to a lipgloss style.
func (h *Highlighter) tokenStyle(tokenType chroma.TokenType) lipgloss.Style {
	entry := h.style.Get(tokenType)
	style := lipgloss.NewStyle()

	if entry.Colour.IsSet() {
		style = style.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		style = style.Bold(true)
	}
	// Italic is skipped: its escape sequences skew width math in some terminals.
	if entry.Underline == chroma.Yes {
		style = style.Underline(true)
	}

	return style
}
