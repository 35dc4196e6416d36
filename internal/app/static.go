package app

import (
	"bufio"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/marquee/internal/markdown"
	"github.com/wilbur182/marquee/internal/slides"
)

// DefaultStaticWidth is used when the output width is unknown.
const DefaultStaticWidth = 80

// RenderStatic writes every slide visible to enabler as plain text. It is the
// output path for pipes and other non-interactive runs.
func RenderStatic(w io.Writer, deck *slides.Deck, enabler slides.Enabler, width int) error {
	if width <= 0 {
		width = DefaultStaticWidth
	}
	bw := bufio.NewWriter(w)

	for i, s := range deck.Visible(enabler) {
		if i > 0 {
			bw.WriteString("\n")
		}
		title := ansi.Truncate(s.Title, width, "…")
		bw.WriteString(title)
		bw.WriteString("\n")
		bw.WriteString(strings.Repeat("=", ansi.StringWidth(title)))
		bw.WriteString("\n\n")

		var lines []string
		if s.IsCode() {
			lines = strings.Split(strings.TrimRight(s.Body, "\n"), "\n")
		} else {
			lines = markdown.WrapText(s.Body, width)
		}
		for _, line := range lines {
			bw.WriteString(line)
			bw.WriteString("\n")
		}
	}
	return bw.Flush()
}
