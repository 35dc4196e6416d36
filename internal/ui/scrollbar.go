// Package ui holds small rendering helpers shared by views.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ScrollbarParams configures a vertical scrollbar rendering.
type ScrollbarParams struct {
	TotalLines   int // Total lines of content
	ScrollOffset int // Index of the first visible line
	VisibleLines int // Lines that fit in the viewport
	TrackHeight  int // Height of the scrollbar track in terminal rows

	Track lipgloss.Style
	Thumb lipgloss.Style
}

// RenderScrollbar returns a single-column string (newline-separated)
// representing a vertical scrollbar track. Returns a column of spaces
// if all content is visible so the column width stays reserved.
// Output has exactly TrackHeight lines, each 1 character wide.
func RenderScrollbar(params ScrollbarParams) string {
	if params.TrackHeight < 1 {
		return ""
	}

	if params.TotalLines <= params.VisibleLines {
		return strings.TrimSuffix(strings.Repeat(" \n", params.TrackHeight), "\n")
	}

	// Thumb size: proportional to visible fraction, minimum 1, clamped to track.
	thumbSize := (params.VisibleLines * params.TrackHeight) / params.TotalLines
	thumbSize = max(thumbSize, 1)
	thumbSize = min(thumbSize, params.TrackHeight)

	// Thumb position: proportional to scroll offset within scrollable range.
	maxOffset := max(params.TotalLines-params.VisibleLines, 1)
	thumbPos := (params.ScrollOffset * (params.TrackHeight - thumbSize)) / maxOffset
	thumbPos = max(thumbPos, 0)
	thumbPos = min(thumbPos, params.TrackHeight-thumbSize)

	trackChar := params.Track.Render("│")
	thumbChar := params.Thumb.Render("┃")

	lines := make([]string, params.TrackHeight)
	for i := range params.TrackHeight {
		if i >= thumbPos && i < thumbPos+thumbSize {
			lines[i] = thumbChar
		} else {
			lines[i] = trackChar
		}
	}

	return strings.Join(lines, "\n")
}
