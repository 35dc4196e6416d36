package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/wilbur182/marquee/internal/features"
	"github.com/wilbur182/marquee/internal/markdown"
	"github.com/wilbur182/marquee/internal/ui"
)

const (
	// maxDots is the most slides shown as indicator dots before switching to a counter.
	maxDots = 24

	// scrollbarWidth is the gap plus the scrollbar column.
	scrollbarWidth = 2
)

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	body := m.sheet.Slide.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		" ",
		m.scrollbarView(),
	))
	if len(m.visible) == 0 {
		body = m.sheet.Slide.Render(m.emptyView())
	}

	view := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.dotsView(),
		m.footerView(),
	)

	if m.showSwitcher {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.switcherView())
	}
	return m.sheet.Canvas.Render(view)
}

// resize recomputes the viewport size from the window and footer height.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	frameW := m.sheet.Slide.GetHorizontalFrameSize()
	frameH := m.sheet.Slide.GetVerticalFrameSize()
	m.help.Width = m.width

	chrome := lipgloss.Height(m.headerView()) + lipgloss.Height(m.dotsView()) + lipgloss.Height(m.footerView())
	w := max(m.width-frameW-scrollbarWidth, 1)
	h := max(m.height-chrome-frameH, 1)

	if m.viewport.Width == 0 && m.viewport.Height == 0 {
		m.viewport = viewport.New(w, h)
	} else {
		m.viewport.Width = w
		m.viewport.Height = h
	}
	m.refreshContent()
}

// refreshContent renders the current slide into the viewport.
func (m *Model) refreshContent() {
	if !m.ready || m.viewport.Width <= 0 {
		return
	}
	s, ok := m.Current()
	if !ok {
		m.viewport.SetContent("")
		return
	}

	width := m.viewport.Width
	var lines []string
	if s.IsCode() {
		if m.reader.IsEnabled(features.SyntaxHighlight.Name) {
			lines = markdown.NewHighlighter(s.Lang, m.sheet.SyntaxTheme()).Render(s.Body)
		} else {
			lines = strings.Split(strings.TrimRight(s.Body, "\n"), "\n")
		}
	} else {
		lines = m.renderer.RenderContent(s.Body, width)
	}

	for i, line := range lines {
		lines[i] = fitLine(line, width)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoTop()
}

// fitLine truncates a styled line to width cells.
func fitLine(line string, width int) string {
	if ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "…")
}

func (m Model) headerView() string {
	right := m.style.String()
	if n := len(m.visible); n > 0 {
		right = fmt.Sprintf("%d/%d · %s", m.cursor.Index()+1, n, right)
	}
	if m.autoplay {
		right = "▶ " + right
	}

	inner := max(m.width-m.sheet.Header.GetHorizontalFrameSize(), 0)
	avail := inner - runewidth.StringWidth(right) - 1
	title := ""
	if avail > 0 {
		title = runewidth.Truncate(m.slideTitle(), avail, "…")
	}
	gap := max(inner-runewidth.StringWidth(title)-runewidth.StringWidth(right), 1)

	line := m.sheet.Title.Render(title) + strings.Repeat(" ", gap) + m.sheet.Muted.Render(right)
	return m.sheet.Header.Width(m.width).Render(line)
}

func (m Model) scrollbarView() string {
	return ui.RenderScrollbar(ui.ScrollbarParams{
		TotalLines:   m.viewport.TotalLineCount(),
		ScrollOffset: m.viewport.YOffset,
		VisibleLines: m.viewport.Height,
		TrackHeight:  m.viewport.Height,
		Track:        m.sheet.ScrollbarTrack,
		Thumb:        m.sheet.ScrollbarThumb,
	})
}

func (m Model) dotsView() string {
	n := len(m.visible)
	if n == 0 {
		return ""
	}
	var line string
	if n > maxDots {
		line = m.sheet.DotActive.Render(fmt.Sprintf("%d of %d", m.cursor.Index()+1, n))
	} else {
		dots := make([]string, n)
		for i := range dots {
			if i == m.cursor.Index() {
				dots[i] = m.sheet.DotActive.Render("●")
			} else {
				dots[i] = m.sheet.DotInactive.Render("○")
			}
		}
		line = strings.Join(dots, " ")
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, line)
}

func (m Model) footerView() string {
	if m.toast != "" {
		st := m.sheet.ToastSuccess
		if m.toastIsError {
			st = m.sheet.ToastError
		}
		return st.Render(m.toast)
	}
	if !m.showHelp && !m.help.ShowAll {
		return m.sheet.Footer.Render("? help")
	}
	helpView := m.help.View(m.keys)
	if m.help.ShowAll && m.version != "" {
		helpView += "\n" + m.sheet.Muted.Render("marquee "+m.version)
	}
	return m.sheet.Footer.Render(helpView)
}

func (m Model) emptyView() string {
	msg := "No slides to show"
	if m.deck.Len() > 0 {
		msg = "Every slide in this deck is behind a disabled feature flag"
	}
	w := max(m.viewport.Width, 0)
	h := max(m.viewport.Height, 1)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.sheet.Muted.Render(msg))
}
