package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/marquee/internal/carousel"
	"github.com/wilbur182/marquee/internal/styles"
)

// openSwitcher shows the style picker with the current style selected.
func (m *Model) openSwitcher() {
	m.showSwitcher = true
	m.switcherCursor = 0
	for i, s := range carousel.Styles() {
		if s == m.style {
			m.switcherCursor = i
			break
		}
	}
}

func (m Model) handleSwitcherKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	all := carousel.Styles()

	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Switcher):
		m.showSwitcher = false
		return m, nil

	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Prev):
		if m.switcherCursor > 0 {
			m.switcherCursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Next):
		if m.switcherCursor < len(all)-1 {
			m.switcherCursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		m.showSwitcher = false
		chosen := all[m.switcherCursor]
		if chosen != m.store.Current() {
			m.store.Set(chosen)
		}
		return m, m.setToast("Style: "+styles.GetTheme(chosen).DisplayName, false)
	}

	return m, nil
}

func (m Model) switcherView() string {
	var sb strings.Builder
	sb.WriteString(m.sheet.ModalTitle.Render("Carousel Style"))
	sb.WriteString("\n")

	for i, s := range carousel.Styles() {
		name := styles.GetTheme(s).DisplayName
		if s == m.style {
			name += " (current)"
		}
		if i == m.switcherCursor {
			sb.WriteString(m.sheet.ListCursor.Render("> "))
			sb.WriteString(m.sheet.ListItemSelected.Render(name))
		} else {
			sb.WriteString("  ")
			sb.WriteString(m.sheet.ListItemNormal.Render(name))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.sheet.KeyHint.Render("enter"))
	sb.WriteString(" apply  ")
	sb.WriteString(m.sheet.KeyHint.Render("esc"))
	sb.WriteString(" close")

	return m.sheet.ModalBox.Render(sb.String())
}
