package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/marquee/internal/carousel"
	"github.com/wilbur182/marquee/internal/slides"
)

// StyleChangedMsg carries a new carousel style from the style store.
type StyleChangedMsg struct {
	Style carousel.Style
}

// DeckReloadedMsg carries a freshly loaded deck, or the error loading it.
type DeckReloadedMsg struct {
	Deck *slides.Deck
	Err  error
}

// FlagsChangedMsg reports that the named feature flags changed value.
type FlagsChangedMsg struct {
	Names []string
}

// ToastMsg shows a temporary status message.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

type autoplayTickMsg struct {
	gen int
}

type clearToastMsg struct {
	gen int
}

// ShowToast returns a command that displays a toast.
func ShowToast(message string, d time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: d}
	}
}

// LoadDeck returns a command that loads the deck at path.
func LoadDeck(path string) tea.Cmd {
	return func() tea.Msg {
		deck, err := slides.Load(path)
		return DeckReloadedMsg{Deck: deck, Err: err}
	}
}
