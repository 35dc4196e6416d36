package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/wilbur182/marquee/internal/carousel"
	"github.com/wilbur182/marquee/internal/config"
	"github.com/wilbur182/marquee/internal/features"
	"github.com/wilbur182/marquee/internal/markdown"
	"github.com/wilbur182/marquee/internal/slides"
	"github.com/wilbur182/marquee/internal/styles"
)

const toastDuration = 2 * time.Second

// Options wires a Model to its collaborators.
type Options struct {
	Store    carousel.Observable
	Reader   *features.Reader
	Deck     *slides.Deck
	DeckPath string
	Renderer *markdown.Renderer
	Carousel config.CarouselConfig
	ShowHelp bool
	Version  string
	Logger   *slog.Logger

	// Clipboard writes yanked text. Defaults to the system clipboard.
	Clipboard func(string) error
}

// Model is the root Bubble Tea model for the carousel.
type Model struct {
	store    carousel.Observable
	styleSub *styleSubscription
	reader   *features.Reader
	renderer *markdown.Renderer
	logger   *slog.Logger
	copy     func(string) error

	// Deck
	deck     *slides.Deck
	deckPath string
	visible  []slides.Slide
	cursor   carousel.Cursor

	// Appearance
	style     carousel.Style
	sheet     styles.Sheet
	overrides map[string]string

	// UI state
	width, height int
	ready         bool
	viewport      viewport.Model
	help          help.Model
	keys          keyMap
	showHelp      bool
	version       string

	// Autoplay
	autoplay    bool
	autoplayGen int
	interval    time.Duration

	// Style switcher modal
	showSwitcher   bool
	switcherCursor int

	// Status/toast messages
	toast        string
	toastIsError bool
	toastGen     int
}

// New creates the carousel model. The model subscribes to opts.Store
// immediately; call Close when the program exits.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = markdown.NewRenderer(markdown.WithLogger(logger))
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	interval := opts.Carousel.Interval
	if interval < config.MinInterval {
		interval = config.DefaultInterval
	}

	style := opts.Store.Current()
	m := Model{
		store:     opts.Store,
		reader:    opts.Reader,
		renderer:  renderer,
		logger:    logger.With("component", "app"),
		copy:      copyFn,
		deck:      opts.Deck,
		deckPath:  opts.DeckPath,
		overrides: opts.Carousel.Overrides,
		help:      help.New(),
		keys:      newKeyMap(),
		showHelp:  opts.ShowHelp,
		version:   opts.Version,
		interval:  interval,
		cursor:    carousel.NewCursor(0, opts.Carousel.Wrap),
	}
	m.styleSub = subscribeStyles(opts.Store)
	m.applyStyle(style)
	m.refreshVisible()
	return m
}

// Init starts listening for style changes.
func (m Model) Init() tea.Cmd {
	return m.styleSub.wait()
}

// Close detaches the model from the style store.
func (m Model) Close() {
	m.styleSub.close()
}

// Style returns the style the model is currently drawn in.
func (m Model) Style() carousel.Style {
	return m.style
}

// Visible returns the slides currently shown.
func (m Model) Visible() []slides.Slide {
	return m.visible
}

// Current returns the selected slide.
func (m Model) Current() (slides.Slide, bool) {
	i := m.cursor.Index()
	if i < 0 || i >= len(m.visible) {
		return slides.Slide{}, false
	}
	return m.visible[i], true
}

// Autoplay reports whether autoplay is running.
func (m Model) Autoplay() bool {
	return m.autoplay
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case StyleChangedMsg:
		if msg.Style != m.style {
			m.logger.Debug("style changed", "from", m.style, "to", msg.Style)
			m.applyStyle(msg.Style)
			m.refreshContent()
		}
		return m, m.styleSub.wait()

	case DeckReloadedMsg:
		if msg.Err != nil {
			m.logger.Warn("deck reload failed", "err", msg.Err)
			return m, m.setToast("Reload failed: "+msg.Err.Error(), true)
		}
		m.deck = msg.Deck
		m.refreshVisible()
		return m, nil

	case FlagsChangedMsg:
		m.logger.Debug("flags changed", "names", msg.Names)
		m.refreshVisible()
		if m.autoplay && !m.reader.IsEnabled(features.CarouselAutoplay.Name) {
			m.stopAutoplay()
		}
		if m.showSwitcher && !m.reader.IsEnabled(features.StyleSwitcher.Name) {
			m.showSwitcher = false
		}
		return m, nil

	case autoplayTickMsg:
		return m.handleAutoplayTick(msg)

	case ToastMsg:
		d := msg.Duration
		if d <= 0 {
			d = toastDuration
		}
		return m, m.setToastFor(msg.Message, msg.IsError, d)

	case clearToastMsg:
		if msg.gen == m.toastGen {
			m.toast = ""
			m.toastIsError = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.showSwitcher {
			return m.handleSwitcherKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		if m.cursor.Next() {
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		if m.cursor.Prev() {
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keys.First):
		if m.cursor.First() {
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keys.Last):
		if m.cursor.Last() {
			m.refreshContent()
		}
		return m, nil

	case key.Matches(msg, m.keys.Cycle):
		m.store.Update(func(s carousel.Style) carousel.Style { return s.Next() })
		return m, nil

	case key.Matches(msg, m.keys.Switcher):
		if !m.reader.IsEnabled(features.StyleSwitcher.Name) {
			return m, m.setToast("Style switcher is disabled", false)
		}
		m.openSwitcher()
		return m, nil

	case key.Matches(msg, m.keys.Autoplay):
		if !m.reader.IsEnabled(features.CarouselAutoplay.Name) {
			return m, m.setToast("Autoplay is disabled", false)
		}
		if m.autoplay {
			m.stopAutoplay()
			return m, m.setToast("Autoplay off", false)
		}
		return m, tea.Batch(m.startAutoplay(), m.setToast("Autoplay on", false))

	case key.Matches(msg, m.keys.Yank):
		return m, m.yankSlide()

	case key.Matches(msg, m.keys.Reload):
		if m.deckPath == "" {
			return m, nil
		}
		return m, LoadDeck(m.deckPath)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	// Everything else scrolls the slide body.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// applyStyle switches the sheet and markdown theme to style.
func (m *Model) applyStyle(style carousel.Style) {
	m.style = style
	m.sheet = styles.NewSheet(style, m.overrides)
	m.renderer.SetTheme(m.sheet.MarkdownTheme())
	m.help.Styles.ShortKey = m.sheet.Subtitle
	m.help.Styles.ShortDesc = m.sheet.Muted
	m.help.Styles.ShortSeparator = m.sheet.Muted
	m.help.Styles.FullKey = m.sheet.Subtitle
	m.help.Styles.FullDesc = m.sheet.Muted
	m.help.Styles.FullSeparator = m.sheet.Muted
}

// refreshVisible recomputes the visible slides, keeping the current slide
// selected when it is still shown.
func (m *Model) refreshVisible() {
	var currentPath string
	if s, ok := m.Current(); ok {
		currentPath = s.Path
	}

	m.visible = m.deck.Visible(m.reader)
	m.cursor.Resize(len(m.visible))
	if currentPath != "" {
		for i, s := range m.visible {
			if s.Path == currentPath {
				m.cursor.Go(i)
				break
			}
		}
	}

	m.keys.switcherOn = m.reader.IsEnabled(features.StyleSwitcher.Name)
	m.keys.autoplayOn = m.reader.IsEnabled(features.CarouselAutoplay.Name)
	m.refreshContent()
}

// setToast shows a toast for the default duration.
func (m *Model) setToast(message string, isError bool) tea.Cmd {
	return m.setToastFor(message, isError, toastDuration)
}

func (m *Model) setToastFor(message string, isError bool, d time.Duration) tea.Cmd {
	m.toastGen++
	m.toast = message
	m.toastIsError = isError
	gen := m.toastGen
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearToastMsg{gen: gen}
	})
}

// yankSlide copies the current slide's source to the clipboard.
func (m *Model) yankSlide() tea.Cmd {
	s, ok := m.Current()
	if !ok {
		return nil
	}
	if err := m.copy(s.Body); err != nil {
		return m.setToast("Copy failed: "+err.Error(), true)
	}
	return m.setToast(fmt.Sprintf("Yanked %q", s.Title), false)
}

// startAutoplay begins advancing slides on the configured interval.
func (m *Model) startAutoplay() tea.Cmd {
	m.autoplay = true
	m.autoplayGen++
	return autoplayTick(m.interval, m.autoplayGen)
}

// stopAutoplay cancels any scheduled tick by bumping the generation.
func (m *Model) stopAutoplay() {
	m.autoplay = false
	m.autoplayGen++
}

func autoplayTick(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return autoplayTickMsg{gen: gen}
	})
}

func (m Model) handleAutoplayTick(msg autoplayTickMsg) (tea.Model, tea.Cmd) {
	if !m.autoplay || msg.gen != m.autoplayGen {
		return m, nil
	}
	if !m.reader.IsEnabled(features.CarouselAutoplay.Name) {
		m.stopAutoplay()
		return m, nil
	}
	if !m.cursor.Next() {
		// End of a non-wrapping deck.
		m.stopAutoplay()
		return m, m.setToast("Autoplay finished", false)
	}
	m.refreshContent()
	return m, autoplayTick(m.interval, m.autoplayGen)
}

// slideTitle returns the title of the current slide, or a placeholder.
func (m Model) slideTitle() string {
	if s, ok := m.Current(); ok {
		return strings.TrimSpace(s.Title)
	}
	return "No slides"
}
