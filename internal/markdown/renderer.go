package markdown

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/cellbuf"
)

const (
	// MinWidthForMarkdown is the minimum terminal width for markdown rendering.
	// Below this, falls back to plain text wrapping.
	MinWidthForMarkdown = 30

	// MaxCacheEntries is the maximum number of cached renders before eviction.
	MaxCacheEntries = 100

	// DefaultTheme is the glamour style used until SetTheme is called.
	DefaultTheme = "light"
)

// Renderer wraps Glamour for markdown rendering with caching.
type Renderer struct {
	mu        sync.RWMutex
	renderer  *glamour.TermRenderer
	lastWidth int
	lastTheme string
	theme     string
	cache     map[uint64][]string
	logger    *slog.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the initial glamour style name or style file path.
func WithTheme(theme string) Option {
	return func(r *Renderer) {
		if theme != "" {
			r.theme = theme
		}
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRenderer creates a new markdown renderer instance.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		theme:  DefaultTheme,
		cache:  make(map[uint64][]string),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetTheme switches the glamour style. Cached renders for other themes stay
// valid because the theme is part of the cache key.
func (r *Renderer) SetTheme(theme string) {
	if theme == "" {
		theme = DefaultTheme
	}
	r.mu.Lock()
	r.theme = theme
	r.mu.Unlock()
}

// Theme returns the current glamour style.
func (r *Renderer) Theme() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.theme
}

// RenderContent renders markdown content to styled lines.
func (r *Renderer) RenderContent(content string, width int) []string {
	if width < MinWidthForMarkdown {
		return WrapText(content, width)
	}

	if content == "" {
		return []string{}
	}

	r.mu.RLock()
	theme := r.theme
	key := cacheKey(content, width, theme)
	if cached, ok := r.cache[key]; ok {
		r.mu.RUnlock()
		return cached
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache after acquiring write lock
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	renderer, err := r.getOrCreateRenderer(width, theme)
	if err != nil {
		r.logger.Warn("glamour renderer error", "theme", theme, "err", err)
		return WrapText(content, width)
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		r.logger.Warn("glamour render error", "err", err)
		return WrapText(content, width)
	}

	// Trim trailing whitespace and split into lines
	rendered = strings.TrimRight(rendered, "\n\r\t ")
	lines := strings.Split(rendered, "\n")

	if len(r.cache) >= MaxCacheEntries {
		r.cache = make(map[uint64][]string)
	}
	r.cache[key] = lines

	return lines
}

// CacheLen returns the number of cached renders.
func (r *Renderer) CacheLen() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}

// cacheKey hashes content, width and theme using xxhash.
func cacheKey(content string, width int, theme string) uint64 {
	h := xxhash.New()
	_, _ = h.WriteString(content)
	_, _ = h.Write([]byte{0, byte(width >> 8), byte(width), 0})
	_, _ = h.WriteString(theme)
	return h.Sum64()
}

// getOrCreateRenderer lazily creates or recreates the glamour renderer when the
// width or theme changes. Must be called with write lock held.
func (r *Renderer) getOrCreateRenderer(width int, theme string) (*glamour.TermRenderer, error) {
	if r.renderer != nil && r.lastWidth == width && r.lastTheme == theme {
		return r.renderer, nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(theme),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}

	r.renderer = renderer
	r.lastWidth = width
	r.lastTheme = theme

	return renderer, nil
}

// WrapText wraps text to fit within maxWidth.
// Used as fallback when terminal is too narrow for markdown rendering.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{text}
	}

	// Paragraph breaks survive; single newlines fold into spaces.
	var lines []string
	for i, para := range strings.Split(text, "\n\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		if i > 0 && len(lines) > 0 {
			lines = append(lines, "")
		}
		wrapped := cellbuf.Wrap(strings.Join(words, " "), maxWidth, "")
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}
