package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/wilbur182/marquee/internal/carousel"
)

// Sheet is the set of lipgloss styles for one resolved theme.
type Sheet struct {
	Theme Theme

	// Frame
	Canvas      lipgloss.Style
	Slide       lipgloss.Style
	SlideActive lipgloss.Style
	Header      lipgloss.Style
	Footer      lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Code     lipgloss.Style

	// Indicator
	DotActive      lipgloss.Style
	DotInactive    lipgloss.Style
	ScrollbarTrack lipgloss.Style
	ScrollbarThumb lipgloss.Style

	// Toasts
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style

	// Style switcher modal
	ModalBox         lipgloss.Style
	ModalTitle       lipgloss.Style
	ListItemNormal   lipgloss.Style
	ListItemSelected lipgloss.Style
	ListCursor       lipgloss.Style
	KeyHint          lipgloss.Style
}

// NewSheet builds the styles for style with the given palette overrides.
func NewSheet(style carousel.Style, overrides map[string]string) Sheet {
	theme := ResolveTheme(style, overrides)
	c := theme.Colors

	primary := lipgloss.Color(c.Primary)
	accent := lipgloss.Color(c.Accent)
	textPrimary := lipgloss.Color(c.TextPrimary)
	textSecondary := lipgloss.Color(c.TextSecondary)
	textMuted := lipgloss.Color(c.TextMuted)
	textInverse := lipgloss.Color(c.TextInverse)
	bgPrimary := lipgloss.Color(c.BgPrimary)
	bgSecondary := lipgloss.Color(c.BgSecondary)
	bgTertiary := lipgloss.Color(c.BgTertiary)

	return Sheet{
		Theme: theme,

		Canvas: lipgloss.NewStyle().
			Background(bgPrimary).
			Foreground(textPrimary),

		Slide: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.BorderNormal)).
			Padding(1, 2),

		SlideActive: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.BorderActive)).
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Background(bgSecondary).
			Foreground(textPrimary).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Background(bgSecondary).
			Foreground(textMuted).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),

		Subtitle: lipgloss.NewStyle().
			Foreground(textSecondary),

		Body: lipgloss.NewStyle().
			Foreground(textPrimary),

		Muted: lipgloss.NewStyle().
			Foreground(textMuted),

		Code: lipgloss.NewStyle().
			Foreground(accent),

		DotActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.DotActive)).
			Bold(true),

		DotInactive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.DotInactive)),

		ScrollbarTrack: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.BorderNormal)),

		ScrollbarThumb: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.BorderActive)),

		ToastSuccess: lipgloss.NewStyle().
			Background(lipgloss.Color(c.Success)).
			Foreground(textInverse).
			Bold(true).
			Padding(0, 1),

		ToastError: lipgloss.NewStyle().
			Background(lipgloss.Color(c.Error)).
			Foreground(textInverse).
			Bold(true).
			Padding(0, 1),

		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Background(bgSecondary).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Foreground(textPrimary).
			Bold(true).
			MarginBottom(1),

		ListItemNormal: lipgloss.NewStyle().
			Foreground(textPrimary),

		ListItemSelected: lipgloss.NewStyle().
			Foreground(textPrimary).
			Background(bgTertiary),

		ListCursor: lipgloss.NewStyle().
			Foreground(primary).
			Bold(true),

		KeyHint: lipgloss.NewStyle().
			Foreground(textMuted).
			Background(bgTertiary).
			Padding(0, 1),
	}
}

// SyntaxTheme returns the chroma theme name for the sheet.
func (s Sheet) SyntaxTheme() string {
	return s.Theme.Colors.SyntaxTheme
}

// MarkdownTheme returns the glamour style name for the sheet.
func (s Sheet) MarkdownTheme() string {
	return s.Theme.Colors.MarkdownTheme
}
