package styles

import (
	"regexp"
	"sync"

	"github.com/wilbur182/marquee/internal/carousel"
)

// themeMu protects access to themeRegistry for thread safety
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Error   string `json:"error"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextInverse   string `json:"textInverse"`

	// Background colors
	BgPrimary   string `json:"bgPrimary"`
	BgSecondary string `json:"bgSecondary"`
	BgTertiary  string `json:"bgTertiary"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	// Slide indicator dots
	DotActive   string `json:"dotActive"`
	DotInactive string `json:"dotInactive"`

	// Third-party theme names
	SyntaxTheme   string `json:"syntaxTheme"`   // Chroma theme name
	MarkdownTheme string `json:"markdownTheme"` // Glamour standard style name
}

// Theme represents a complete theme configuration
type Theme struct {
	Style       carousel.Style `json:"style"`
	DisplayName string         `json:"displayName"`
	Colors      ColorPalette   `json:"colors"`
}

// Built-in themes, one per carousel style.
var (
	// LightTheme is the default: dark text on a soft gray canvas.
	LightTheme = Theme{
		Style:       carousel.Light,
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary:   "#6D28D9", // Purple
			Secondary: "#2563EB", // Blue
			Accent:    "#D97706", // Amber

			Success: "#059669",
			Error:   "#DC2626",

			TextPrimary:   "#111827",
			TextSecondary: "#374151",
			TextMuted:     "#6B7280",
			TextInverse:   "#FFFFFF",

			BgPrimary:   "#F3F4F6",
			BgSecondary: "#E5E7EB",
			BgTertiary:  "#D1D5DB",

			BorderNormal: "#D1D5DB",
			BorderActive: "#6D28D9",

			DotActive:   "#6D28D9",
			DotInactive: "#9CA3AF",

			SyntaxTheme:   "friendly",
			MarkdownTheme: "light",
		},
	}

	// DarkTheme is a dark canvas with bright text.
	DarkTheme = Theme{
		Style:       carousel.Dark,
		DisplayName: "Dark",
		Colors: ColorPalette{
			Primary:   "#7C3AED", // Purple
			Secondary: "#3B82F6", // Blue
			Accent:    "#F59E0B", // Amber

			Success: "#10B981",
			Error:   "#EF4444",

			TextPrimary:   "#F9FAFB",
			TextSecondary: "#9CA3AF",
			TextMuted:     "#6B7280",
			TextInverse:   "#000000",

			BgPrimary:   "#111827",
			BgSecondary: "#1F2937",
			BgTertiary:  "#374151",

			BorderNormal: "#374151",
			BorderActive: "#7C3AED",

			DotActive:   "#F59E0B",
			DotInactive: "#4B5563",

			SyntaxTheme:   "monokai",
			MarkdownTheme: "dark",
		},
	}

	// WhiteTheme is a high-key variant of Light on pure white.
	WhiteTheme = Theme{
		Style:       carousel.White,
		DisplayName: "White",
		Colors: ColorPalette{
			Primary:   "#000000",
			Secondary: "#1F2937",
			Accent:    "#2563EB",

			Success: "#047857",
			Error:   "#B91C1C",

			TextPrimary:   "#000000",
			TextSecondary: "#1F2937",
			TextMuted:     "#4B5563",
			TextInverse:   "#FFFFFF",

			BgPrimary:   "#FFFFFF",
			BgSecondary: "#FFFFFF",
			BgTertiary:  "#F3F4F6",

			BorderNormal: "#E5E7EB",
			BorderActive: "#000000",

			DotActive:   "#000000",
			DotInactive: "#D1D5DB",

			SyntaxTheme:   "github",
			MarkdownTheme: "light",
		},
	}
)

// themeRegistry holds the theme for each carousel style
var themeRegistry = map[carousel.Style]Theme{
	carousel.Light: LightTheme,
	carousel.Dark:  DarkTheme,
	carousel.White: WhiteTheme,
}

// IsValidHexColor checks if a string is a valid hex color code (#RRGGBB or #RRGGBBAA)
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// GetTheme returns the theme for a style, or the light theme if none is registered
func GetTheme(style carousel.Style) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[style]; ok {
		return theme
	}
	return LightTheme
}

// RegisterTheme replaces the theme used for theme.Style
func RegisterTheme(theme Theme) {
	themeMu.Lock()
	defer themeMu.Unlock()
	themeRegistry[theme.Style] = theme
}

// ResolveTheme returns the theme for style with config overrides applied.
func ResolveTheme(style carousel.Style, overrides map[string]string) Theme {
	theme := GetTheme(style)
	if overrides != nil {
		applyOverrides(&theme.Colors, overrides)
	}
	return theme
}

// applyOverrides applies color overrides to a palette.
// Delegates to applySingleOverride which validates hex colors.
func applyOverrides(palette *ColorPalette, overrides map[string]string) {
	for key, value := range overrides {
		applySingleOverride(palette, key, value)
	}
}

// applySingleOverride applies a single string override.
// Color values must be valid hex colors (#RRGGBB). Invalid colors are silently ignored.
func applySingleOverride(palette *ColorPalette, key, value string) {
	// syntaxTheme and markdownTheme are names, not colors
	isThemeName := key == "syntaxTheme" || key == "markdownTheme"
	if !isThemeName && !IsValidHexColor(value) {
		return // Skip invalid hex color
	}

	switch key {
	case "primary":
		palette.Primary = value
	case "secondary":
		palette.Secondary = value
	case "accent":
		palette.Accent = value
	case "success":
		palette.Success = value
	case "error":
		palette.Error = value
	case "textPrimary":
		palette.TextPrimary = value
	case "textSecondary":
		palette.TextSecondary = value
	case "textMuted":
		palette.TextMuted = value
	case "textInverse":
		palette.TextInverse = value
	case "bgPrimary":
		palette.BgPrimary = value
	case "bgSecondary":
		palette.BgSecondary = value
	case "bgTertiary":
		palette.BgTertiary = value
	case "borderNormal":
		palette.BorderNormal = value
	case "borderActive":
		palette.BorderActive = value
	case "dotActive":
		palette.DotActive = value
	case "dotInactive":
		palette.DotInactive = value
	case "syntaxTheme":
		palette.SyntaxTheme = value
	case "markdownTheme":
		palette.MarkdownTheme = value
	}
}
