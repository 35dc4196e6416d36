package carousel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownStyle is returned when a style name is not one of light, dark or white.
var ErrUnknownStyle = errors.New("unknown carousel style")

// Style is the visual style of a carousel. The zero value is Light.
type Style int

const (
	Light Style = iota
	Dark
	White
)

// DefaultStyle is the style a new Store starts with.
const DefaultStyle = Light

var styleNames = [...]string{
	Light: "light",
	Dark:  "dark",
	White: "white",
}

// Styles returns all styles in cycle order.
func Styles() []Style {
	return []Style{Light, Dark, White}
}

func (s Style) String() string {
	if s.valid() {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

func (s Style) valid() bool {
	return s >= Light && s <= White
}

// Next returns the style after s, wrapping from White back to Light.
func (s Style) Next() Style {
	return Style((int(s) + 1) % len(styleNames))
}

// Prev returns the style before s, wrapping from Light to White.
func (s Style) Prev() Style {
	return Style((int(s) + len(styleNames) - 1) % len(styleNames))
}

// ParseStyle converts a name like "dark" into a Style. Matching ignores case
// and surrounding whitespace.
func ParseStyle(name string) (Style, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range styleNames {
		if sn == n {
			return Style(i), nil
		}
	}
	return DefaultStyle, fmt.Errorf("%w: %q", ErrUnknownStyle, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Style) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStyle, int(s))
	}
	return []byte(styleNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Style) UnmarshalText(text []byte) error {
	parsed, err := ParseStyle(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
