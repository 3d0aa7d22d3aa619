// Package themes holds the fixed registry of CV preview themes.
//
// The key set is closed: a Key can only be obtained from the package constants
// or from ParseKey, so Resolve never has to handle an unknown theme.
package themes

import (
	"errors"
	"fmt"

	"github.com/jonathan/cv-studio/internal/i18n"
)

// Key identifies a built-in theme.
type Key string

// Built-in themes.
const (
	Modern       Key = "modern"
	Minimal      Key = "minimal"
	Professional Key = "professional"
)

// Default is the theme of a new session.
const Default = Modern

// ErrUnknownTheme is returned by ParseKey for keys outside the registry.
var ErrUnknownTheme = errors.New("unknown theme")

// Layout selects the column arrangement of the preview.
type Layout string

// Layouts.
const (
	OneColumn Layout = "one-column"
	TwoColumn Layout = "two-column"
)

// PhotoShape selects the corner rounding of the profile photo.
type PhotoShape string

// Photo shapes.
const (
	Circle      PhotoShape = "circle"
	RoundedRect PhotoShape = "rounded-rect"
)

// Colors is the color token bundle of a theme, as CSS hex values.
type Colors struct {
	Primary   string `json:"primary"`   // page surface
	Secondary string `json:"secondary"` // section titles and job line
	Text      string `json:"text"`      // base text and name
	Accent    string `json:"accent"`    // skill chip background
	AccentFg  string `json:"accentFg"`  // skill chip text
	Muted     string `json:"muted"`     // record headings and contact lines
	Subtle    string `json:"subtle"`    // secondary record lines and long text
	Faint     string `json:"faint"`     // year lines
	Divider   string `json:"divider"`   // column separator
}

// Definition is an immutable theme token bundle.
type Definition struct {
	Key        Key        `json:"key"`
	Names      [2]string  `json:"-"` // {tr, en}
	Layout     Layout     `json:"layout"`
	Colors     Colors     `json:"colors"`
	PhotoShape PhotoShape `json:"photoShape"`
}

// DisplayName returns the selector caption of the theme in lang.
func (d Definition) DisplayName(lang i18n.Language) string {
	if lang == i18n.EN {
		return d.Names[1]
	}
	return d.Names[0]
}

// TwoColumn reports whether the theme uses the two-column layout.
func (d Definition) TwoColumn() bool {
	return d.Layout == TwoColumn
}

var order = []Key{Modern, Minimal, Professional}

var registry = map[Key]Definition{
	Modern: {
		Key:    Modern,
		Names:  [2]string{"Koyu", "Dark"},
		Layout: TwoColumn,
		Colors: Colors{
			Primary:   "#1e2532",
			Secondary: "#60a5fa",
			Text:      "#ffffff",
			Accent:    "#1e3a8a80",
			AccentFg:  "#d1d5db",
			Muted:     "#d1d5db",
			Subtle:    "#9ca3af",
			Faint:     "#6b7280",
			Divider:   "#9ca3af",
		},
		PhotoShape: Circle,
	},
	Minimal: {
		Key:    Minimal,
		Names:  [2]string{"Beyaz", "White"},
		Layout: OneColumn,
		Colors: Colors{
			Primary:   "#ffffff",
			Secondary: "#374151",
			Text:      "#000000",
			Accent:    "#000000",
			AccentFg:  "#ffffff",
			Muted:     "#111827",
			Subtle:    "#374151",
			Faint:     "#4b5563",
			Divider:   "#9ca3af",
		},
		PhotoShape: RoundedRect,
	},
	Professional: {
		Key:    Professional,
		Names:  [2]string{"Yeşil", "Green"},
		Layout: TwoColumn,
		Colors: Colors{
			Primary:   "#2c5530",
			Secondary: "#34d399",
			Text:      "#ffffff",
			Accent:    "#064e3b80",
			AccentFg:  "#d1d5db",
			Muted:     "#d1d5db",
			Subtle:    "#9ca3af",
			Faint:     "#6b7280",
			Divider:   "#9ca3af",
		},
		PhotoShape: Circle,
	},
}

// ParseKey converts a theme key string into a Key.
func ParseKey(s string) (Key, error) {
	k := Key(s)
	if _, ok := registry[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
	return k, nil
}

// Resolve returns the definition of a theme. Keys built outside ParseKey that
// are not registered resolve to the default theme.
func Resolve(k Key) Definition {
	if d, ok := registry[k]; ok {
		return d
	}
	return registry[Default]
}

// All returns every theme in selector order.
func All() []Definition {
	out := make([]Definition, 0, len(order))
	for _, k := range order {
		out = append(out, registry[k])
	}
	return out
}

// Keys returns every theme key in selector order.
func Keys() []Key {
	return append([]Key(nil), order...)
}
