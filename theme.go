package deckexport

import (
	"strconv"
	"strings"
)

// Role selects which text role of a theme a style lookup applies to.
type Role int

const (
	RoleHeading Role = iota
	RoleBody
	RoleAccent
)

// Default point sizes when a theme leaves a role size unset or unparsable.
const (
	DefaultHeadingSize = 28
	DefaultBodySize    = 18
)

// NormalizeHex normalizes a CSS hex color to six uppercase hex digits with
// no leading '#'. Three-digit shorthand is expanded; anything invalid
// collapses to "000000". The function is idempotent.
func NormalizeHex(s string) string {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	s = strings.ToUpper(s)

	if len(s) == 3 && isHexDigits(s) {
		return string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) == 6 && isHexDigits(s) {
		return s
	}
	return "000000"
}

func isHexDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// paletteOverrides supplies hand-tuned, higher-contrast role colors for
// known theme IDs where the generic role colors sit too close to the
// background. Consulted before the theme's own colors; themes without an
// entry use their raw colors.
var paletteOverrides = map[string]ThemeColors{
	"corporate-blue": {
		Primary:   "0F2B46",
		Secondary: "1D4E79",
		Accent:    "C8860A",
		Text:      "1A1A2E",
	},
	"professional": {
		Primary:   "14213D",
		Secondary: "2B3A55",
		Accent:    "B8860B",
		Text:      "212529",
	},
	"business": {
		Primary:   "1B263B",
		Secondary: "415A77",
		Accent:    "D4A017",
		Text:      "0D1B2A",
	},
	"midnight": {
		Primary:   "E0E1DD",
		Secondary: "AEB8C4",
		Accent:    "F4D35E",
		Text:      "E8E9EB",
	},
}

// ResolveColor returns the normalized six-digit hex color for a theme role.
// Known theme IDs take their color from the override palette first; the
// generic fallback is the theme's raw role color, then black.
func ResolveColor(t Theme, role Role) string {
	colors := t.Colors
	if over, ok := paletteOverrides[t.ID]; ok {
		colors = mergeColors(over, colors)
	}

	var raw string
	switch role {
	case RoleHeading:
		raw = colors.Primary
	case RoleAccent:
		raw = colors.Accent
	default:
		raw = colors.Text
	}
	return NormalizeHex(raw)
}

// mergeColors overlays the non-empty fields of over onto base.
func mergeColors(over, base ThemeColors) ThemeColors {
	out := base
	if over.Primary != "" {
		out.Primary = over.Primary
	}
	if over.Secondary != "" {
		out.Secondary = over.Secondary
	}
	if over.Accent != "" {
		out.Accent = over.Accent
	}
	if over.Background != "" {
		out.Background = over.Background
	}
	if over.Text != "" {
		out.Text = over.Text
	}
	return out
}

// BackgroundColor returns the theme's flat background color, normalized,
// defaulting to white rather than black so an unstyled deck stays readable.
func BackgroundColor(t Theme) string {
	if strings.TrimSpace(t.Colors.Background) == "" {
		return "FFFFFF"
	}
	return NormalizeHex(t.Colors.Background)
}

// safeFonts is the whitelist of families known to render identically across
// the PDF/HTML renderer and slide-editing tools. Keys are lowercased first
// names of a CSS font stack.
var safeFonts = map[string]string{
	"arial":           "Arial",
	"helvetica":       "Arial",
	"helvetica neue":  "Arial",
	"calibri":         "Calibri",
	"georgia":         "Georgia",
	"times":           "Times New Roman",
	"times new roman": "Times New Roman",
	"courier":         "Courier New",
	"courier new":     "Courier New",
	"verdana":         "Verdana",
	"tahoma":          "Tahoma",
	"trebuchet ms":    "Trebuchet MS",
	"garamond":        "Garamond",
}

// defaultFont is the safe sans-serif every unknown family falls back to.
const defaultFont = "Arial"

// ResolveFontFamily maps the first font of a CSS font stack to a
// cross-tool-safe family name.
func ResolveFontFamily(stack string) string {
	first := stack
	if i := strings.IndexByte(stack, ','); i >= 0 {
		first = stack[:i]
	}
	first = strings.Trim(strings.TrimSpace(first), `'"`)
	if mapped, ok := safeFonts[strings.ToLower(first)]; ok {
		return mapped
	}
	return defaultFont
}

// ResolveFontSize converts a CSS size ("1.5rem", "20px", "2em") to whole
// points, using 1rem = 1em = 16px. Missing or unrecognized sizes fall back
// to the role default.
func ResolveFontSize(css string, role Role) int {
	fallback := DefaultBodySize
	if role == RoleHeading {
		fallback = DefaultHeadingSize
	}

	css = strings.ToLower(strings.TrimSpace(css))
	if css == "" {
		return fallback
	}

	var factor float64
	var num string
	switch {
	case strings.HasSuffix(css, "rem"):
		factor, num = 16, strings.TrimSuffix(css, "rem")
	case strings.HasSuffix(css, "em"):
		factor, num = 16, strings.TrimSuffix(css, "em")
	case strings.HasSuffix(css, "px"):
		factor, num = 1, strings.TrimSuffix(css, "px")
	case strings.HasSuffix(css, "pt"):
		factor, num = 1, strings.TrimSuffix(css, "pt")
	default:
		return fallback
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return int(v * factor)
}

// ResolveBold maps a CSS font weight to a boolean. Numeric weights of 600
// and above are bold, as are "bold" and "bolder".
func ResolveBold(weight string) bool {
	weight = strings.ToLower(strings.TrimSpace(weight))
	switch weight {
	case "bold", "bolder":
		return true
	case "", "normal", "lighter":
		return false
	}
	if n, err := strconv.Atoi(weight); err == nil {
		return n >= 600
	}
	return false
}

// Align is a normalized text alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// alignAliases maps the alias strings seen in theme descriptors to a
// normalized alignment.
var alignAliases = map[string]Align{
	"left":         AlignLeft,
	"text-left":    AlignLeft,
	"start":        AlignLeft,
	"center":       AlignCenter,
	"centre":       AlignCenter,
	"centered":     AlignCenter,
	"text-center":  AlignCenter,
	"middle":       AlignCenter,
	"right":        AlignRight,
	"text-right":   AlignRight,
	"end":          AlignRight,
	"justify":      AlignJustify,
	"text-justify": AlignJustify,
	"justified":    AlignJustify,
}

// ResolveAlignment normalizes an alignment alias string, defaulting to left.
func ResolveAlignment(s string) Align {
	if a, ok := alignAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a
	}
	return AlignLeft
}

// TextStyle is the fully resolved style for one theme role: the same values
// feed the PPTX writer (points, six-digit hex) and the rasterizer, keeping
// the two outputs visually consistent.
type TextStyle struct {
	Color  string // six-digit uppercase hex, no '#'
	Family string
	Size   int // points
	Bold   bool
	Align  Align
}

// ResolveStyle resolves every style facet of a theme role at once.
func ResolveStyle(t Theme, role Role) TextStyle {
	spec := t.Body
	switch role {
	case RoleHeading:
		spec = t.Heading
	case RoleAccent:
		spec = t.Accent
	}
	return TextStyle{
		Color:  ResolveColor(t, role),
		Family: ResolveFontFamily(spec.Family),
		Size:   ResolveFontSize(spec.Size, role),
		Bold:   ResolveBold(spec.Weight),
		Align:  ResolveAlignment(t.TextAlign),
	}
}
