package deckexport

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"six digits", "1A2B3C", "1A2B3C"},
		{"leading hash", "#1a2b3c", "1A2B3C"},
		{"three digit shorthand", "abc", "AABBCC"},
		{"shorthand with hash", "#F0A", "FF00AA"},
		{"lowercase", "ff00aa", "FF00AA"},
		{"whitespace", "  #ABCDEF  ", "ABCDEF"},
		{"empty", "", "000000"},
		{"bare hash", "#", "000000"},
		{"non-hex characters", "GGGGGG", "000000"},
		{"wrong length", "ABCD", "000000"},
		{"named color", "red", "000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHex(tt.in); got != tt.want {
				t.Errorf("NormalizeHex(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeHexIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalizing twice equals normalizing once", prop.ForAll(
		func(s string) bool {
			once := NormalizeHex(s)
			return NormalizeHex(once) == once
		},
		gen.AnyString(),
	))

	properties.Property("output is always six hex digits", prop.ForAll(
		func(s string) bool {
			out := NormalizeHex(s)
			return len(out) == 6 && isHexDigits(out)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestResolveFontSize(t *testing.T) {
	tests := []struct {
		name string
		css  string
		role Role
		want int
	}{
		{"rem", "1.75rem", RoleHeading, 28},
		{"em", "2em", RoleBody, 32},
		{"px", "24px", RoleBody, 24},
		{"pt", "14pt", RoleBody, 14},
		{"fractional rem", "1.125rem", RoleBody, 18},
		{"empty heading default", "", RoleHeading, DefaultHeadingSize},
		{"empty body default", "", RoleBody, DefaultBodySize},
		{"unitless rejected", "20", RoleBody, DefaultBodySize},
		{"garbage", "big", RoleHeading, DefaultHeadingSize},
		{"negative", "-2rem", RoleBody, DefaultBodySize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveFontSize(tt.css, tt.role); got != tt.want {
				t.Errorf("ResolveFontSize(%q) = %d, want %d", tt.css, got, tt.want)
			}
		})
	}
}

func TestResolveBold(t *testing.T) {
	tests := []struct {
		weight string
		want   bool
	}{
		{"bold", true},
		{"bolder", true},
		{"600", true},
		{"700", true},
		{"900", true},
		{"599", false},
		{"400", false},
		{"normal", false},
		{"lighter", false},
		{"", false},
		{"heavy", false},
	}
	for _, tt := range tests {
		if got := ResolveBold(tt.weight); got != tt.want {
			t.Errorf("ResolveBold(%q) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestResolveFontFamily(t *testing.T) {
	tests := []struct {
		stack string
		want  string
	}{
		{"Georgia, serif", "Georgia"},
		{"'Times New Roman', Times, serif", "Times New Roman"},
		{"Helvetica", "Arial"},
		{"\"Courier New\", monospace", "Courier New"},
		{"Comic Sans MS, cursive", "Arial"},
		{"", "Arial"},
	}
	for _, tt := range tests {
		if got := ResolveFontFamily(tt.stack); got != tt.want {
			t.Errorf("ResolveFontFamily(%q) = %q, want %q", tt.stack, got, tt.want)
		}
	}
}

func TestResolveAlignment(t *testing.T) {
	tests := []struct {
		in   string
		want Align
	}{
		{"center", AlignCenter},
		{"Centre", AlignCenter},
		{"text-center", AlignCenter},
		{"middle", AlignCenter},
		{"right", AlignRight},
		{"end", AlignRight},
		{"justified", AlignJustify},
		{"left", AlignLeft},
		{"", AlignLeft},
		{"diagonal", AlignLeft},
	}
	for _, tt := range tests {
		if got := ResolveAlignment(tt.in); got != tt.want {
			t.Errorf("ResolveAlignment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveColorOverrides(t *testing.T) {
	theme := Theme{
		ID: "corporate-blue",
		Colors: ThemeColors{
			Primary: "#FFFFFF",
			Text:    "#EEEEEE",
		},
	}

	// Known theme IDs take the hand-tuned palette over the raw colors.
	if got := ResolveColor(theme, RoleHeading); got != "0F2B46" {
		t.Errorf("heading color = %q, want override 0F2B46", got)
	}

	// Unknown themes keep their raw colors.
	theme.ID = "my-custom-theme"
	if got := ResolveColor(theme, RoleHeading); got != "FFFFFF" {
		t.Errorf("heading color = %q, want raw FFFFFF", got)
	}

	// Absent colors collapse to black.
	if got := ResolveColor(Theme{}, RoleAccent); got != "000000" {
		t.Errorf("accent color = %q, want 000000", got)
	}
}

func TestBackgroundColor(t *testing.T) {
	if got := BackgroundColor(Theme{}); got != "FFFFFF" {
		t.Errorf("empty background = %q, want FFFFFF", got)
	}
	if got := BackgroundColor(Theme{Colors: ThemeColors{Background: "#123456"}}); got != "123456" {
		t.Errorf("background = %q, want 123456", got)
	}
}

func TestResolveStyle(t *testing.T) {
	theme := Theme{
		Colors: ThemeColors{Primary: "#112233", Text: "#445566"},
		Heading: FontSpec{
			Family: "Georgia, serif",
			Size:   "2rem",
			Weight: "700",
		},
		TextAlign: "center",
	}

	style := ResolveStyle(theme, RoleHeading)
	if style.Color != "112233" {
		t.Errorf("Color = %q, want 112233", style.Color)
	}
	if style.Family != "Georgia" {
		t.Errorf("Family = %q, want Georgia", style.Family)
	}
	if style.Size != 32 {
		t.Errorf("Size = %d, want 32", style.Size)
	}
	if !style.Bold {
		t.Error("Bold = false, want true")
	}
	if style.Align != AlignCenter {
		t.Errorf("Align = %q, want center", style.Align)
	}

	// Zero theme resolves to usable defaults throughout.
	def := ResolveStyle(Theme{}, RoleBody)
	if def.Family != "Arial" || def.Size != DefaultBodySize || def.Bold || def.Align != AlignLeft {
		t.Errorf("default style = %+v", def)
	}
}
