// Package deckexport turns an in-memory slide deck into downloadable
// documents: an editable PPTX built shape by shape from the deck model, or
// rasterized PDF/HTML/PNG output assembled from per-slide bitmaps.
//
// The package holds no state between export calls. A Deck is handed in by
// value, consumed once, and never mutated.
package deckexport

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Layout names which regions of a slide are shown and where. The set is
// closed; GeometryFor falls back to LayoutImageLeft for anything else.
type Layout string

const (
	LayoutImageLeft   Layout = "image-left"
	LayoutImageRight  Layout = "image-right"
	LayoutImageTop    Layout = "image-top"
	LayoutImageBottom Layout = "image-bottom"
	LayoutFullImage   Layout = "full-image"
	LayoutTextOnly    Layout = "text-only"
	LayoutTitleOnly   Layout = "title-only"
	LayoutSplit       Layout = "split"
	LayoutParagraph   Layout = "paragraph"
	LayoutTwoColumns  Layout = "2-columns"
	LayoutThreeColumns Layout = "3-columns"
	LayoutFourColumns Layout = "4-columns"
)

// Layouts lists every known layout tag.
var Layouts = []Layout{
	LayoutImageLeft, LayoutImageRight, LayoutImageTop, LayoutImageBottom,
	LayoutFullImage, LayoutTextOnly, LayoutTitleOnly, LayoutSplit,
	LayoutParagraph, LayoutTwoColumns, LayoutThreeColumns, LayoutFourColumns,
}

// ImageRef points at a slide's main image.
type ImageRef struct {
	URL    string // remote http(s) URL or local file path
	Alt    string
	Source string // provenance tag, e.g. "search", "upload", "generated"
	Prompt string // generation prompt, if the image was AI generated
}

// OverlayElement is a free-floating vector graphic on a slide. Position and
// size are fractions of the slide canvas (0..1) so the model stays
// resolution-independent; conversion to absolute units happens only at
// emission time.
type OverlayElement struct {
	URL    string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Slide is one deck page. Title, Bullets and Image are independently
// optional; every exporter renders an all-absent slide as an empty page.
type Slide struct {
	ID       string
	Title    string
	Bullets  []string
	Image    *ImageRef
	Overlays []OverlayElement
	Layout   Layout
	Notes    string
}

// NewSlide creates a slide with a fresh stable ID and the default layout.
func NewSlide() *Slide {
	return &Slide{
		ID:     uuid.NewString(),
		Layout: LayoutImageLeft,
	}
}

// FontSpec describes one text role of a theme in the form the editing UI
// stores it: a CSS font stack, a CSS size ("1.75rem", "24px"), and a CSS
// weight ("600", "bold"). The style resolver normalizes all three.
type FontSpec struct {
	Family string
	Size   string
	Weight string
}

// ThemeColors holds the named color roles of a theme. Values are CSS-style
// hex strings ("#1A2B3C", "abc"); the style resolver normalizes them.
type ThemeColors struct {
	Primary    string // titles
	Secondary  string
	Accent     string // bullets
	Background string
	Text       string // body text
}

// Theme is the visual style descriptor shared by the on-screen preview and
// every export format. Exactly one background source is active, in priority
// order: BackgroundImage, then BackgroundGradient, then Colors.Background.
type Theme struct {
	ID     string
	Colors ThemeColors

	Heading FontSpec
	Body    FontSpec
	Accent  FontSpec

	BackgroundImage    string // URL or local path
	BackgroundGradient string // gradient tag, e.g. "ocean-depth"
	TextAlign          string // optional alias string, see ResolveAlignment

	CornerRounding float64 // 0..1 style token
	ShadowDepth    float64 // 0..1 style token
}

// Deck is the unit of export: ordered slides, a theme, and a title.
type Deck struct {
	Title  string
	Slides []*Slide
	Theme  Theme
}

// Validate checks the deck for structural issues and returns an error
// describing all problems found, or nil if the deck is exportable.
func (d *Deck) Validate() error {
	var errs []string

	if len(d.Slides) == 0 {
		errs = append(errs, "deck has no slides")
	}

	for i, slide := range d.Slides {
		prefix := fmt.Sprintf("slide %d", i+1)
		if slide == nil {
			errs = append(errs, prefix+": slide is nil")
			continue
		}
		if slide.Layout != "" && !knownLayout(slide.Layout) {
			errs = append(errs, fmt.Sprintf("%s: unknown layout %q", prefix, slide.Layout))
		}
		for j, ov := range slide.Overlays {
			if ov.URL == "" {
				errs = append(errs, fmt.Sprintf("%s: overlay %d has no source", prefix, j+1))
			}
			if ov.X < 0 || ov.X > 1 || ov.Y < 0 || ov.Y > 1 {
				errs = append(errs, fmt.Sprintf("%s: overlay %d position outside canvas", prefix, j+1))
			}
			if ov.Width <= 0 || ov.Width > 1 || ov.Height <= 0 || ov.Height > 1 {
				errs = append(errs, fmt.Sprintf("%s: overlay %d size outside canvas", prefix, j+1))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("deck validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func knownLayout(l Layout) bool {
	for _, k := range Layouts {
		if l == k {
			return true
		}
	}
	return false
}

// SafeFileName derives a download file name from a presentation title,
// replacing every non-alphanumeric rune with '_'. The extension is appended
// as given (without a leading dot).
func SafeFileName(title, ext string) string {
	if title == "" {
		title = "presentation"
	}
	var sb strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String() + "." + ext
}
