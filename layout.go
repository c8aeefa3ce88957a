package deckexport

import "math"

// Canvas dimensions for the fixed 16:9 slide surface, in inches.
// 13.333 in × 7.5 in matches the 12192000 × 6858000 EMU PowerPoint layout.
const (
	CanvasWidth  = 13.333
	CanvasHeight = 7.5
)

// Box is a rectangular region on the slide canvas, in inches.
type Box struct {
	X, Y, W, H float64
}

// Geometry describes where a layout places its regions and which regions
// are shown. OverlayText marks the full-bleed-image mode where title and
// body render as a centered overlay on top of the image.
type Geometry struct {
	Title Box
	Body  Box
	Image Box

	ShowTitle bool
	ShowBody  bool
	ShowImage bool

	OverlayText bool
	Columns     int // >1 for the column layouts
}

// geometries is the closed layout table. Boxes are hand-placed on the
// 13.333×7.5 canvas; title/body/image never overlap except in overlay mode.
var geometries = map[Layout]Geometry{
	LayoutImageLeft: {
		Title:     Box{X: 6.7, Y: 0.8, W: 6.0, H: 1.2},
		Body:      Box{X: 6.7, Y: 2.2, W: 6.0, H: 4.6},
		Image:     Box{X: 0.67, Y: 1.2, W: 5.6, H: 5.2},
		ShowTitle: true, ShowBody: true, ShowImage: true,
	},
	LayoutImageRight: {
		Title:     Box{X: 0.67, Y: 0.8, W: 6.0, H: 1.2},
		Body:      Box{X: 0.67, Y: 2.2, W: 6.0, H: 4.6},
		Image:     Box{X: 7.06, Y: 1.2, W: 5.6, H: 5.2},
		ShowTitle: true, ShowBody: true, ShowImage: true,
	},
	LayoutImageTop: {
		Image:     Box{X: 0.67, Y: 0.5, W: 12.0, H: 3.2},
		Title:     Box{X: 0.67, Y: 3.9, W: 12.0, H: 1.0},
		Body:      Box{X: 0.67, Y: 5.0, W: 12.0, H: 2.2},
		ShowTitle: true, ShowBody: true, ShowImage: true,
	},
	LayoutImageBottom: {
		Title:     Box{X: 0.67, Y: 0.5, W: 12.0, H: 1.1},
		Body:      Box{X: 0.67, Y: 1.7, W: 12.0, H: 2.5},
		Image:     Box{X: 0.67, Y: 4.3, W: 12.0, H: 2.9},
		ShowTitle: true, ShowBody: true, ShowImage: true,
	},
	LayoutFullImage: {
		Image:     Box{X: 0, Y: 0, W: CanvasWidth, H: CanvasHeight},
		Title:     Box{X: 1.67, Y: 2.5, W: 10.0, H: 1.2},
		Body:      Box{X: 1.67, Y: 4.3, W: 10.0, H: 1.8},
		ShowTitle: true, ShowBody: true, ShowImage: true,
		OverlayText: true,
	},
	LayoutTextOnly: {
		Title:     Box{X: 0.9, Y: 0.6, W: 11.5, H: 1.3},
		Body:      Box{X: 0.9, Y: 2.1, W: 11.5, H: 5.0},
		ShowTitle: true, ShowBody: true,
	},
	LayoutTitleOnly: {
		Title:     Box{X: 1.67, Y: 3.0, W: 10.0, H: 1.5},
		ShowTitle: true,
	},
	LayoutSplit: {
		Title:     Box{X: 0.67, Y: 0.6, W: 5.8, H: 6.3},
		Body:      Box{X: 6.87, Y: 0.6, W: 5.8, H: 6.3},
		ShowTitle: true, ShowBody: true,
	},
	LayoutParagraph: {
		Title:     Box{X: 0.9, Y: 0.6, W: 11.5, H: 1.2},
		Body:      Box{X: 0.9, Y: 2.0, W: 11.5, H: 5.0},
		ShowTitle: true, ShowBody: true,
	},
	LayoutTwoColumns: {
		Title:     Box{X: 0.67, Y: 0.5, W: 12.0, H: 1.1},
		Body:      Box{X: 0.67, Y: 1.9, W: 12.0, H: 5.1},
		ShowTitle: true, ShowBody: true,
		Columns: 2,
	},
	LayoutThreeColumns: {
		Title:     Box{X: 0.67, Y: 0.5, W: 12.0, H: 1.1},
		Body:      Box{X: 0.67, Y: 1.9, W: 12.0, H: 5.1},
		ShowTitle: true, ShowBody: true,
		Columns: 3,
	},
	LayoutFourColumns: {
		Title:     Box{X: 0.67, Y: 0.5, W: 12.0, H: 1.1},
		Body:      Box{X: 0.67, Y: 1.9, W: 12.0, H: 5.1},
		ShowTitle: true, ShowBody: true,
		Columns: 4,
	},
}

// GeometryFor returns the geometry for a layout tag. Unknown or empty tags
// fall back to the image-left geometry.
func GeometryFor(l Layout) Geometry {
	if g, ok := geometries[l]; ok {
		return g
	}
	return geometries[LayoutImageLeft]
}

// columnGutter is the horizontal gap between column boxes, in inches.
const columnGutter = 0.25

// stackedItemPitch is the vertical distance between successive stacked
// text bands on the text-only layout, in inches.
const stackedItemPitch = 0.85

// ColumnBoxes splits a body box into n side-by-side boxes with a fixed
// gutter. n < 1 returns the box unsplit.
func ColumnBoxes(body Box, n int) []Box {
	if n < 1 {
		n = 1
	}
	colW := (body.W - columnGutter*float64(n-1)) / float64(n)
	boxes := make([]Box, n)
	for i := range boxes {
		boxes[i] = Box{
			X: body.X + float64(i)*(colW+columnGutter),
			Y: body.Y,
			W: colW,
			H: body.H,
		}
	}
	return boxes
}

// SplitColumns distributes body items across n columns using ceiling
// division per column boundary: column 1 takes ceil(N/n) items and the
// remainder splits the same way over the remaining columns, so 7 items over
// 3 columns yields 3/2/2. Empty items are dropped before counting. The
// result always has exactly n slices (possibly empty) whose total equals
// the number of non-empty items.
func SplitColumns(items []string, n int) [][]string {
	if n < 1 {
		n = 1
	}
	kept := make([]string, 0, len(items))
	for _, it := range items {
		if it != "" {
			kept = append(kept, it)
		}
	}

	cols := make([][]string, n)
	start := 0
	for i := 0; i < n; i++ {
		remaining := len(kept) - start
		take := int(math.Ceil(float64(remaining) / float64(n-i)))
		cols[i] = kept[start : start+take]
		start += take
	}
	return cols
}
