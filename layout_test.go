package deckexport

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestGeometryForCoversAllLayouts(t *testing.T) {
	for _, l := range Layouts {
		geo := GeometryFor(l)
		if !geo.ShowTitle && !geo.ShowBody && !geo.ShowImage {
			t.Errorf("layout %q shows no regions", l)
		}
	}
}

func TestGeometryForFallback(t *testing.T) {
	want := GeometryFor(LayoutImageLeft)
	for _, l := range []Layout{"", "hero-banner", "image_left"} {
		got := GeometryFor(l)
		if got != want {
			t.Errorf("GeometryFor(%q) did not fall back to image-left", l)
		}
	}
}

func TestGeometryRegionsInsideCanvas(t *testing.T) {
	inCanvas := func(b Box) bool {
		return b.X >= 0 && b.Y >= 0 &&
			b.X+b.W <= CanvasWidth+1e-9 && b.Y+b.H <= CanvasHeight+1e-9
	}
	for _, l := range Layouts {
		geo := GeometryFor(l)
		if geo.ShowTitle && !inCanvas(geo.Title) {
			t.Errorf("layout %q: title box outside canvas: %+v", l, geo.Title)
		}
		if geo.ShowBody && !inCanvas(geo.Body) {
			t.Errorf("layout %q: body box outside canvas: %+v", l, geo.Body)
		}
		if geo.ShowImage && !inCanvas(geo.Image) {
			t.Errorf("layout %q: image box outside canvas: %+v", l, geo.Image)
		}
	}
}

func TestGeometryRegionsDoNotOverlap(t *testing.T) {
	disjoint := func(a, b Box) bool {
		return a.X+a.W <= b.X+1e-9 || b.X+b.W <= a.X+1e-9 ||
			a.Y+a.H <= b.Y+1e-9 || b.Y+b.H <= a.Y+1e-9
	}
	for _, l := range Layouts {
		geo := GeometryFor(l)
		if geo.ShowTitle && geo.ShowBody && !disjoint(geo.Title, geo.Body) {
			t.Errorf("layout %q: title and body boxes overlap", l)
		}
		// Overlay mode layers text on the image on purpose.
		if geo.OverlayText {
			continue
		}
		if geo.ShowTitle && geo.ShowImage && !disjoint(geo.Title, geo.Image) {
			t.Errorf("layout %q: title and image boxes overlap", l)
		}
		if geo.ShowBody && geo.ShowImage && !disjoint(geo.Body, geo.Image) {
			t.Errorf("layout %q: body and image boxes overlap", l)
		}
	}
}

func TestSplitColumns(t *testing.T) {
	items := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("item %d", i+1)
		}
		return out
	}

	tests := []struct {
		name  string
		items []string
		n     int
		want  []int
	}{
		{"seven over three", items(7), 3, []int{3, 2, 2}},
		{"even split", items(6), 3, []int{2, 2, 2}},
		{"five over two", items(5), 2, []int{3, 2}},
		{"fewer items than columns", items(2), 4, []int{1, 1, 0, 0}},
		{"empty input", nil, 3, []int{0, 0, 0}},
		{"single column", items(4), 1, []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := SplitColumns(tt.items, tt.n)
			if len(cols) != len(tt.want) {
				t.Fatalf("got %d columns, want %d", len(cols), len(tt.want))
			}
			for i, w := range tt.want {
				if len(cols[i]) != w {
					t.Errorf("column %d has %d items, want %d", i+1, len(cols[i]), w)
				}
			}
		})
	}
}

func TestSplitColumnsDropsEmptyItems(t *testing.T) {
	cols := SplitColumns([]string{"a", "", "b", "", "c"}, 2)
	if len(cols[0]) != 2 || len(cols[1]) != 1 {
		t.Errorf("split = %d/%d, want 2/1", len(cols[0]), len(cols[1]))
	}
}

func TestSplitColumnsProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	genItems := gen.SliceOf(gen.AlphaString())
	genN := gen.IntRange(1, 6)

	properties.Property("order and total preserved", prop.ForAll(
		func(items []string, n int) bool {
			kept := 0
			for _, it := range items {
				if it != "" {
					kept++
				}
			}
			cols := SplitColumns(items, n)
			if len(cols) != n {
				return false
			}
			var flat []string
			for _, c := range cols {
				flat = append(flat, c...)
			}
			if len(flat) != kept {
				return false
			}
			i := 0
			for _, it := range items {
				if it == "" {
					continue
				}
				if flat[i] != it {
					return false
				}
				i++
			}
			return true
		},
		genItems, genN,
	))

	properties.Property("column sizes differ by at most one", prop.ForAll(
		func(items []string, n int) bool {
			cols := SplitColumns(items, n)
			minLen, maxLen := math.MaxInt32, 0
			for _, c := range cols {
				if len(c) < minLen {
					minLen = len(c)
				}
				if len(c) > maxLen {
					maxLen = len(c)
				}
			}
			return maxLen-minLen <= 1
		},
		genItems, genN,
	))

	properties.TestingRun(t)
}

func TestColumnBoxes(t *testing.T) {
	body := Box{X: 0.67, Y: 1.9, W: 12.0, H: 5.1}
	boxes := ColumnBoxes(body, 3)
	if len(boxes) != 3 {
		t.Fatalf("got %d boxes, want 3", len(boxes))
	}

	// Widths plus gutters reconstruct the body width.
	total := boxes[0].W*3 + columnGutter*2
	if math.Abs(total-body.W) > 1e-9 {
		t.Errorf("columns cover %.4f in, want %.4f", total, body.W)
	}

	for i, b := range boxes {
		if b.Y != body.Y || b.H != body.H {
			t.Errorf("box %d changed vertical extent: %+v", i, b)
		}
		if i > 0 {
			gap := b.X - (boxes[i-1].X + boxes[i-1].W)
			if math.Abs(gap-columnGutter) > 1e-9 {
				t.Errorf("gap before box %d = %.4f, want %.4f", i, gap, columnGutter)
			}
		}
	}
}
