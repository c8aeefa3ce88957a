package deckexport

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// helper: export a deck to PPTX and index the zip parts by name.
func exportAndUnzip(t *testing.T, deck Deck, opts *ExportOptions) (map[string]string, *Result) {
	t.Helper()
	if opts == nil {
		opts = DefaultExportOptions()
	}
	res, err := exportPPTX(context.Background(), deck, opts, nil)
	if err != nil {
		t.Fatalf("exportPPTX failed: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(res.Data), int64(len(res.Data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(data)
	}
	return parts, res
}

func TestExportPPTXPackageStructure(t *testing.T) {
	deck := testDeck(2)
	deck.Slides[1].Notes = "speaker notes here"

	parts, res := exportAndUnzip(t, deck, nil)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/app.xml",
		"docProps/core.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide2.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/notesSlides/notesSlide2.xml",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}

	// 16:9 slide size.
	if !strings.Contains(parts["ppt/presentation.xml"], `cx="12192000" cy="6858000"`) {
		t.Error("presentation.xml is not 16:9")
	}

	if !strings.Contains(parts["ppt/slides/slide1.xml"], "Slide A") {
		t.Error("slide 1 title text not emitted")
	}
	if !strings.Contains(parts["ppt/notesSlides/notesSlide2.xml"], "speaker notes here") {
		t.Error("notes text not emitted")
	}
	if !strings.Contains(parts["docProps/core.xml"], "Raster Test") {
		t.Error("deck title not in core properties")
	}

	if res.FileName != "Raster_Test.pptx" {
		t.Errorf("FileName = %q", res.FileName)
	}
}

func TestExportPPTXBackgroundPriority(t *testing.T) {
	t.Run("gradient", func(t *testing.T) {
		deck := testDeck(1)
		deck.Theme.BackgroundGradient = "ocean-depth"
		parts, _ := exportAndUnzip(t, deck, nil)

		slide := parts["ppt/slides/slide1.xml"]
		if !strings.Contains(slide, "<a:gradFill>") {
			t.Error("bespoke gradient tag should emit a gradient fill")
		}
		if !strings.Contains(slide, `val="0A2E4D"`) || !strings.Contains(slide, `val="126C94"`) {
			t.Error("gradient stops missing")
		}
	})

	t.Run("unknown gradient falls back to solid", func(t *testing.T) {
		deck := testDeck(1)
		deck.Theme.BackgroundGradient = "lava-burst"
		parts, _ := exportAndUnzip(t, deck, nil)

		slide := parts["ppt/slides/slide1.xml"]
		if strings.Contains(slide, "<a:gradFill>") {
			t.Error("unknown gradient tag must not emit a gradient")
		}
		if !strings.Contains(slide, `<a:solidFill><a:srgbClr val="F8F9FA"/></a:solidFill>`) {
			t.Error("flat background color missing")
		}
	})

	t.Run("image wins over gradient", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write(testPNG())
		}))
		defer srv.Close()

		deck := testDeck(1)
		deck.Theme.BackgroundImage = srv.URL + "/bg.png"
		deck.Theme.BackgroundGradient = "ocean-depth"

		opts := DefaultExportOptions()
		opts.Client = srv.Client()
		parts, _ := exportAndUnzip(t, deck, opts)

		slide := parts["ppt/slides/slide1.xml"]
		if !strings.Contains(slide, "<a:blipFill>") {
			t.Error("background image should emit a blip fill")
		}
		if strings.Contains(slide, "<a:gradFill>") {
			t.Error("gradient must lose to the background image")
		}
		if _, ok := parts["ppt/media/image1.png"]; !ok {
			t.Error("background image not stored under ppt/media")
		}
	})
}

func TestExportPPTXImagePlaceholder(t *testing.T) {
	deck := testDeck(1)
	deck.Slides[0].Layout = LayoutImageRight
	deck.Slides[0].Image = &ImageRef{URL: "/nonexistent/pic.png", Alt: "chart"}

	parts, res := exportAndUnzip(t, deck, nil)

	slide := parts["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, placeholderText) {
		t.Error("failed image should render the placeholder caption")
	}
	if len(res.Warnings) == 0 {
		t.Error("failed image should surface a warning")
	}
}

func TestExportPPTXSlideImage(t *testing.T) {
	srv := pngServer(t)

	deck := testDeck(1)
	deck.Slides[0].Layout = LayoutImageLeft
	deck.Slides[0].Image = &ImageRef{URL: srv.URL + "/pic.png", Alt: "a diagram"}

	opts := DefaultExportOptions()
	opts.Client = srv.Client()
	parts, res := exportAndUnzip(t, deck, opts)

	slide := parts["ppt/slides/slide1.xml"]
	if !strings.Contains(slide, "<p:pic>") {
		t.Error("resolved image should emit a picture shape")
	}
	if !strings.Contains(slide, `descr="a diagram"`) {
		t.Error("alt text should flow into the picture description")
	}
	if !strings.Contains(parts["ppt/slides/_rels/slide1.xml.rels"], "../media/image1.png") {
		t.Error("slide rels must reference the stored media")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestExportPPTXTextOnlyNumbering(t *testing.T) {
	deck := testDeck(1)
	deck.Slides[0].Layout = LayoutTextOnly
	deck.Slides[0].Bullets = []string{"alpha", "beta", "gamma"}

	parts, _ := exportAndUnzip(t, deck, nil)

	slide := parts["ppt/slides/slide1.xml"]
	for _, want := range []string{`startAt="1"`, `startAt="2"`, `startAt="3"`} {
		if !strings.Contains(slide, want) {
			t.Errorf("stacked item numbering missing %s", want)
		}
	}
	if !strings.Contains(slide, `type="arabicPeriod"`) {
		t.Error("numbered bullets should use arabicPeriod")
	}
}

func TestExportPPTXColumns(t *testing.T) {
	deck := testDeck(1)
	deck.Slides[0].Layout = LayoutThreeColumns
	deck.Slides[0].Bullets = []string{"a", "b", "c", "d", "e", "f", "g"}

	parts, _ := exportAndUnzip(t, deck, nil)

	slide := parts["ppt/slides/slide1.xml"]
	for _, want := range []string{"Column 1", "Column 2", "Column 3"} {
		if !strings.Contains(slide, want) {
			t.Errorf("missing %s text box", want)
		}
	}
}

func TestExportPPTXOverlayMode(t *testing.T) {
	srv := pngServer(t)

	deck := testDeck(1)
	deck.Slides[0].Layout = LayoutFullImage
	deck.Slides[0].Image = &ImageRef{URL: srv.URL + "/hero.png"}
	deck.Slides[0].Bullets = []string{"tagline"}

	opts := DefaultExportOptions()
	opts.Client = srv.Client()
	parts, _ := exportAndUnzip(t, deck, opts)

	slide := parts["ppt/slides/slide1.xml"]
	// Backdrop spans the full canvas.
	if !strings.Contains(slide, `cy="6858000"`) {
		t.Error("backdrop does not span the slide height")
	}
	// Overlay text is white and centered.
	if !strings.Contains(slide, `val="FFFFFF"`) {
		t.Error("overlay text should be white")
	}
	if !strings.Contains(slide, `algn="ctr"`) {
		t.Error("overlay text should be centered")
	}
}

func TestExportPPTXOverlayElements(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".svg") {
			w.Header().Set("Content-Type", "image/svg+xml")
			w.Write(svg)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	deck := testDeck(1)
	deck.Slides[0].Overlays = []OverlayElement{
		{URL: srv.URL + "/arrow.svg", X: 0.25, Y: 0.5, Width: 0.1, Height: 0.1},
		{URL: srv.URL + "/missing.png", X: 0.1, Y: 0.1, Width: 0.1, Height: 0.1},
	}

	opts := DefaultExportOptions()
	opts.Client = srv.Client()
	parts, _ := exportAndUnzip(t, deck, opts)

	// The SVG embeds as-is; the failed overlay is skipped silently.
	if _, ok := parts["ppt/media/image1.svg"]; !ok {
		t.Error("overlay svg not stored")
	}
	slide := parts["ppt/slides/slide1.xml"]
	if got := strings.Count(slide, "<p:pic>"); got != 1 {
		t.Errorf("slide has %d pictures, want 1 (failed overlay skipped)", got)
	}
	// Fractional position converts at emission: 0.25 of the canvas width.
	wantX := fmt.Sprintf(`x="%d"`, Inch(0.25*CanvasWidth))
	if !strings.Contains(slide, wantX) {
		t.Errorf("overlay position not converted to EMU, want %s", wantX)
	}
}

func TestExportPPTXEmptyDeck(t *testing.T) {
	_, err := exportPPTX(context.Background(), Deck{Title: "empty"}, DefaultExportOptions(), nil)
	if err != ErrNoSlides {
		t.Errorf("err = %v, want ErrNoSlides", err)
	}
}
