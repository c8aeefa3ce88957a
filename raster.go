package deckexport

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/gift"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// baseDPI maps the 13.333×7.5 in canvas to the 960×540 logical pixel grid;
// the rasterizer multiplies it by the configured scale (default 2x gives
// 1920×1080 output).
const baseDPI = 72

// textOnlySizeBump is the point-size increase applied to the title on the
// text-only layout, which has no competing image.
const textOnlySizeBump = 6

// slideBitmap is one captured slide: encoded bytes plus pixel dimensions.
type slideBitmap struct {
	Index  int
	Data   []byte
	Width  int
	Height int
}

// rasterizer renders deck slides to bitmaps in original order. Slides are
// processed strictly in sequence; the images within one slide are
// independent and may resolve concurrently.
type rasterizer struct {
	opts   *ExportOptions
	fonts  *FontCache
	images *ImageResolver
	log    *zap.SugaredLogger
}

func newRasterizer(opts *ExportOptions, log *zap.SugaredLogger) *rasterizer {
	return &rasterizer{
		opts:   opts,
		fonts:  NewFontCache(opts.FontDirs...),
		images: NewImageResolver(opts.Client, opts.ImageTimeout, log),
		log:    log,
	}
}

// renderDeck rasterizes every slide. A slide whose encoded size still
// exceeds the cap after one downscale attempt is skipped with a warning;
// it never aborts the rest of the export.
func (r *rasterizer) renderDeck(ctx context.Context, deck Deck, encodePNG bool, progress func(i, n int)) ([]slideBitmap, []string, error) {
	if len(deck.Slides) == 0 {
		return nil, nil, ErrNoSlides
	}

	var bitmaps []slideBitmap
	var warnings []string

	for i, slide := range deck.Slides {
		if progress != nil {
			progress(i+1, len(deck.Slides))
		}

		img := r.renderSlide(ctx, slide, deck.Theme)

		data, err := encodeBitmap(img, encodePNG, r.opts.JPEGQuality)
		if err != nil {
			return nil, nil, fmt.Errorf("slide %d: encode: %w", i+1, err)
		}

		if r.opts.SizeCap > 0 && len(data) > r.opts.SizeCap {
			img = downscale(img, r.opts.DownscaleFactor)
			data, err = encodeBitmap(img, encodePNG, r.opts.ReencodeQuality)
			if err != nil {
				return nil, nil, fmt.Errorf("slide %d: re-encode: %w", i+1, err)
			}
			if len(data) > r.opts.SizeCap {
				warnings = append(warnings, fmt.Sprintf("slide %d skipped: %d bytes exceeds the %d byte cap", i+1, len(data), r.opts.SizeCap))
				if r.log != nil {
					r.log.Warnw("slide exceeds size cap after downscale, skipping", "slide", i+1, "bytes", len(data))
				}
				continue
			}
		}

		b := img.Bounds()
		bitmaps = append(bitmaps, slideBitmap{Index: i, Data: data, Width: b.Dx(), Height: b.Dy()})
	}

	return bitmaps, warnings, nil
}

// renderSlide draws one slide onto an off-screen context. Asset failures
// degrade to placeholders or are skipped; rendering itself cannot fail.
func (r *rasterizer) renderSlide(ctx context.Context, slide *Slide, theme Theme) image.Image {
	scale := r.opts.Scale
	if scale <= 0 {
		scale = 1
	}
	ppi := baseDPI * scale
	w := pixels(CanvasWidth, ppi)
	h := pixels(CanvasHeight, ppi)

	dc := gg.NewContext(w, h)
	r.drawBackground(ctx, dc, theme, w, h)

	geo := GeometryFor(slide.Layout)

	if geo.ShowImage && !geo.OverlayText && slide.Image != nil {
		r.drawImageRegion(ctx, dc, slide.Image.URL, theme, geo.Image, ppi)
	}
	if geo.OverlayText {
		if slide.Image != nil {
			r.drawImageCover(ctx, dc, slide.Image.URL, theme, w, h)
		}
		r.drawOverlayText(dc, slide, theme, geo, ppi)
	} else {
		if geo.ShowTitle && slide.Title != "" {
			r.drawTitle(dc, slide, theme, geo.Title, ppi)
		}
		if geo.ShowBody && len(slide.Bullets) > 0 {
			r.drawBody(dc, slide, theme, geo, ppi)
		}
	}

	for _, ov := range slide.Overlays {
		r.drawOverlayElement(ctx, dc, ov, w, h)
	}

	return dc.Image()
}

func (r *rasterizer) drawBackground(ctx context.Context, dc *gg.Context, theme Theme, w, h int) {
	// Flat color underpaints everything so a failed background image still
	// leaves a sane slide.
	dc.SetHexColor("#" + BackgroundColor(theme))
	dc.Clear()

	if theme.BackgroundImage != "" {
		if ri := r.images.Resolve(ctx, theme.BackgroundImage, theme.ID); ri != nil {
			if img, _, err := image.Decode(bytes.NewReader(ri.Data)); err == nil {
				drawCover(dc, img, w, h)
				return
			}
		}
		// fall through to gradient/solid on failure
	}
	if theme.BackgroundGradient != "" {
		if data := SynthesizeGradient(theme.BackgroundGradient, w, h); data != nil {
			if img, err := png.Decode(bytes.NewReader(data)); err == nil {
				dc.DrawImage(img, 0, 0)
			}
		}
		// non-bespoke gradients keep the flat color already painted
	}
}

func (r *rasterizer) drawTitle(dc *gg.Context, slide *Slide, theme Theme, box Box, ppi float64) {
	style := ResolveStyle(theme, RoleHeading)
	if slide.Layout == LayoutTextOnly {
		style.Size += textOnlySizeBump
	}
	r.drawTextBox(dc, slide.Title, style, box, ppi)
}

func (r *rasterizer) drawBody(dc *gg.Context, slide *Slide, theme Theme, geo Geometry, ppi float64) {
	style := ResolveStyle(theme, RoleBody)

	switch {
	case geo.Columns > 1:
		cols := SplitColumns(slide.Bullets, geo.Columns)
		for i, box := range ColumnBoxes(geo.Body, geo.Columns) {
			r.drawBullets(dc, cols[i], theme, style, box, ppi)
		}
	case slide.Layout == LayoutTextOnly:
		// Each item in its own band with fixed vertical pitch, mirroring the
		// stacked text boxes of the structured exporter.
		pitch := stackedItemPitch
		for i, item := range slide.Bullets {
			if item == "" {
				continue
			}
			band := Box{X: geo.Body.X, Y: geo.Body.Y + float64(i)*pitch, W: geo.Body.W, H: pitch}
			if band.Y+band.H > geo.Body.Y+geo.Body.H {
				break
			}
			r.drawTextBox(dc, item, style, band, ppi)
		}
	case slide.Layout == LayoutParagraph:
		r.drawParagraphs(dc, slide.Bullets, style, geo.Body, ppi)
	default:
		r.drawBullets(dc, slide.Bullets, theme, style, geo.Body, ppi)
	}
}

// drawBullets renders items as a bulleted list: an accent-colored marker
// and the wrapped item text.
func (r *rasterizer) drawBullets(dc *gg.Context, items []string, theme Theme, style TextStyle, box Box, ppi float64) {
	face := r.face(style, ppi)
	dc.SetFontFace(face)
	lineH := float64(face.Metrics().Height.Ceil()) * 1.3
	indent := float64(style.Size) * ppi / 72

	x := box.X * ppi
	y := box.Y*ppi + lineH
	maxY := (box.Y + box.H) * ppi
	accent := ResolveColor(theme, RoleAccent)

	for _, item := range items {
		if item == "" {
			continue
		}
		if y > maxY {
			break
		}
		dc.SetHexColor("#" + accent)
		dc.DrawString("•", x, y)

		dc.SetHexColor("#" + style.Color)
		lines := dc.WordWrap(item, box.W*ppi-indent)
		for _, line := range lines {
			if y > maxY {
				break
			}
			dc.DrawString(line, x+indent, y)
			y += lineH
		}
		y += lineH * 0.25
	}
}

// drawParagraphs renders items as plain wrapped paragraphs.
func (r *rasterizer) drawParagraphs(dc *gg.Context, items []string, style TextStyle, box Box, ppi float64) {
	face := r.face(style, ppi)
	dc.SetFontFace(face)
	dc.SetHexColor("#" + style.Color)
	lineH := float64(face.Metrics().Height.Ceil()) * 1.4

	y := box.Y*ppi + lineH
	maxY := (box.Y + box.H) * ppi
	for _, item := range items {
		if item == "" {
			continue
		}
		for _, line := range dc.WordWrap(item, box.W*ppi) {
			if y > maxY {
				return
			}
			dc.DrawString(line, box.X*ppi, y)
			y += lineH
		}
		y += lineH * 0.5
	}
}

// drawTextBox renders wrapped text inside a box honoring the resolved
// alignment.
func (r *rasterizer) drawTextBox(dc *gg.Context, text string, style TextStyle, box Box, ppi float64) {
	dc.SetFontFace(r.face(style, ppi))
	dc.SetHexColor("#" + style.Color)
	ax, align := alignAnchor(style.Align)
	dc.DrawStringWrapped(text, (box.X+box.W*ax)*ppi, box.Y*ppi, ax, 0, box.W*ppi, 1.3, align)
}

// drawOverlayText renders the full-image mode: white, center-aligned title
// and body stacked on top of the full-bleed image.
func (r *rasterizer) drawOverlayText(dc *gg.Context, slide *Slide, theme Theme, geo Geometry, ppi float64) {
	title := ResolveStyle(theme, RoleHeading)
	title.Color = "FFFFFF"
	title.Align = AlignCenter

	body := ResolveStyle(theme, RoleBody)
	body.Color = "FFFFFF"
	body.Align = AlignCenter

	if slide.Title != "" {
		r.drawTextBox(dc, slide.Title, title, geo.Title, ppi)
	}
	if len(slide.Bullets) > 0 {
		joined := ""
		for _, b := range slide.Bullets {
			if b == "" {
				continue
			}
			if joined != "" {
				joined += "\n"
			}
			joined += b
		}
		r.drawTextBox(dc, joined, body, geo.Body, ppi)
	}
}

// drawImageRegion draws the slide image contain-fitted into its box, or the
// neutral placeholder block when resolution fails.
func (r *rasterizer) drawImageRegion(ctx context.Context, dc *gg.Context, url string, theme Theme, box Box, ppi float64) {
	bx, by := box.X*ppi, box.Y*ppi
	bw, bh := box.W*ppi, box.H*ppi

	ri := r.images.Resolve(ctx, url, theme.ID)
	if ri != nil {
		if img, _, err := image.Decode(bytes.NewReader(ri.Data)); err == nil {
			drawContain(dc, img, bx, by, bw, bh)
			return
		}
	}

	// Placeholder: neutral block with the standard caption.
	dc.SetHexColor("#E9ECEF")
	dc.DrawRoundedRectangle(bx, by, bw, bh, 8)
	dc.Fill()
	dc.SetHexColor("#6C757D")
	dc.SetFontFace(r.face(TextStyle{Family: defaultFont, Size: DefaultBodySize}, ppi))
	dc.DrawStringAnchored(placeholderText, bx+bw/2, by+bh/2, 0.5, 0.5)
}

func (r *rasterizer) drawImageCover(ctx context.Context, dc *gg.Context, url string, theme Theme, w, h int) {
	ri := r.images.Resolve(ctx, url, theme.ID)
	if ri == nil {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(ri.Data))
	if err != nil {
		return
	}
	drawCover(dc, img, w, h)
	// Darken for overlay text legibility.
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
}

// drawOverlayElement places one free-floating vector element. Sources that
// cannot be fetched or decoded are skipped silently.
func (r *rasterizer) drawOverlayElement(ctx context.Context, dc *gg.Context, ov OverlayElement, w, h int) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.opts.overlayTimeout())
	defer cancel()

	data, _, err := r.images.Fetch(fetchCtx, ov.URL)
	if err != nil {
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	drawContain(dc, img, ov.X*float64(w), ov.Y*float64(h), ov.Width*float64(w), ov.Height*float64(h))
}

// face resolves a drawing face for a style at the rasterizer's pixel
// density, falling back to the built-in face like the basic renderer does.
func (r *rasterizer) face(style TextStyle, ppi float64) font.Face {
	sizePx := float64(style.Size) * ppi / 72
	if f := r.fonts.Face(style.Family, sizePx, style.Bold); f != nil {
		return f
	}
	for _, fallback := range []string{"arial", "helvetica", "dejavu sans", "liberation sans", "noto sans"} {
		if f := r.fonts.Face(fallback, sizePx, style.Bold); f != nil {
			return f
		}
	}
	return basicfont.Face7x13
}

func alignAnchor(a Align) (float64, gg.Align) {
	switch a {
	case AlignCenter:
		return 0.5, gg.AlignCenter
	case AlignRight:
		return 1, gg.AlignRight
	default:
		return 0, gg.AlignLeft
	}
}

// drawContain draws img inside the box preserving aspect ratio, centered.
func drawContain(dc *gg.Context, img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || w <= 0 || h <= 0 {
		return
	}
	scale := w / float64(b.Dx())
	if s := h / float64(b.Dy()); s < scale {
		scale = s
	}
	dw := int(float64(b.Dx()) * scale)
	dh := int(float64(b.Dy()) * scale)

	g := gift.New(gift.Resize(dw, dh, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)

	dc.DrawImage(dst, int(x+(w-float64(dw))/2), int(y+(h-float64(dh))/2))
}

// drawCover draws img filling the w×h surface, cropping overflow.
func drawCover(dc *gg.Context, img image.Image, w, h int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	scale := float64(w) / float64(b.Dx())
	if s := float64(h) / float64(b.Dy()); s > scale {
		scale = s
	}
	dw := int(float64(b.Dx()) * scale)
	dh := int(float64(b.Dy()) * scale)

	g := gift.New(gift.Resize(dw, dh, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)

	dc.DrawImage(dst, (w-dw)/2, (h-dh)/2)
}

// downscale shrinks an image by the given factor using Lanczos resampling.
func downscale(img image.Image, factor float64) image.Image {
	if factor <= 0 || factor >= 1 {
		factor = 0.7
	}
	b := img.Bounds()
	g := gift.New(gift.Resize(int(float64(b.Dx())*factor), 0, gift.LanczosResampling))
	dst := image.NewRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}

func encodeBitmap(img image.Image, asPNG bool, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if asPNG {
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
