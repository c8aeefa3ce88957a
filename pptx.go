package deckexport

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"go.uber.org/zap"
)

// overlayTextGap is the vertical distance between the title box and the
// body box in the full-image overlay mode, in inches.
const overlayTextGap = 0.6

// placeholderTextColor is the caption color used when a slide image could
// not be resolved.
const placeholderTextColor = "6C757D"

// exportPPTX builds a structured PowerPoint document from the deck. Slides
// keep editable text boxes and pictures rather than flat bitmaps.
func exportPPTX(ctx context.Context, deck Deck, opts *ExportOptions, log *zap.SugaredLogger) (*Result, error) {
	if len(deck.Slides) == 0 {
		return nil, ErrNoSlides
	}

	b := &pptxBuilder{
		doc:    &pptxDoc{Title: deck.Title},
		theme:  deck.Theme,
		images: NewImageResolver(opts.Client, opts.ImageTimeout, log),
		opts:   opts,
		log:    log,
	}

	progress := progressFunc(opts, "Creating slide")
	for i, slide := range deck.Slides {
		if progress != nil {
			progress(i+1, len(deck.Slides))
		}
		b.addSlide(ctx, slide)
	}

	var buf bytes.Buffer
	w := &pptxWriter{doc: b.doc}
	if err := w.writeTo(&buf); err != nil {
		return nil, fmt.Errorf("write pptx: %w", err)
	}

	return &Result{
		Format:   FormatPPTX,
		FileName: SafeFileName(deck.Title, "pptx"),
		Data:     buf.Bytes(),
		Warnings: b.warnings,
	}, nil
}

// pptxBuilder lowers deck slides into slide parts, resolving assets as it
// goes. Asset failures degrade the affected element and never abort the
// deck.
type pptxBuilder struct {
	doc      *pptxDoc
	theme    Theme
	images   *ImageResolver
	opts     *ExportOptions
	log      *zap.SugaredLogger
	warnings []string
}

func (b *pptxBuilder) addSlide(ctx context.Context, slide *Slide) {
	part := slidePart{
		Background: b.background(ctx),
		Notes:      slide.Notes,
	}

	geo := GeometryFor(slide.Layout)

	if geo.OverlayText {
		b.buildOverlaySlide(ctx, &part, slide, geo)
	} else {
		if geo.ShowTitle && slide.Title != "" {
			part.Texts = append(part.Texts, b.titleShape(slide, geo.Title))
		}
		if geo.ShowBody && len(slide.Bullets) > 0 {
			part.Texts = append(part.Texts, b.bodyShapes(slide, geo)...)
		}
		if geo.ShowImage && slide.Image != nil {
			b.placeImage(ctx, &part, slide.Image, geo.Image)
		}
	}

	for _, ov := range slide.Overlays {
		b.placeOverlay(ctx, &part, ov)
	}

	b.doc.Slides = append(b.doc.Slides, part)
}

// background resolves the slide background by priority: image, then
// bespoke gradient, then flat color.
func (b *pptxBuilder) background(ctx context.Context) fillSpec {
	if b.theme.BackgroundImage != "" {
		if ri := b.images.Resolve(ctx, b.theme.BackgroundImage, b.theme.ID); ri != nil {
			return fillSpec{Kind: fillImage, MediaIndex: b.doc.addMedia(ri.Data, ri.Mime)}
		}
	}
	if b.theme.BackgroundGradient != "" {
		if g, ok := bespokeGradients[b.theme.BackgroundGradient]; ok {
			return fillSpec{Kind: fillGradient, From: g.From, To: g.To, Vertical: g.Vertical}
		}
	}
	return fillSpec{Kind: fillSolid, Color: BackgroundColor(b.theme)}
}

func (b *pptxBuilder) titleShape(slide *Slide, box Box) textShape {
	style := ResolveStyle(b.theme, RoleHeading)
	if slide.Layout == LayoutTextOnly {
		style.Size += textOnlySizeBump
	}
	x, y, cx, cy := emuBox(box)
	return textShape{
		Name: "Title",
		X:    x, Y: y, CX: cx, CY: cy,
		Paragraphs: []paraSpec{{
			Runs:  []runSpec{styledRun(slide.Title, style)},
			Align: style.Align,
		}},
	}
}

func (b *pptxBuilder) bodyShapes(slide *Slide, geo Geometry) []textShape {
	style := ResolveStyle(b.theme, RoleBody)

	switch {
	case geo.Columns > 1:
		cols := SplitColumns(slide.Bullets, geo.Columns)
		boxes := ColumnBoxes(geo.Body, geo.Columns)
		shapes := make([]textShape, 0, geo.Columns)
		for i, box := range boxes {
			shapes = append(shapes, b.bulletBox(fmt.Sprintf("Column %d", i+1), cols[i], style, box))
		}
		return shapes
	case slide.Layout == LayoutTextOnly:
		// Each item is its own numbered box at a fixed pitch so the slide
		// reads as an ordered sequence.
		var shapes []textShape
		n := 0
		for _, item := range slide.Bullets {
			if item == "" {
				continue
			}
			band := Box{X: geo.Body.X, Y: geo.Body.Y + float64(n)*stackedItemPitch, W: geo.Body.W, H: stackedItemPitch}
			if band.Y+band.H > geo.Body.Y+geo.Body.H {
				break
			}
			x, y, cx, cy := emuBox(band)
			shapes = append(shapes, textShape{
				Name: fmt.Sprintf("Item %d", n+1),
				X:    x, Y: y, CX: cx, CY: cy,
				Paragraphs: []paraSpec{{
					Runs:    []runSpec{styledRun(item, style)},
					Align:   style.Align,
					Bullet:  bulletNumbered,
					StartAt: n + 1,
				}},
			})
			n++
		}
		return shapes
	case slide.Layout == LayoutParagraph:
		shape := b.bulletBox("Body", slide.Bullets, style, geo.Body)
		for i := range shape.Paragraphs {
			shape.Paragraphs[i].Bullet = bulletNone
		}
		return []textShape{shape}
	default:
		return []textShape{b.bulletBox("Body", slide.Bullets, style, geo.Body)}
	}
}

// bulletBox builds one text box holding a bulleted paragraph per item.
// Empty items are dropped.
func (b *pptxBuilder) bulletBox(name string, items []string, style TextStyle, box Box) textShape {
	x, y, cx, cy := emuBox(box)
	shape := textShape{Name: name, X: x, Y: y, CX: cx, CY: cy}
	for _, item := range items {
		if item == "" {
			continue
		}
		shape.Paragraphs = append(shape.Paragraphs, paraSpec{
			Runs:   []runSpec{styledRun(item, style)},
			Align:  style.Align,
			Bullet: bulletChar,
		})
	}
	return shape
}

// buildOverlaySlide handles the full-image layout: the image fills the
// canvas and white centered text sits on top of it.
func (b *pptxBuilder) buildOverlaySlide(ctx context.Context, part *slidePart, slide *Slide, geo Geometry) {
	if slide.Image != nil {
		if ri := b.images.Resolve(ctx, slide.Image.URL, b.theme.ID); ri != nil {
			part.Pics = append(part.Pics, picShape{
				Name: "Backdrop",
				Desc: slide.Image.Alt,
				X:    0, Y: 0,
				CX: canvasEMUWidth, CY: canvasEMUHeight,
				MediaIndex: b.doc.addMedia(ri.Data, ri.Mime),
			})
		} else {
			b.warnf("slide image %q unavailable, using background only", slide.Image.URL)
		}
	}

	title := ResolveStyle(b.theme, RoleHeading)
	title.Color = "FFFFFF"
	title.Align = AlignCenter

	body := ResolveStyle(b.theme, RoleBody)
	body.Color = "FFFFFF"
	body.Align = AlignCenter

	if slide.Title != "" {
		x, y, cx, cy := emuBox(geo.Title)
		part.Texts = append(part.Texts, textShape{
			Name: "Title",
			X:    x, Y: y, CX: cx, CY: cy,
			Anchor: "ctr",
			Paragraphs: []paraSpec{{
				Runs:  []runSpec{styledRun(slide.Title, title)},
				Align: AlignCenter,
			}},
		})
	}
	if len(slide.Bullets) > 0 {
		bodyBox := geo.Body
		bodyBox.Y = geo.Title.Y + geo.Title.H + overlayTextGap
		x, y, cx, cy := emuBox(bodyBox)
		shape := textShape{Name: "Body", X: x, Y: y, CX: cx, CY: cy, Anchor: "t"}
		for _, item := range slide.Bullets {
			if item == "" {
				continue
			}
			shape.Paragraphs = append(shape.Paragraphs, paraSpec{
				Runs:  []runSpec{styledRun(item, body)},
				Align: AlignCenter,
			})
		}
		part.Texts = append(part.Texts, shape)
	}
}

// placeImage puts the slide image contain-fitted inside its box, or a
// neutral placeholder caption when resolution fails.
func (b *pptxBuilder) placeImage(ctx context.Context, part *slidePart, ref *ImageRef, box Box) {
	ri := b.images.Resolve(ctx, ref.URL, b.theme.ID)
	if ri == nil {
		b.warnf("slide image %q unavailable, using placeholder", ref.URL)
		x, y, cx, cy := emuBox(box)
		part.Texts = append(part.Texts, textShape{
			Name: "Image Placeholder",
			X:    x, Y: y, CX: cx, CY: cy,
			Anchor: "ctr",
			Paragraphs: []paraSpec{{
				Runs: []runSpec{{
					Text:   placeholderText,
					Family: defaultFont,
					Size:   DefaultBodySize,
					Color:  placeholderTextColor,
				}},
				Align: AlignCenter,
			}},
		})
		return
	}

	fitted := containBox(box, ri.Data)
	x, y, cx, cy := emuBox(fitted)
	part.Pics = append(part.Pics, picShape{
		Name: "Slide Image",
		Desc: ref.Alt,
		X:    x, Y: y, CX: cx, CY: cy,
		MediaIndex: b.doc.addMedia(ri.Data, ri.Mime),
	})
}

// placeOverlay embeds one free-floating element. Failed fetches are
// skipped without a warning since overlays are decorative.
func (b *pptxBuilder) placeOverlay(ctx context.Context, part *slidePart, ov OverlayElement) {
	fetchCtx, cancel := context.WithTimeout(ctx, b.opts.overlayTimeout())
	defer cancel()

	data, mime, err := b.images.Fetch(fetchCtx, ov.URL)
	if err != nil {
		if b.log != nil {
			b.log.Debugw("overlay element skipped", "url", ov.URL, "error", err)
		}
		return
	}

	part.Pics = append(part.Pics, picShape{
		Name: "Overlay",
		X:    Inch(ov.X * CanvasWidth),
		Y:    Inch(ov.Y * CanvasHeight),
		CX:   Inch(ov.Width * CanvasWidth),
		CY:   Inch(ov.Height * CanvasHeight),
		MediaIndex: b.doc.addMedia(data, mime),
	})
}

func (b *pptxBuilder) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	b.warnings = append(b.warnings, msg)
	if b.log != nil {
		b.log.Warn(msg)
	}
}

func styledRun(text string, style TextStyle) runSpec {
	return runSpec{
		Text:   text,
		Family: style.Family,
		Size:   style.Size,
		Bold:   style.Bold,
		Color:  style.Color,
	}
}

// containBox shrinks a box to the intrinsic aspect ratio of the encoded
// image, centered. An undecodable payload keeps the full box.
func containBox(box Box, data []byte) Box {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return box
	}
	scale := box.W / float64(cfg.Width)
	if s := box.H / float64(cfg.Height); s < scale {
		scale = s
	}
	w := float64(cfg.Width) * scale
	h := float64(cfg.Height) * scale
	return Box{
		X: box.X + (box.W-w)/2,
		Y: box.Y + (box.H-h)/2,
		W: w,
		H: h,
	}
}
