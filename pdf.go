package deckexport

import (
	"bytes"
	"context"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"go.uber.org/zap"
)

// exportPDF rasterizes every slide and assembles the bitmaps into one
// landscape PDF, one slide per page. Pages use the slide's native 16:9
// aspect so the images fill them edge to edge.
func exportPDF(ctx context.Context, deck Deck, opts *ExportOptions, log *zap.SugaredLogger) (*Result, error) {
	r := newRasterizer(opts, log)
	bitmaps, warnings, err := r.renderDeck(ctx, deck, false, progressFunc(opts, "Creating slide"))
	if err != nil {
		return nil, err
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "in",
		Size:           fpdf.SizeType{Wd: CanvasWidth, Ht: CanvasHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(deck.Title, true)

	for _, bm := range bitmaps {
		name := fmt.Sprintf("slide-%d", bm.Index+1)
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(bm.Data))

		doc.AddPage()
		// Full page width; the height follows the bitmap's own aspect and is
		// centered vertically in case a downscale changed the ratio slightly.
		imgH := CanvasWidth * float64(bm.Height) / float64(bm.Width)
		doc.ImageOptions(name, 0, (CanvasHeight-imgH)/2, CanvasWidth, imgH, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}

	return &Result{
		Format:   FormatPDF,
		FileName: SafeFileName(deck.Title, "pdf"),
		Data:     buf.Bytes(),
		Warnings: warnings,
	}, nil
}
