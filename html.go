package deckexport

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"

	"go.uber.org/zap"
)

// htmlPage is the self-contained document template. Every slide bitmap is
// inlined as a data URL so the file has no external references, and each
// slide forces a page break when printed.
var htmlPage = template.Must(template.New("deck").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { margin: 0; background: #1a1a2e; font-family: Arial, sans-serif; }
  .slide { page-break-after: always; margin: 24px auto; max-width: 1280px; }
  .slide img { display: block; width: 100%; height: auto; box-shadow: 0 4px 16px rgba(0,0,0,0.4); }
  .slide figcaption { color: #8888aa; font-size: 12px; padding: 6px 2px; }
  @media print {
    body { background: #fff; }
    .slide { margin: 0; max-width: none; }
    .slide img { box-shadow: none; }
    .slide figcaption { display: none; }
  }
</style>
</head>
<body>
{{range .Slides}}<figure class="slide" id="slide-{{.Number}}">
<img src="{{.Src}}" alt="{{.Alt}}">
<figcaption>{{.Caption}}</figcaption>
</figure>
{{end}}</body>
</html>
`))

type htmlSlide struct {
	Number  int
	Src     template.URL
	Alt     string
	Caption string
}

type htmlDoc struct {
	Title  string
	Slides []htmlSlide
}

// exportHTML rasterizes the deck and emits one standalone HTML file with
// the slides inlined as base64 images.
func exportHTML(ctx context.Context, deck Deck, opts *ExportOptions, log *zap.SugaredLogger) (*Result, error) {
	r := newRasterizer(opts, log)
	bitmaps, warnings, err := r.renderDeck(ctx, deck, false, progressFunc(opts, "Creating slide"))
	if err != nil {
		return nil, err
	}

	doc := htmlDoc{Title: deck.Title}
	for _, bm := range bitmaps {
		slide := deck.Slides[bm.Index]
		alt := slide.Title
		if alt == "" {
			alt = fmt.Sprintf("Slide %d", bm.Index+1)
		}
		doc.Slides = append(doc.Slides, htmlSlide{
			Number:  bm.Index + 1,
			Src:     template.URL("data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(bm.Data)),
			Alt:     alt,
			Caption: fmt.Sprintf("%d / %d · %s", bm.Index+1, len(deck.Slides), alt),
		})
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	return &Result{
		Format:   FormatHTML,
		FileName: SafeFileName(deck.Title, "html"),
		Data:     buf.Bytes(),
		Warnings: warnings,
	}, nil
}
