package deckexport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Format is an export output format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatPPTX Format = "pptx"
	FormatPNG  Format = "png"
)

var (
	// ErrNoSlides is returned when the deck has no slides to export.
	ErrNoSlides = errors.New("deck has no slides")

	// ErrUnsupportedFormat is returned for formats Export does not know.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// ProgressFunc receives human-readable progress messages during an export.
type ProgressFunc func(message string)

// ExportOptions configures an export run. The zero value is not usable;
// start from DefaultExportOptions.
type ExportOptions struct {
	// Scale multiplies the 960×540 logical canvas for rasterized formats.
	Scale float64

	// JPEGQuality is the initial encode quality for rasterized slides.
	JPEGQuality int

	// SizeCap is the per-slide encoded byte limit. A slide over the cap
	// gets one downscale attempt and is skipped if still too large.
	// Zero disables the cap.
	SizeCap int

	// DownscaleFactor and ReencodeQuality control the single recovery
	// attempt for an oversized slide.
	DownscaleFactor float64
	ReencodeQuality int

	// ImageTimeout bounds each slide or background image fetch.
	// OverlayTimeout bounds each overlay element fetch.
	ImageTimeout   time.Duration
	OverlayTimeout time.Duration

	// FontDirs lists extra directories scanned for fonts, ahead of the
	// platform font directories.
	FontDirs []string

	// Client is the HTTP client for remote assets. Nil uses
	// http.DefaultClient.
	Client *http.Client

	// Logger receives structured diagnostics. Nil disables logging.
	Logger *zap.SugaredLogger

	// OnProgress, when set, receives per-slide progress messages.
	OnProgress ProgressFunc
}

// DefaultExportOptions returns the standard options.
func DefaultExportOptions() *ExportOptions {
	return &ExportOptions{
		Scale:           2,
		JPEGQuality:     90,
		SizeCap:         2 << 20,
		DownscaleFactor: 0.7,
		ReencodeQuality: 70,
		ImageTimeout:    15 * time.Second,
		OverlayTimeout:  10 * time.Second,
	}
}

// Result is a finished export. Data holds the document for single-file
// formats; PerSlide holds one payload per slide for FormatPNG.
type Result struct {
	Format   Format
	FileName string
	Data     []byte
	PerSlide [][]byte
	Warnings []string
}

// Save writes the result's document to a file, removing the partial file
// when the write fails.
func (r *Result) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, r.Data, 0644); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Export renders the deck in the requested format. The deck is never
// mutated; per-asset failures degrade the affected slide and surface as
// warnings on the result rather than errors.
func Export(ctx context.Context, deck Deck, format Format, opts *ExportOptions) (*Result, error) {
	if opts == nil {
		opts = DefaultExportOptions()
	}
	if len(deck.Slides) == 0 {
		return nil, ErrNoSlides
	}
	// Unknown layouts fall back at render time; only structurally broken
	// decks are rejected here. Callers wanting the full check run Validate.
	for i, s := range deck.Slides {
		if s == nil {
			return nil, fmt.Errorf("invalid deck: slide %d is nil", i+1)
		}
	}

	log := opts.Logger
	if log != nil {
		log.Infow("starting export", "format", format, "slides", len(deck.Slides), "title", deck.Title)
	}

	var res *Result
	var err error
	switch format {
	case FormatPDF:
		res, err = exportPDF(ctx, deck, opts, log)
	case FormatHTML:
		res, err = exportHTML(ctx, deck, opts, log)
	case FormatPPTX:
		res, err = exportPPTX(ctx, deck, opts, log)
	case FormatPNG:
		res, err = exportPNG(ctx, deck, opts, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if log != nil {
		log.Infow("export finished", "format", format, "bytes", len(res.Data), "warnings", len(res.Warnings))
	}
	return res, nil
}

// exportPNG rasterizes each slide to an individual PNG.
func exportPNG(ctx context.Context, deck Deck, opts *ExportOptions, log *zap.SugaredLogger) (*Result, error) {
	r := newRasterizer(opts, log)
	bitmaps, warnings, err := r.renderDeck(ctx, deck, true, progressFunc(opts, "Creating slide"))
	if err != nil {
		return nil, err
	}

	res := &Result{
		Format:   FormatPNG,
		FileName: SafeFileName(deck.Title, "png"),
		Warnings: warnings,
	}
	for _, bm := range bitmaps {
		res.PerSlide = append(res.PerSlide, bm.Data)
	}
	if len(res.PerSlide) > 0 {
		res.Data = res.PerSlide[0]
	}
	return res, nil
}

// overlayTimeout returns the overlay fetch bound, defaulting when unset.
func (o *ExportOptions) overlayTimeout() time.Duration {
	if o.OverlayTimeout <= 0 {
		return 10 * time.Second
	}
	return o.OverlayTimeout
}

// progressFunc adapts the option callback to a per-slide counter.
func progressFunc(opts *ExportOptions, verb string) func(i, n int) {
	if opts.OnProgress == nil {
		return nil
	}
	return func(i, n int) {
		opts.OnProgress(fmt.Sprintf("%s %d/%d", verb, i, n))
	}
}
