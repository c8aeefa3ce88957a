package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	deckexport "github.com/slidecraft/deckexport"
)

func main() {
	format := flag.String("format", "pdf", "output format: pdf, html, pptx, png")
	out := flag.String("out", "", "output file (default: derived from the deck title)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	logger, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	deck := sampleDeck()

	opts := deckexport.DefaultExportOptions()
	opts.Logger = logger.Sugar()
	opts.OnProgress = func(msg string) {
		fmt.Println(msg)
	}

	res, err := deckexport.Export(context.Background(), deck, deckexport.Format(*format), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "export: %v\n", err)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = res.FileName
	}
	if err := res.Save(path); err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		os.Exit(1)
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	fmt.Printf("Exported %d slides to %s\n", len(deck.Slides), path)
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// sampleDeck builds a small deck exercising several layouts.
func sampleDeck() deckexport.Deck {
	title := deckexport.NewSlide()
	title.Layout = deckexport.LayoutTitleOnly
	title.Title = "Quarterly Review"

	agenda := deckexport.NewSlide()
	agenda.Layout = deckexport.LayoutTextOnly
	agenda.Title = "Agenda"
	agenda.Bullets = []string{"Results", "Roadmap", "Questions"}

	results := deckexport.NewSlide()
	results.Layout = deckexport.LayoutThreeColumns
	results.Title = "Results"
	results.Bullets = []string{
		"Revenue up 12%",
		"Churn below 2%",
		"Two new regions",
		"Support SLA met",
		"Hiring on plan",
		"Infra cost flat",
		"NPS at 54",
	}
	results.Notes = "Walk through each column left to right."

	return deckexport.Deck{
		Title:  "Quarterly Review",
		Slides: []*deckexport.Slide{title, agenda, results},
		Theme: deckexport.Theme{
			ID: "professional",
			Colors: deckexport.ThemeColors{
				Primary:    "#14213D",
				Accent:     "#B8860B",
				Background: "#FAFAF7",
				Text:       "#212529",
			},
			Heading: deckexport.FontSpec{Family: "Georgia, serif", Size: "1.75rem", Weight: "700"},
			Body:    deckexport.FontSpec{Family: "Arial, sans-serif", Size: "1.125rem", Weight: "400"},
		},
	}
}
