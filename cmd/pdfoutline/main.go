package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/poojithagarrep/pdfoutline"
)

func main() {
	cmd := &cli.Command{
		Name:  "pdfoutline",
		Usage: "Infer document outlines from PDF files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Input directory containing PDF files",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Output directory for JSON results",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "max-pages",
				Usage: "Reject documents with more pages than this",
				Value: 50,
			},
			&cli.FloatFlag{
				Name:  "font-size-threshold",
				Usage: "Font size weight in the heading score",
				Value: 1.2,
			},
			&cli.FloatFlag{
				Name:  "min-heading-score",
				Usage: "Minimum score for bold or all-caps headings",
				Value: 60,
			},
			&cli.IntFlag{
				Name:  "toc-skip-pages",
				Usage: "Pages to suppress after a table of contents",
				Value: 2,
			},
			&cli.FloatFlag{
				Name:  "header-footer-ratio",
				Usage: "Page-height fraction treated as header/footer margin",
				Value: 0.1,
			},
			&cli.BoolFlag{
				Name:  "diagnostics",
				Usage: "Include rejected-block diagnostics in the output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log per-page timing and metrics",
			},
		},
		Action: extractOutlines,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func extractOutlines(_ context.Context, cmd *cli.Command) error {
	inputDir := cmd.String("input")
	outputDir := cmd.String("output")

	// Initialise pdfium
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	config := pdfoutline.Config{
		MaxPages:          cmd.Int("max-pages"),
		FontSizeThreshold: cmd.Float("font-size-threshold"),
		MinHeadingScore:   cmd.Float("min-heading-score"),
		TOCSkipPages:      cmd.Int("toc-skip-pages"),
		HeaderFooterRatio: cmd.Float("header-footer-ratio"),
		Diagnostics:       cmd.Bool("diagnostics"),
		Verbose:           cmd.Bool("verbose"),
	}
	processor := pdfoutline.NewProcessorWithConfig(instance, config)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return fmt.Errorf("failed to read input directory: %w", err)
	}

	var processed, failed int
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		inputPath := filepath.Join(inputDir, entry.Name())
		outputName := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())) + ".json"
		outputPath := filepath.Join(outputDir, outputName)

		// A bad document fails on its own; the batch keeps going.
		result, err := processor.ProcessFile(inputPath)
		if err != nil {
			log.Printf("%s: %v", entry.Name(), err)
			failed++
			continue
		}

		data, err := result.MarshalIndent()
		if err != nil {
			log.Printf("%s: %v", entry.Name(), err)
			failed++
			continue
		}
		if err := os.WriteFile(outputPath, data, 0o644); err != nil {
			log.Printf("%s: failed to write output: %v", outputName, err)
			failed++
			continue
		}

		processed++
		if config.Verbose {
			log.Printf("%s -> %s", entry.Name(), outputName)
		}
	}

	fmt.Fprintf(os.Stderr, "Processed %d PDFs (%d failed)\n", processed, failed)
	return nil
}
