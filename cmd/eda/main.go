// Package main provides the eda command that summarizes a cleaned table.
package main

import (
	"flag"
	"fmt"
	"os"

	"productprep/internal/config"
	"productprep/internal/logger"
	"productprep/internal/report"
	"productprep/internal/sink"
)

func main() {
	inputPath := flag.String("in", "", "Path to the cleaned table (JSONL)")
	outDir := flag.String("outdir", "eda", "Directory for the report files")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	topBrands := flag.Int("top-brands", 0, "Number of brands to list (default: from config)")
	topTerms := flag.Int("top-terms", 0, "Number of terms to list per token column (default: from config)")
	bins := flag.Int("bins", 0, "Histogram bins (default: from config)")
	printReport := flag.Bool("print", false, "Print the markdown report to stdout")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if *inputPath == "" {
		log.Error("Please provide the cleaned table with -in flag")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opts := report.Options{
		TopBrands:     cfg.Report.TopBrands,
		TopTerms:      cfg.Report.TopTerms,
		HistogramBins: cfg.Report.HistogramBins,
	}

	if *topBrands > 0 {
		opts.TopBrands = *topBrands
	}

	if *topTerms > 0 {
		opts.TopTerms = *topTerms
	}

	if *bins > 0 {
		opts.HistogramBins = *bins
	}

	log.Info(fmt.Sprintf("📂 Reading: %s", *inputPath))

	table, err := sink.ReadJSONL(*inputPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to read table: %v", err))
		os.Exit(1)
	}

	r := report.Build(table, opts)

	paths, err := r.WriteDir(*outDir)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to write report: %v", err))
		os.Exit(1)
	}

	for _, p := range paths {
		log.Info(fmt.Sprintf("✅ Saved to: %s", p))
	}

	if *printReport {
		fmt.Println(r.Markdown())
	}

	s := r.Summary
	fmt.Printf("📊 %d docs | %d brands | %d categories | vocabulary %d\n",
		s.Docs, s.UniqueBrands, s.UniqueCategories, s.VocabularySize)
}
