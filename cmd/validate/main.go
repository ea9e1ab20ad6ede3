// Package main provides the validate command that checks label coverage of a
// cleaned table.
package main

import (
	"flag"
	"fmt"
	"os"

	"productprep/internal/config"
	"productprep/internal/formatter"
	"productprep/internal/logger"
	"productprep/internal/sink"
	"productprep/internal/validator"
)

func main() {
	cleanPath := flag.String("clean", "", "Path to the cleaned table (JSONL)")
	labelsPath := flag.String("labels", "", "Path to the validation labels CSV (needs a pid column)")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	sample := flag.Int("sample", -1, "Number of matching rows to show (default: from config)")
	strict := flag.Bool("strict", false, "Exit non-zero when warnings are found")

	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if *cleanPath == "" || *labelsPath == "" {
		log.Error("Please provide -clean and -labels")
		flag.PrintDefaults()
		os.Exit(1)
	}

	n := cfg.Validation.Sample
	if *sample >= 0 {
		n = *sample
	}

	table, err := sink.ReadJSONL(*cleanPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to read table: %v", err))
		os.Exit(1)
	}

	labels, err := validator.LoadLabels(*labelsPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to read labels: %v", err))
		os.Exit(1)
	}

	result := validator.NewLabelValidator(n).Validate(table, labels)

	fmt.Println(result.String())
	result.PrintErrors(os.Stdout)
	result.PrintWarnings(os.Stdout)

	if len(result.Sample) > 0 {
		header, rows := result.SampleTable()
		fmt.Println("\n🔍 Sample rows:")
		fmt.Print(formatter.RenderTable(header, rows))
	}

	if !result.IsValid || (*strict && len(result.Warnings) > 0) {
		os.Exit(1)
	}
}
