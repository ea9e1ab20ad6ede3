// Package main provides the preprocess command that cleans raw product records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"productprep/internal/config"
	"productprep/internal/logger"
	"productprep/internal/metrics"
	"productprep/internal/pipeline"
	"productprep/internal/sink"
)

func main() {
	inputPath := flag.String("in", "", "Path to raw records (JSON array or one object per line)")
	outputPath := flag.String("out", "", "Output path, or a postgres:// DSN")
	configFile := flag.String("config", "", "Path to YAML configuration file")
	format := flag.String("format", "", "Output format: jsonl, json, xlsx, sqlite, postgres (default: from -out)")
	workers := flag.Int("workers", 0, "Number of normalization workers (default: from config)")
	envFile := flag.String("env", ".env", "Optional KEY=VALUE file loaded before the environment overrides")

	flag.Parse()

	if err := config.LoadEnvFiles(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file and the environment.
	if *inputPath != "" {
		cfg.Preprocess.Input = *inputPath
	}

	if *outputPath != "" {
		cfg.Preprocess.Output = *outputPath
	}

	if *format != "" {
		cfg.Output.Format = *format
	}

	if *workers > 0 {
		cfg.Preprocess.Workers = *workers
	}

	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if cfg.Preprocess.Input == "" || cfg.Preprocess.Output == "" {
		log.Error("Please provide an input with -in and an output with -out")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(fmt.Sprintf("❌ Invalid configuration: %v", err))
		os.Exit(1)
	}

	log.Debug("Configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	runner, err := pipeline.NewFromConfig(cfg, log, m)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Failed to build pipeline: %v", err))
		os.Exit(1)
	}

	log.Info("🚀 Starting preprocessing")

	res, err := runner.Preprocess(ctx, cfg.Preprocess.Input, cfg.Preprocess.Output)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Preprocessing failed: %v", err))
		os.Exit(1)
	}

	if cfg.Metrics.Textfile != "" {
		if err := m.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			log.Warn(fmt.Sprintf("⚠️  Failed to write metrics: %v", err))
		}
	}

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Summary Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Input:    %s (%s)\n", cfg.Preprocess.Input, res.Layout)
	if sink.IsFile(res.Format) {
		fmt.Printf("Output:   %s (%s)\n", res.Output, res.Format)
	} else {
		fmt.Printf("Output:   table %s (%s)\n", cfg.Output.Table, res.Format)
	}

	fmt.Printf("Records:  %d\n", res.Table.Len())

	if res.RunID != "" {
		fmt.Printf("Run ID:   %s\n", res.RunID)
	}

	if res.Manifest != "" {
		fmt.Printf("Manifest: %s\n", res.Manifest)
	}

	fmt.Printf("Duration: %v\n", res.Duration)
	fmt.Println("------------------------------------------------")
}
