// Package main provides the manifest command that checks a preprocessing run
// against its raw input.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"productprep/pkg/metadata"
)

func main() {
	target := flag.String("path", "", "Path to a run manifest or to the output it describes")
	flag.Parse()

	if *target == "" {
		fmt.Println("Usage: manifest -path <clean.jsonl | clean.jsonl.meta.yaml>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	path := *target
	if !strings.HasSuffix(path, metadata.Suffix) {
		path = metadata.PathFor(path)
	}

	m, err := metadata.Read(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("📂 Manifest: %s\n", path)
	fmt.Printf("  Input:   %s (%s)\n", m.Input, m.InputFormat)
	fmt.Printf("  Output:  %s (%s)\n", m.Output, m.Format)
	fmt.Printf("  Records: %d\n", m.Records)
	fmt.Printf("  Stemmer: %s\n", m.Stemmer)

	if m.RunID != "" {
		fmt.Printf("  Run ID:  %s\n", m.RunID)
	}

	fmt.Printf("  Created: %s\n", m.CreatedAt)

	if err := m.Check(); err != nil {
		if errors.Is(err, metadata.ErrHashMismatch) {
			fmt.Println("❌ Input changed since the run; re-run preprocess")
		} else {
			fmt.Printf("❌ Verification failed: %v\n", err)
		}

		os.Exit(1)
	}

	fmt.Println("✅ Input hash matches")
}
