package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/swse/internal/importer"
)

func main() {
	format := flag.String("format", "yaml", "source format: yaml")
	sourceDir := flag.String("source", "content/species", "path to raw species directory")
	outputDir := flag.String("output", "content/species_rules", "path to output species_rules directory")
	force := flag.Bool("force", false, "replace species records that already exist in the output directory")
	strict := flag.Bool("strict", false, "exit non-zero when any trait is left unconverted")
	flag.Parse()

	if *sourceDir == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-species [-format yaml] -source <dir> -output <dir> [-strict] [-force]")
		os.Exit(1)
	}

	var src importer.Source
	switch *format {
	case "yaml":
		src = importer.NewYAMLSource()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: yaml)\n", *format)
		os.Exit(1)
	}

	start := time.Now()
	imp := importer.New(src, os.Stdout)
	imp.Overwrite = *force
	results, err := imp.Run(*sourceDir, *outputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	unconverted := 0
	for _, r := range results {
		unconverted += len(r.Unconverted)
	}
	fmt.Printf("import complete in %s: %d species, %d special abilities need manual rules\n",
		time.Since(start).Round(time.Millisecond), len(results), unconverted)
	if *strict && unconverted > 0 {
		os.Exit(2)
	}
}
