// Package importer converts raw species definitions into species trait
// records in one offline batch.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cory-johannsen/swse/internal/game/traits"
)

// Result is the outcome of converting one species.
type Result struct {
	traits.Report
	UnknownSkills []string `json:"unknownSkills,omitempty"`
	Path          string   `json:"path"`
}

// ErrRecordExists is returned when a run would replace a species record
// already present in the output directory.
var ErrRecordExists = errors.New("species record already exists")

// Importer orchestrates species conversion from a Source to an output directory.
type Importer struct {
	source Source
	out    io.Writer
	// Overwrite permits replacing existing records.
	Overwrite bool
}

// New constructs an Importer backed by the given Source. Progress lines are
// written to out; nil discards them.
//
// Precondition: source must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, out io.Writer) *Importer {
	if out == nil {
		out = io.Discard
	}
	return &Importer{source: source, out: out}
}

// Run loads species from sourceDir, converts their traits, validates each
// record, and writes it to outputDir as <species_id>.json.
//
// Precondition: sourceDir must satisfy the source's layout requirements;
// outputDir must exist or be creatable.
// Postcondition: one JSON record per species is written to outputDir, or an
// error is returned. Unconverted traits never fail the run. Without
// Overwrite, any existing record fails the run before anything is written.
func (imp *Importer) Run(sourceDir, outputDir string) ([]Result, error) {
	overall := time.Now()

	t0 := time.Now()
	species, err := imp.source.Load(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	fmt.Fprintf(imp.out, "load    %d species in %s\n", len(species), time.Since(t0).Round(time.Millisecond))

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	if !imp.Overwrite {
		var existing []error
		for _, raw := range species {
			path := filepath.Join(outputDir, raw.ID+".json")
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, fmt.Errorf("%w: %s", ErrRecordExists, path))
			}
		}
		if len(existing) > 0 {
			return nil, errors.Join(existing...)
		}
	}

	results := make([]Result, 0, len(species))
	for _, raw := range species {
		rec, rep := traits.Convert(raw)
		if err := traits.Write(outputDir, rec); err != nil {
			return nil, fmt.Errorf("species %q: %w", raw.ID, err)
		}
		res := Result{Report: rep, UnknownSkills: UnknownSkills(rec), Path: filepath.Join(outputDir, rec.ID+".json")}
		results = append(results, res)

		fmt.Fprintf(imp.out, "wrote   %s  (%d traits, %d unconverted)\n",
			res.Path, len(raw.Traits), len(rep.Unconverted))
		for _, u := range rep.Unconverted {
			fmt.Fprintf(imp.out, "        special ability: %s: %s\n", u.Trait, u.Description)
		}
		for _, id := range res.UnknownSkills {
			fmt.Fprintf(imp.out, "        unknown skill: %s\n", id)
		}
	}

	fmt.Fprintf(imp.out, "total   %s\n", time.Since(overall).Round(time.Millisecond))
	return results, nil
}
