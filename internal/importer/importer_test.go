package importer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/swse/internal/game/ruleset"
	"github.com/cory-johannsen/swse/internal/game/traits"
	"github.com/cory-johannsen/swse/internal/importer"
)

func TestImporter_Run_ContentSpecies(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "species_rules")
	var log bytes.Buffer
	imp := importer.New(importer.NewYAMLSource(), &log)

	results, err := imp.Run("../../content/species", outDir)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, len(results))

	reg, err := traits.LoadRegistry(outDir)
	require.NoError(t, err)
	assert.Contains(t, reg.IDs(), "wookiee")

	var wookiee importer.Result
	for _, r := range results {
		if r.SpeciesID == "wookiee" {
			wookiee = r
		}
	}
	require.Len(t, wookiee.Unconverted, 1)
	assert.Empty(t, wookiee.UnknownSkills)
	assert.Contains(t, log.String(), "special ability: Weapon Familiarity")
	assert.Contains(t, log.String(), "total")
}

func TestImporter_Run_ReportsUnknownSkills(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "gungan.yaml"), []byte(`
id: gungan
name: Gungan
size: medium
speed: 6
traits:
  - name: Expert Swimmer
    description: Gungans gain a +2 species bonus on Swim and Holding Breath checks.
`), 0644))

	results, err := importer.New(importer.NewYAMLSource(), nil).Run(src, t.TempDir())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"holding_breath"}, results[0].UnknownSkills)
}

func TestImporter_Run_RefusesExistingRecords(t *testing.T) {
	outDir := t.TempDir()
	existing := filepath.Join(outDir, "wookiee.json")
	require.NoError(t, os.WriteFile(existing, []byte("{\"id\":\"curated\"}\n"), 0644))

	_, err := importer.New(importer.NewYAMLSource(), nil).Run("../../content/species", outDir)
	require.ErrorIs(t, err, importer.ErrRecordExists)
	assert.Contains(t, err.Error(), existing)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":\"curated\"}\n", string(data))
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing is written when a record would be replaced")

	imp := importer.New(importer.NewYAMLSource(), nil)
	imp.Overwrite = true
	_, err = imp.Run("../../content/species", outDir)
	require.NoError(t, err)
	reg, err := traits.LoadRegistry(outDir)
	require.NoError(t, err)
	assert.Contains(t, reg.IDs(), "wookiee")
}

func TestImporter_Run_MissingSource(t *testing.T) {
	_, err := importer.New(importer.NewYAMLSource(), nil).Run(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	assert.Error(t, err)
}

func TestYAMLSource_EmptyDir(t *testing.T) {
	_, err := importer.NewYAMLSource().Load(t.TempDir())
	assert.Error(t, err)
}

func TestUnknownSkills(t *testing.T) {
	s := &traits.Species{ID: "x", Name: "X", StructuralTraits: []traits.Trait{{
		ID: "t",
		Rules: []traits.Rule{
			{Type: traits.RuleSkillModifier, When: traits.Always(), Skills: []string{"stealth", "grapple"}},
			{Type: traits.RuleReroll, When: traits.Always(), Skills: []string{"grapple", "perception"}},
		},
	}}}
	assert.Equal(t, []string{"grapple"}, importer.UnknownSkills(s))
}

func TestProperty_ConvertedRecordsAlwaysLoad(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(t, "traits")
		raw := &ruleset.Species{ID: "sp", Name: "Species"}
		for i := 0; i < n; i++ {
			raw.Traits = append(raw.Traits, ruleset.TraitText{
				Name:        rapid.StringMatching(`[A-Z][a-z]{2,8}`).Draw(t, "name"),
				Description: rapid.StringMatching(`[A-Za-z +0-9,.]{0,60}`).Draw(t, "desc"),
			})
		}
		rec, rep := traits.Convert(raw)
		if err := rec.Validate(); err != nil {
			t.Fatalf("converted record invalid: %v", err)
		}
		total := len(rep.Unconverted)
		for _, c := range rep.Converted {
			total += c
		}
		if total != n {
			t.Fatalf("report covers %d of %d traits", total, n)
		}
	})
}
