package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

func testConfig(proteases ...*core.Protease) core.DigestionConfig {
	cfg := core.DefaultDigestionConfig()
	cfg.Proteases = proteases
	cfg.MinPeptideLength = 1
	cfg.MaxMissedCleavages = 0
	return cfg
}

func TestDigestDatabaseEmpty(t *testing.T) {
	trypsin, err := DefaultCatalog().Lookup("trypsin")
	require.NoError(t, err)

	out, err := NewAdapter(nil, 1).DigestDatabase(context.Background(), nil, trypsin, testConfig(trypsin))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDigestDatabaseKeepsProteinOrder(t *testing.T) {
	trypsin, err := DefaultCatalog().Lookup("trypsin")
	require.NoError(t, err)

	var proteins []*core.Protein
	for i := 0; i < 50; i++ {
		proteins = append(proteins, &core.Protein{
			Accession: fmt.Sprintf("P%02d", i),
			Sequence:  strings.Repeat("A", i%5+1) + "KGGR",
		})
	}

	sequential, err := NewAdapter(Cleaver{}, 1).DigestDatabase(context.Background(), proteins, trypsin, testConfig(trypsin))
	require.NoError(t, err)
	parallel, err := NewAdapter(Cleaver{}, 8).DigestDatabase(context.Background(), proteins, trypsin, testConfig(trypsin))
	require.NoError(t, err)

	require.Len(t, parallel, len(proteins))
	assert.Equal(t, sequential, parallel)
	for i, d := range parallel {
		assert.Same(t, proteins[i], d.Protein)
		assert.Len(t, d.Peptides, 2)
	}
	assert.Equal(t, 100, Count(parallel))
}

type brokenDigestor struct{}

func (brokenDigestor) Digest(p *core.Protein, protease *core.Protease, _ Bounds) []core.RawPeptide {
	return []core.RawPeptide{{BaseSequence: "XYZ", Protein: p, Protease: protease}}
}

func TestDigestDatabaseRejectsInvalidCandidates(t *testing.T) {
	trypsin, err := DefaultCatalog().Lookup("trypsin")
	require.NoError(t, err)

	_, err = NewAdapter(brokenDigestor{}, 2).DigestDatabase(context.Background(),
		[]*core.Protein{{Accession: "P1", Sequence: "XYZ"}}, trypsin, testConfig(trypsin))

	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDigestDatabaseCanceled(t *testing.T) {
	trypsin, err := DefaultCatalog().Lookup("trypsin")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewAdapter(nil, 1).DigestDatabase(ctx, []*core.Protein{{Accession: "P1", Sequence: "PEPTIDEK"}}, trypsin, testConfig(trypsin))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Contains(t, c.Names(), "trypsin")
	assert.Contains(t, c.Names(), "Lys-N")

	p, err := c.Lookup("TRYPSIN")
	require.NoError(t, err)
	assert.Equal(t, "trypsin", p.Name)
	assert.Equal(t, "K|[P],R|[P]", p.Specificity())

	_, err = c.Lookup("tryp")
	assert.ErrorContains(t, err, "did you mean")

	_, err = c.Lookup("papain")
	assert.ErrorContains(t, err, "unknown protease 'papain'")

	err = c.Load(strings.NewReader("proteases:\n  - name: papain\n    motifs: [\"R|\", \"K|\"]\n  - name: trypsin\n    motifs: [\"K|\"]\n"))
	require.NoError(t, err)
	p, err = c.Lookup("papain")
	require.NoError(t, err)
	assert.Len(t, p.Rules, 2)
	p, err = c.Lookup("trypsin")
	require.NoError(t, err)
	assert.Equal(t, "K|", p.Specificity())

	ps, err := c.LookupAll([]string{"Lys-C", " Asp-N "})
	require.NoError(t, err)
	assert.Equal(t, "Lys-C", ps[0].Name)
	assert.Equal(t, "Asp-N", ps[1].Name)
}

func TestCatalogLookupCaseCollision(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Load(strings.NewReader("proteases:\n  - name: Trypsin\n    motifs: [\"K|\"]\n")))

	// exact names win; other spellings resolve to the first name in sorted order
	for i := 0; i < 20; i++ {
		p, err := c.Lookup("TRYPSIN")
		require.NoError(t, err)
		assert.Equal(t, "Trypsin", p.Name)
	}
	p, err := c.Lookup("trypsin")
	require.NoError(t, err)
	assert.Equal(t, "K|[P],R|[P]", p.Specificity())
}

func TestCatalogLoadErrors(t *testing.T) {
	tests := map[string]string{
		"missing name":  "proteases:\n  - motifs: [\"K|\"]\n",
		"bad motif":     "proteases:\n  - name: x\n    motifs: [\"K\"]\n",
		"unknown field": "proteases:\n  - name: x\n    rules: [\"K|\"]\n",
		"not yaml":      "proteases: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, NewCatalog().Load(strings.NewReader(doc)))
		})
	}
}
