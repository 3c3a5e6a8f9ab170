package task

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/database"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/digest"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
)

// stubLoader serves proteins from memory, keyed by file name.
type stubLoader map[string][]*core.Protein

func (l stubLoader) Load(db database.Database) ([]*core.Protein, []string, error) {
	proteins, ok := l[db.FileName()]
	if !ok || len(proteins) == 0 {
		return []*core.Protein{}, []string{database.NoProteinsWarning}, nil
	}
	return proteins, nil, nil
}

// fragmentDigestor returns the listed fragments of each protein, ignoring the protease.
type fragmentDigestor map[string][]string

func (f fragmentDigestor) Digest(p *core.Protein, protease *core.Protease, _ digest.Bounds) []core.RawPeptide {
	var peps []core.RawPeptide
	for _, frag := range f[p.Accession] {
		start := strings.Index(p.Sequence, frag)
		peps = append(peps, core.RawPeptide{
			BaseSequence:     frag,
			FullSequence:     frag,
			PreviousResidue:  core.TerminusResidue,
			NextResidue:      core.TerminusResidue,
			Start:            start + 1,
			End:              start + len(frag),
			MonoisotopicMass: core.CalculateNeutralMass(frag, nil),
			Protein:          p,
			Protease:         protease,
		})
	}
	return peps
}

func params(t *testing.T, names ...string) core.DigestionConfig {
	t.Helper()
	proteases, err := digest.DefaultCatalog().LookupAll(names)
	require.NoError(t, err)

	cfg := core.DefaultDigestionConfig()
	cfg.Proteases = proteases
	cfg.MaxMissedCleavages = 0
	return cfg
}

func collect(r report.Report) map[string][]bool {
	out := make(map[string][]bool)
	_ = r.Walk(func(p *core.InSilicoPep) error {
		out[p.BaseSequence] = append(out[p.BaseSequence], p.UniqueInDatabase)
		return nil
	})
	return out
}

func TestRunSharedAndUniqueFragments(t *testing.T) {
	a := &core.Protein{Accession: "A", Sequence: "AAPEPTIDEUNIQUESEQ"}
	b := &core.Protein{Accession: "B", Sequence: "GGGGPEPTIDE"}

	task := &DigestionTask{
		Params:   params(t, "trypsin"),
		Loader:   stubLoader{"db.fasta": {a, b}},
		Digestor: fragmentDigestor{"A": {"PEPTIDE", "UNIQUESEQ"}, "B": {"PEPTIDE"}},
	}

	result, err := task.Run(context.Background(), []database.Database{{FilePath: "/data/db.fasta"}})
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.RunID)

	assert.Equal(t, map[string][]bool{
		"PEPTIDE":   {false, false},
		"UNIQUESEQ": {true},
	}, collect(result.Report))
	assert.Equal(t, 3, result.Report.Len())

	first := result.Report.Databases[0].Proteases[0].Proteins[0].Peptides[0]
	assert.Equal(t, "db.fasta", first.Database)
	assert.Equal(t, "trypsin", first.Protease)
	assert.Equal(t, "A", first.ProteinAccession)
	assert.Equal(t, 3, first.Start)
	assert.Equal(t, core.ElectrophoreticMobility("PEPTIDE", first.MonoisotopicMass, nil), first.ElectrophoreticMobility)
	assert.Equal(t, core.HydrophobicityIndex("PEPTIDE"), first.Hydrophobicity)
}

func TestRunPoolsAcrossProteases(t *testing.T) {
	a := &core.Protein{Accession: "A", Sequence: "SAMPLEKR"}
	b := &core.Protein{Accession: "B", Sequence: "SAMPLEKGG"}

	// only protein A yields the fragment under both proteases
	task := &DigestionTask{
		Params:   params(t, "trypsin", "Lys-C"),
		Loader:   stubLoader{"db.fasta": {a, b}},
		Digestor: fragmentDigestor{"A": {"SAMPLEK"}, "B": {"GG"}},
	}
	result, err := task.Run(context.Background(), []database.Database{{FilePath: "db.fasta"}})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true}, collect(result.Report)["SAMPLEK"])

	// a second protein under any protease makes it shared under both
	task.Digestor = fragmentDigestor{"A": {"SAMPLEK"}, "B": {"SAMPLEK"}}
	result, err = task.Run(context.Background(), []database.Database{{FilePath: "db.fasta"}})
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false}, collect(result.Report)["SAMPLEK"])
}

func TestRunEmptyDatabaseWarns(t *testing.T) {
	obs, logs := observer.New(zapcore.WarnLevel)

	task := &DigestionTask{
		Params:   params(t, "trypsin"),
		Loader:   stubLoader{"full.fasta": {newProtein("A", "AAPEPTIDE")}},
		Digestor: fragmentDigestor{"A": {"PEPTIDE"}},
		Logger:   zap.New(obs),
	}

	result, err := task.Run(context.Background(), []database.Database{
		{FilePath: "empty.fasta"},
		{FilePath: "full.fasta"},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, Warning{Database: "empty.fasta", Message: database.NoProteinsWarning}, result.Warnings[0])
	assert.Equal(t, 1, logs.FilterMessage("database warning").Len())

	require.Len(t, result.Report.Databases, 2)
	assert.Equal(t, 0, result.Report.Databases[0].Len())
	assert.Equal(t, 1, result.Report.Databases[1].Len())
	assert.Contains(t, result.String(), "Warning: empty.fasta: "+database.NoProteinsWarning)
	assert.Contains(t, result.String(), "Time to run task:")
}

func newProtein(accession, seq string) *core.Protein {
	return &core.Protein{Accession: accession, Sequence: seq}
}

func TestRunAnalysisUniqueness(t *testing.T) {
	human := []*core.Protein{newProtein("H1", "PEPTIDEAAAK")}
	mouse := []*core.Protein{newProtein("M1", "PEPTIDEGGGK")}
	dbs := []database.Database{{FilePath: "human.fasta"}, {FilePath: "mouse.fasta"}}

	task := &DigestionTask{
		Params:   params(t, "trypsin"),
		Loader:   stubLoader{"human.fasta": human, "mouse.fasta": mouse},
		Digestor: fragmentDigestor{"H1": {"PEPTIDE", "AAAK"}, "M1": {"PEPTIDE", "GGGK"}},
	}

	result, err := task.Run(context.Background(), dbs)
	require.NoError(t, err)

	got := make(map[string]bool)
	require.NoError(t, result.Report.Walk(func(p *core.InSilicoPep) error {
		assert.True(t, p.UniqueInDatabase, "%s is unique within its own database", p.Name())
		require.NotNil(t, p.UniqueInAnalysis)
		got[p.Database+":"+p.BaseSequence] = *p.UniqueInAnalysis
		return nil
	}))
	assert.Equal(t, map[string]bool{
		"human.fasta:PEPTIDE": false,
		"human.fasta:AAAK":    true,
		"mouse.fasta:PEPTIDE": false,
		"mouse.fasta:GGGK":    true,
	}, got)

	task.SkipAnalysisUniqueness = true
	result, err = task.Run(context.Background(), dbs)
	require.NoError(t, err)
	require.NoError(t, result.Report.Walk(func(p *core.InSilicoPep) error {
		assert.Nil(t, p.UniqueInAnalysis)
		return nil
	}))
}

func TestRunModifiedPeptidesSwitch(t *testing.T) {
	phospho := core.Modification{ID: "Phosphoserine", Mass: 79.966331, Position: 1}
	a := &core.Protein{Accession: "A", Sequence: "SAMPLEK", Modifications: map[int][]core.Modification{1: {phospho}}}
	b := &core.Protein{Accession: "B", Sequence: "SAMPLEK"}

	for _, tt := range []struct {
		different bool
		want      map[string][]bool
	}{
		// unmodified SAMPLEK comes from both proteins, the phospho form only from A
		{true, map[string][]bool{"SAMPLEK": {false, false}, "S[Phosphoserine]AMPLEK": {true}}},
		{false, map[string][]bool{"SAMPLEK": {false, false}, "S[Phosphoserine]AMPLEK": {false}}},
	} {
		cfg := params(t, "trypsin")
		cfg.MinPeptideLength = 1
		cfg.TreatModifiedPeptidesAsDifferent = tt.different

		task := &DigestionTask{Params: cfg, Loader: stubLoader{"db.fasta": {a, b}}}
		result, err := task.Run(context.Background(), []database.Database{{FilePath: "db.fasta"}})
		require.NoError(t, err)

		got := make(map[string][]bool)
		require.NoError(t, result.Report.Walk(func(p *core.InSilicoPep) error {
			got[p.FullSequence] = append(got[p.FullSequence], p.UniqueInDatabase)
			return nil
		}))
		assert.Equal(t, tt.want, got, "treat modified as different = %v", tt.different)
	}
}

func TestRunWithFileLoader(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "proteins.fasta")
	require.NoError(t, os.WriteFile(full, []byte(
		">sp|P1|ONE_HUMAN One OS=Homo sapiens\nMSAMPLEDSEQKUNIQUESEQR\n"+
			">sp|P2|TWO_HUMAN Two OS=Homo sapiens\nGGKSAMPLEDSEQKAAAAAAAR\n"), 0o644))
	empty := filepath.Join(dir, "empty.fasta")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	task := &DigestionTask{
		Params:  params(t, "trypsin"),
		Loader:  database.NewFileLoader(nil),
		Threads: 4,
	}

	result, err := task.Run(context.Background(), []database.Database{
		{FilePath: empty},
		{FilePath: filepath.Join(dir, "missing.fasta")},
		{FilePath: full},
	})
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, "empty.fasta", result.Warnings[0].Database)
	assert.Equal(t, "missing.fasta", result.Warnings[1].Database)
	assert.Contains(t, result.Warnings[1].Message, "failed to load database")

	assert.Equal(t, map[string][]bool{
		"MSAMPLEDSEQK": {true},
		"SAMPLEDSEQK":  {false, false},
		"UNIQUESEQR":   {true},
		"AAAAAAAR":     {true},
	}, collect(result.Report))
}

func TestRunRejectsInvalidParams(t *testing.T) {
	task := &DigestionTask{Params: core.DefaultDigestionConfig(), Loader: stubLoader{}}
	_, err := task.Run(context.Background(), nil)

	var verr *core.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestResumeFromIsNotImplemented(t *testing.T) {
	task := &DigestionTask{}
	result, err := task.ResumeFrom(&Result{}, []string{"ProteaseGuruPeptides.tsv"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNotImplemented)
}
