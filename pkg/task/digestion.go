// Package task runs the digestion pipeline over a set of protein databases.
package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/database"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/digest"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/uniqueness"
)

// ErrNotImplemented is returned by entry points the pipeline does not support.
var ErrNotImplemented = errors.New("not implemented")

// Warning is a problem with one database that did not stop the run.
type Warning struct {
	Database string
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Database, w.Message)
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Report   report.Report
	Warnings []Warning
	Elapsed  time.Duration
}

// String summarizes the run for the console.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Time to run task: %s\n", r.Elapsed.Round(time.Millisecond))
	for _, db := range r.Report.Databases {
		fmt.Fprintf(&sb, "%s: %d peptides\n", db.Name, db.Len())
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&sb, "Warning: %s\n", w)
	}
	return sb.String()
}

// DigestionTask digests every database with every configured protease and
// classifies the resulting peptides.
type DigestionTask struct {
	Params   core.DigestionConfig
	Loader   database.Loader
	Digestor digest.Digestor           // nil selects digest.Cleaver
	Scorer   core.HydrophobicityScorer // nil selects core.SSRCalc
	Threads  int
	Logger   *zap.Logger

	// Leave "Unique (in analysis)" unset instead of pooling all databases
	SkipAnalysisUniqueness bool
}

// lane holds the digests of one protease over one database.
type lane struct {
	protease *core.Protease
	digests  []digest.ProteinPeptides
}

type databaseRun struct {
	name  string
	lanes []lane
	tags  uniqueness.Tags
}

// Run processes the databases in order. Databases that cannot be loaded or hold
// no proteins produce warnings and no peptides; they never abort the run.
func (t *DigestionTask) Run(ctx context.Context, dbs []database.Database) (*Result, error) {
	start := time.Now()

	if err := t.Params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid digestion parameters: %w", err)
	}
	if t.Loader == nil {
		return nil, errors.New("no database loader configured")
	}

	logger := t.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	scorer := t.Scorer
	if scorer == nil {
		scorer = core.SSRCalc{}
	}

	result := &Result{RunID: uuid.NewString()}
	logger = logger.With(zap.String("run", result.RunID))

	adapter := digest.NewAdapter(t.Digestor, t.Threads)
	key := uniqueness.KeyFor(t.Params.TreatModifiedPeptidesAsDifferent)

	runs := make([]databaseRun, 0, len(dbs))
	var analysisPool []*core.RawPeptide

	for _, db := range dbs {
		name := db.FileName()

		proteins, warnings, err := t.Loader.Load(db)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("failed to load database: %v", err))
			proteins = nil
		}
		for _, msg := range warnings {
			logger.Warn("database warning", zap.String("database", name), zap.String("warning", msg))
			result.Warnings = append(result.Warnings, Warning{Database: name, Message: msg})
		}
		logger.Info("loaded database", zap.String("database", name), zap.Int("proteins", len(proteins)))

		run := databaseRun{name: name, lanes: make([]lane, 0, len(t.Params.Proteases))}
		var pool []*core.RawPeptide

		for _, protease := range t.Params.Proteases {
			digests, err := adapter.DigestDatabase(ctx, proteins, protease, t.Params)
			if err != nil {
				return nil, fmt.Errorf("failed to digest %s with %s: %w", name, protease.Name, err)
			}
			for i := range digests {
				pool = append(pool, uniqueness.Pool(digests[i].Peptides)...)
			}
			run.lanes = append(run.lanes, lane{protease: protease, digests: digests})

			logger.Debug("digested database",
				zap.String("database", name),
				zap.String("protease", protease.Name),
				zap.Int("peptides", digest.Count(digests)))
		}

		// every lane of the database is complete before tagging
		run.tags = uniqueness.Tag(pool, key)
		analysisPool = append(analysisPool, pool...)
		runs = append(runs, run)
	}

	var analysisTags uniqueness.Tags
	if !t.SkipAnalysisUniqueness {
		analysisTags = uniqueness.Tag(analysisPool, key)
	}

	digests := make([]report.DatabaseDigest, 0, len(runs))
	for _, run := range runs {
		digests = append(digests, annotate(run, analysisTags, scorer))
	}
	result.Report = report.Assemble(digests)
	result.Elapsed = time.Since(start)

	logger.Info("digestion finished",
		zap.Int("databases", len(dbs)),
		zap.Int("peptides", result.Report.Len()),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}

// annotate turns the classified candidates of one database into report input.
func annotate(run databaseRun, analysisTags uniqueness.Tags, scorer core.HydrophobicityScorer) report.DatabaseDigest {
	dd := report.DatabaseDigest{Name: run.name, Proteases: make([]report.ProteaseDigest, 0, len(run.lanes))}

	for _, l := range run.lanes {
		pd := report.ProteaseDigest{Name: l.protease.Name, Proteins: make([]report.ProteinPeptides, 0, len(l.digests))}
		for _, d := range l.digests {
			peps := make([]core.InSilicoPep, len(d.Peptides))
			for i := range d.Peptides {
				raw := &d.Peptides[i]
				peps[i] = core.NewInSilicoPep(raw, run.tags[raw], scorer.Score(raw), core.CifuentesMobility(raw))
				if analysisTags != nil {
					unique := analysisTags[raw]
					peps[i].UniqueInAnalysis = &unique
				}
			}
			pd.Proteins = append(pd.Proteins, report.ProteinPeptides{Protein: d.Protein, Peptides: peps})
		}
		dd.Proteases = append(dd.Proteases, pd)
	}

	return dd
}

// ResumeFrom would rebuild a run from previously written peptide files. It is
// not supported and always fails.
func (t *DigestionTask) ResumeFrom(prev *Result, peptideFiles []string) (*Result, error) {
	return nil, fmt.Errorf("resuming a digestion from %d peptide files: %w", len(peptideFiles), ErrNotImplemented)
}
