package digest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

// ProteinPeptides holds the candidates digested from one protein.
type ProteinPeptides struct {
	Protein  *core.Protein
	Peptides []core.RawPeptide
}

// Adapter digests whole databases with a Digestor.
type Adapter struct {
	Digestor Digestor
	Threads  int // proteins digested concurrently; <= 1 is sequential
}

// NewAdapter returns an Adapter around d (nil selects Cleaver).
func NewAdapter(d Digestor, threads int) *Adapter {
	if d == nil {
		d = Cleaver{}
	}
	return &Adapter{Digestor: d, Threads: threads}
}

// DigestDatabase digests every protein with the protease, always with an empty
// modification catalog. The result has one entry per protein in input order.
// An empty protein list yields an empty result.
func (a *Adapter) DigestDatabase(ctx context.Context, proteins []*core.Protein, protease *core.Protease, cfg core.DigestionConfig) ([]ProteinPeptides, error) {
	out := make([]ProteinPeptides, len(proteins))
	if len(proteins) == 0 {
		return out, nil
	}

	bounds := BoundsFrom(cfg)
	threads := a.Threads
	if threads < 1 {
		threads = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, protein := range proteins {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			peptides := a.Digestor.Digest(protein, protease, bounds)
			for j := range peptides {
				if err := peptides[j].Validate(); err != nil {
					return fmt.Errorf("digestor returned invalid peptide for %s with %s: %w", protein.Accession, protease.Name, err)
				}
			}

			// each worker owns its slot
			out[i] = ProteinPeptides{Protein: protein, Peptides: peptides}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of candidates.
func Count(digests []ProteinPeptides) int {
	n := 0
	for _, d := range digests {
		n += len(d.Peptides)
	}
	return n
}
