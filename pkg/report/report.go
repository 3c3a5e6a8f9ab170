// Package report assembles annotated peptides into the per-run peptide report.
//
// A Report is an ownership tree of ordered slices: database, then protease,
// then protein, then the peptides digested from that protein. The tree is
// built bottom-up by Assemble and its nesting order is the row order.
package report

import (
	"strconv"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

// FileName is the report file written to the output directory.
const FileName = "ProteaseGuruPeptides.tsv"

// NotComputed is written for a uniqueness column whose pass did not run.
const NotComputed = "N/A"

// Header holds the column names, in row order.
var Header = []string{
	"Database",
	"Protease",
	"Base Sequence",
	"Full Sequence",
	"Previous Amino Acid",
	"Next Amino Acid",
	"Length",
	"Molecular Weight",
	"Protein",
	"Unique (in database)",
	"Unique (in analysis)",
	"Hydrophobicity",
	"Electrophoretic Mobility",
}

// Report is the full result of one run.
type Report struct {
	Databases []Database
}

// Database groups the results of one protein database.
type Database struct {
	Name      string
	Proteases []Protease
}

// Protease groups the results of one protease within a database.
type Protease struct {
	Name     string
	Proteins []Protein
}

// Protein holds the peptides digested from one protein.
type Protein struct {
	Accession string
	Peptides  []core.InSilicoPep
}

// DatabaseDigest is assembly input for one database.
type DatabaseDigest struct {
	Name      string
	Proteases []ProteaseDigest
}

// ProteaseDigest is assembly input for one protease.
type ProteaseDigest struct {
	Name     string
	Proteins []ProteinPeptides
}

// ProteinPeptides is assembly input for one protein.
type ProteinPeptides struct {
	Protein  *core.Protein
	Peptides []core.InSilicoPep
}

// Assemble builds a Report from digests, keeping their order. Peptides are
// copied and stamped with their database name; the input is not modified.
func Assemble(dbs []DatabaseDigest) Report {
	r := Report{Databases: make([]Database, 0, len(dbs))}
	for _, db := range dbs {
		d := Database{Name: db.Name, Proteases: make([]Protease, 0, len(db.Proteases))}
		for _, pd := range db.Proteases {
			p := Protease{Name: pd.Name, Proteins: make([]Protein, 0, len(pd.Proteins))}
			for _, pp := range pd.Proteins {
				peps := make([]core.InSilicoPep, len(pp.Peptides))
				copy(peps, pp.Peptides)
				for i := range peps {
					peps[i].Database = db.Name
				}
				var accession string
				if pp.Protein != nil {
					accession = pp.Protein.Accession
				}
				p.Proteins = append(p.Proteins, Protein{Accession: accession, Peptides: peps})
			}
			d.Proteases = append(d.Proteases, p)
		}
		r.Databases = append(r.Databases, d)
	}
	return r
}

// Len returns the number of peptide rows.
func (r Report) Len() int {
	n := 0
	for _, d := range r.Databases {
		n += d.Len()
	}
	return n
}

// Len returns the number of peptide rows for the database.
func (d Database) Len() int {
	n := 0
	for _, p := range d.Proteases {
		for _, pr := range p.Proteins {
			n += len(pr.Peptides)
		}
	}
	return n
}

// Walk calls fn for each peptide in nesting order and stops at the first error.
func (r Report) Walk(fn func(p *core.InSilicoPep) error) error {
	for _, d := range r.Databases {
		for _, p := range d.Proteases {
			for _, pr := range p.Proteins {
				for i := range pr.Peptides {
					if err := fn(&pr.Peptides[i]); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// Rows calls fn with the formatted fields of each row in nesting order.
func (r Report) Rows(fn func(row []string) error) error {
	return r.Walk(func(p *core.InSilicoPep) error {
		return fn(Row(p))
	})
}

// Row formats a peptide as report fields matching Header.
func Row(p *core.InSilicoPep) []string {
	analysis := NotComputed
	if p.UniqueInAnalysis != nil {
		analysis = formatBool(*p.UniqueInAnalysis)
	}

	return []string{
		p.Database,
		p.Protease,
		p.BaseSequence,
		p.FullSequence,
		string(p.PreviousResidue),
		string(p.NextResidue),
		strconv.Itoa(p.Length),
		formatFloat(p.MonoisotopicMass),
		p.ProteinAccession,
		formatBool(p.UniqueInDatabase),
		analysis,
		formatFloat(p.Hydrophobicity),
		formatFloat(p.ElectrophoreticMobility),
	}
}

// formatFloat writes the shortest decimal that parses back to v.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
