// Package filter narrows a peptide report to the rows of interest
package filter

import (
	"strings"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
)

// Config holds filtering configuration
type Config struct {
	UniqueOnly         bool     // Keep only peptides unique in their database
	UniqueAnalysisOnly bool     // Keep only peptides unique across all databases
	MinLength          int      // Minimum peptide length (0 = no limit)
	MaxLength          int      // Maximum peptide length (0 = no limit)
	Proteases          []string // Keep only these proteases (nil = all)
}

// Enabled reports whether any filter is configured.
func (c *Config) Enabled() bool {
	return c.UniqueOnly || c.UniqueAnalysisOnly || c.MinLength > 0 || c.MaxLength > 0 || len(c.Proteases) > 0
}

// Apply returns a copy of r holding only the peptides that pass every filter.
// Proteins left without peptides are dropped; databases and proteases are kept
// so the report still lists everything that was digested. r is not modified.
func (c *Config) Apply(r report.Report) report.Report {
	out := report.Report{Databases: make([]report.Database, 0, len(r.Databases))}

	for _, db := range r.Databases {
		d := report.Database{Name: db.Name}
		for _, p := range db.Proteases {
			if !c.keepProtease(p.Name) {
				continue
			}
			kept := report.Protease{Name: p.Name}
			for _, pr := range p.Proteins {
				peps := c.filterPeptides(pr.Peptides)
				if len(peps) == 0 {
					continue
				}
				kept.Proteins = append(kept.Proteins, report.Protein{Accession: pr.Accession, Peptides: peps})
			}
			d.Proteases = append(d.Proteases, kept)
		}
		out.Databases = append(out.Databases, d)
	}

	return out
}

// keepProtease matches protease names case-insensitively
func (c *Config) keepProtease(name string) bool {
	if len(c.Proteases) == 0 {
		return true
	}
	for _, p := range c.Proteases {
		if strings.EqualFold(strings.TrimSpace(p), name) {
			return true
		}
	}
	return false
}

// filterPeptides returns a new slice with the peptides that pass
func (c *Config) filterPeptides(peps []core.InSilicoPep) []core.InSilicoPep {
	var filtered []core.InSilicoPep
	for _, p := range peps {
		if c.keep(&p) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func (c *Config) keep(p *core.InSilicoPep) bool {
	if c.UniqueOnly && !p.UniqueInDatabase {
		return false
	}
	// Peptides without an analysis-wide tag cannot pass
	if c.UniqueAnalysisOnly && (p.UniqueInAnalysis == nil || !*p.UniqueInAnalysis) {
		return false
	}
	if c.MinLength > 0 && p.Length < c.MinLength {
		return false
	}
	if c.MaxLength > 0 && p.Length > c.MaxLength {
		return false
	}
	return true
}
