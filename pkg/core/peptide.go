package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// TerminusResidue marks a missing flanking residue at a protein terminus.
const TerminusResidue byte = '-'

// RawPeptide is a peptide candidate produced by digesting one protein with one protease.
type RawPeptide struct {
	BaseSequence string // residues only
	FullSequence string // residues with inline modification annotation

	PreviousResidue byte
	NextResidue     byte

	Start int // one-based, inclusive, within Protein
	End   int // one-based, inclusive, within Protein

	MonoisotopicMass float64

	// Modifications keyed by one-based residue index within the peptide
	Modifications map[int]Modification

	Protein  *Protein
	Protease *Protease
}

// Length returns the number of residues.
func (p *RawPeptide) Length() int {
	return len(p.BaseSequence)
}

// Validate checks that a candidate honours the digestion contract.
func (p *RawPeptide) Validate() error {
	var errs []string

	if p.BaseSequence == "" {
		errs = append(errs, "base sequence is required")
	}
	if p.FullSequence == "" {
		errs = append(errs, "full sequence is required")
	}
	if p.Protein == nil {
		errs = append(errs, "owning protein is required")
	}
	if p.Protease == nil {
		errs = append(errs, "owning protease is required")
	}
	if p.Start < 1 || p.End < p.Start {
		errs = append(errs, fmt.Sprintf("invalid residue range %d-%d", p.Start, p.End))
	} else if p.End-p.Start+1 != len(p.BaseSequence) {
		errs = append(errs, fmt.Sprintf("residue range %d-%d does not match length %d", p.Start, p.End, len(p.BaseSequence)))
	}
	if p.Protein != nil && p.End > p.Protein.Length() {
		errs = append(errs, fmt.Sprintf("end %d is past the protein end %d", p.End, p.Protein.Length()))
	}
	if math.IsNaN(p.MonoisotopicMass) || math.IsInf(p.MonoisotopicMass, 0) || p.MonoisotopicMass <= 0 {
		errs = append(errs, "monoisotopic mass must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Peptide " + p.BaseSequence,
			Message: strings.Join(errs, "; "),
		}
	}
	return nil
}

// AnnotateSequence writes modification identifiers inline after their residue,
// e.g. "PEPS[Phosphoserine]TIDE".
func AnnotateSequence(base string, mods map[int]Modification) string {
	if len(mods) == 0 {
		return base
	}

	positions := make([]int, 0, len(mods))
	for pos := range mods {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	var sb strings.Builder
	sb.Grow(len(base) + 16*len(mods))
	next := 0
	for i := 0; i < len(base); i++ {
		sb.WriteByte(base[i])
		for next < len(positions) && positions[next] == i+1 {
			sb.WriteString("[" + mods[positions[next]].ID + "]")
			next++
		}
	}
	return sb.String()
}

// InSilicoPep is a classified, annotated peptide ready for reporting.
type InSilicoPep struct {
	BaseSequence    string
	FullSequence    string
	PreviousResidue byte
	NextResidue     byte

	UniqueInDatabase bool
	UniqueInAnalysis *bool // nil when the analysis-wide pass was not run

	Hydrophobicity          float64
	ElectrophoreticMobility float64

	Length           int
	MonoisotopicMass float64

	Database         string // set during report assembly
	ProteinAccession string
	Start            int
	End              int
	Protease         string
}

// NewInSilicoPep annotates a raw candidate with its uniqueness and descriptors.
func NewInSilicoPep(raw *RawPeptide, uniqueInDatabase bool, hydrophobicity, mobility float64) InSilicoPep {
	pep := InSilicoPep{
		BaseSequence:            raw.BaseSequence,
		FullSequence:            raw.FullSequence,
		PreviousResidue:         raw.PreviousResidue,
		NextResidue:             raw.NextResidue,
		UniqueInDatabase:        uniqueInDatabase,
		Hydrophobicity:          hydrophobicity,
		ElectrophoreticMobility: mobility,
		Length:                  raw.Length(),
		MonoisotopicMass:        raw.MonoisotopicMass,
		Start:                   raw.Start,
		End:                     raw.End,
	}
	if raw.Protein != nil {
		pep.ProteinAccession = raw.Protein.Accession
	}
	if raw.Protease != nil {
		pep.Protease = raw.Protease.Name
	}
	return pep
}

// Name returns the peptide name in format "FullSequence/Accession"
func (p *InSilicoPep) Name() string {
	return fmt.Sprintf("%s/%s", p.FullSequence, p.ProteinAccession)
}
