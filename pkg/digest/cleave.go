// Package digest turns proteins into peptide candidates for each protease.
package digest

import (
	"sort"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

// maxModifiedForms caps the modified forms emitted per peptide.
const maxModifiedForms = 1024

// Bounds are the digestion limits handed to a Digestor.
type Bounds struct {
	MaxMissedCleavages  int
	MinLength           int
	MaxLength           int
	InitiatorMethionine core.InitiatorMethionineBehavior
	MaxModsPerPeptide   int
}

// BoundsFrom extracts the digestion bounds of a configuration.
func BoundsFrom(cfg core.DigestionConfig) Bounds {
	return Bounds{
		MaxMissedCleavages:  cfg.MaxMissedCleavages,
		MinLength:           cfg.MinPeptideLength,
		MaxLength:           cfg.MaxPeptideLength,
		InitiatorMethionine: cfg.InitiatorMethionine,
		MaxModsPerPeptide:   cfg.MaxModsPerPeptide,
	}
}

// Digestor cleaves one protein with one protease.
type Digestor interface {
	Digest(protein *core.Protein, protease *core.Protease, b Bounds) []core.RawPeptide
}

// Cleaver is the default Digestor. It emits every fully specific peptide and,
// for proteins with annotated modified residues, their modified forms.
type Cleaver struct{}

// Digest implements Digestor.
func (Cleaver) Digest(protein *core.Protein, protease *core.Protease, b Bounds) []core.RawPeptide {
	seq := protein.Sequence
	if seq == "" {
		return nil
	}

	sites := CleavageSites(seq, protease)

	var peptides []core.RawPeptide
	emit := func(start, end int) {
		n := end - start
		if n < b.MinLength || n > b.MaxLength {
			return
		}
		peptides = appendForms(peptides, protein, protease, start, end, b.MaxModsPerPeptide)
	}

	hasInitiatorMet := seq[0] == 'M'
	// a protease cutting after the methionine already yields the cleaved forms
	metCleaved := len(sites) > 2 && sites[1] == 1
	for i := 0; i < len(sites)-1; i++ {
		for missed := 0; missed <= b.MaxMissedCleavages && i+missed+1 < len(sites); missed++ {
			start, end := sites[i], sites[i+missed+1]
			if start != 0 || !hasInitiatorMet {
				emit(start, end)
				continue
			}

			if b.InitiatorMethionine != core.Cleave {
				emit(0, end)
			}
			if b.InitiatorMethionine != core.Retain && end > 1 && !metCleaved {
				emit(1, end)
			}
		}
	}

	return peptides
}

// CleavageSites returns the cut positions of seq including both termini.
// A cut at i separates seq[i-1] and seq[i].
func CleavageSites(seq string, protease *core.Protease) []int {
	sites := []int{0}
	for i := 1; i < len(seq); i++ {
		if protease.CleavesAt(seq, i) {
			sites = append(sites, i)
		}
	}
	return append(sites, len(seq))
}

// appendForms appends the unmodified peptide seq[start:end] followed by its
// modified forms.
func appendForms(dst []core.RawPeptide, protein *core.Protein, protease *core.Protease, start, end, maxMods int) []core.RawPeptide {
	seq := protein.Sequence
	base := seq[start:end]

	prev, next := core.TerminusResidue, core.TerminusResidue
	if start > 0 {
		prev = seq[start-1]
	}
	if end < len(seq) {
		next = seq[end]
	}

	newPeptide := func(mods map[int]core.Modification) core.RawPeptide {
		return core.RawPeptide{
			BaseSequence:     base,
			FullSequence:     core.AnnotateSequence(base, mods),
			PreviousResidue:  prev,
			NextResidue:      next,
			Start:            start + 1,
			End:              end,
			MonoisotopicMass: core.CalculateNeutralMass(base, mods),
			Modifications:    mods,
			Protein:          protein,
			Protease:         protease,
		}
	}

	dst = append(dst, newPeptide(nil))
	if maxMods <= 0 || len(protein.Modifications) == 0 {
		return dst
	}

	// annotated sites inside the peptide, as peptide-relative positions
	var sites []int
	for pos := range protein.Modifications {
		if pos > start && pos <= end {
			sites = append(sites, pos)
		}
	}
	if len(sites) == 0 {
		return dst
	}
	sort.Ints(sites)

	forms := 0
	chosen := make(map[int]core.Modification)
	var walk func(from, depth int)
	walk = func(from, depth int) {
		for i := from; i < len(sites) && forms < maxModifiedForms; i++ {
			pos := sites[i]
			for _, mod := range protein.Modifications[pos] {
				rel := pos - start
				mod.Position = rel
				chosen[rel] = mod

				mods := make(map[int]core.Modification, len(chosen))
				for k, v := range chosen {
					mods[k] = v
				}
				dst = append(dst, newPeptide(mods))
				forms++

				if depth+1 < maxMods {
					walk(i+1, depth+1)
				}
				delete(chosen, rel)
				if forms >= maxModifiedForms {
					return
				}
			}
		}
	}
	walk(0, 0)

	return dst
}
