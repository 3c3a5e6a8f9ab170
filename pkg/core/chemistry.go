// Package core provides chemistry calculations for peptide mass calculations
package core

// Atomic masses (monoisotopic)
const (
	MassH  = 1.0078250321
	MassC  = 12.0000000000
	MassN  = 14.0030740052
	MassO  = 15.9949146221
	MassS  = 31.9720706900
	MassSe = 79.9165218
)

// AminoAcidComposition stores elemental composition
type AminoAcidComposition struct {
	C, H, N, O, S, Se int
}

// AminoAcidMasses maps amino acid one-letter codes to residue composition
var AminoAcidMasses = map[byte]AminoAcidComposition{
	'A': {C: 3, H: 5, N: 1, O: 1},
	'R': {C: 6, H: 12, N: 4, O: 1},
	'N': {C: 4, H: 6, N: 2, O: 2},
	'D': {C: 4, H: 5, N: 1, O: 3},
	'C': {C: 3, H: 5, N: 1, O: 1, S: 1},
	'E': {C: 5, H: 7, N: 1, O: 3},
	'Q': {C: 5, H: 8, N: 2, O: 2},
	'G': {C: 2, H: 3, N: 1, O: 1},
	'H': {C: 6, H: 7, N: 3, O: 1},
	'I': {C: 6, H: 11, N: 1, O: 1},
	'L': {C: 6, H: 11, N: 1, O: 1},
	'K': {C: 6, H: 12, N: 2, O: 1},
	'M': {C: 5, H: 9, N: 1, O: 1, S: 1},
	'F': {C: 9, H: 9, N: 1, O: 1},
	'P': {C: 5, H: 7, N: 1, O: 1},
	'S': {C: 3, H: 5, N: 1, O: 2},
	'T': {C: 4, H: 7, N: 1, O: 2},
	'W': {C: 11, H: 10, N: 2, O: 1},
	'Y': {C: 9, H: 9, N: 1, O: 2},
	'V': {C: 5, H: 9, N: 1, O: 1},
	'U': {C: 3, H: 5, N: 1, O: 1, Se: 1}, // selenocysteine
	'O': {C: 12, H: 19, N: 3, O: 2},      // pyrrolysine
}

// CalculateNeutralMass computes the neutral monoisotopic mass of a peptide
// including the mass shifts of its modifications. Residues without a defined
// composition (X, B, Z, ...) contribute nothing.
func CalculateNeutralMass(sequence string, modifications map[int]Modification) float64 {
	comp := AminoAcidComposition{H: 2, O: 1} // Add water

	for i := 0; i < len(sequence); i++ {
		if aaComp, ok := AminoAcidMasses[sequence[i]]; ok {
			comp.C += aaComp.C
			comp.H += aaComp.H
			comp.N += aaComp.N
			comp.O += aaComp.O
			comp.S += aaComp.S
			comp.Se += aaComp.Se
		}
	}

	mass := float64(comp.C)*MassC +
		float64(comp.H)*MassH +
		float64(comp.N)*MassN +
		float64(comp.O)*MassO +
		float64(comp.S)*MassS +
		float64(comp.Se)*MassSe

	// Add modification masses
	for _, mod := range modifications {
		mass += mod.Mass
	}

	return mass
}
