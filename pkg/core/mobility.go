package core

import (
	"math"
	"strings"
)

// Cifuentes model constants.
const (
	mobilityChargeCoefficient = 0.35
	mobilityMassExponent      = 0.411
)

// PeptideCharge is the net charge used by the mobility model: one for the
// N-terminal amine plus each K, R and H, minus the mobility-shifting modifications.
func PeptideCharge(baseSequence string, mods map[int]Modification) int {
	charge := 1 +
		strings.Count(baseSequence, "K") +
		strings.Count(baseSequence, "R") +
		strings.Count(baseSequence, "H")
	return charge - CountMobilityShiftingMods(mods)
}

// ElectrophoreticMobility estimates capillary electrophoresis mobility with the
// Cifuentes model ln(1 + 0.35*charge) / mass^0.411. Values outside the real
// domain are reported as 0.
func ElectrophoreticMobility(baseSequence string, mass float64, mods map[int]Modification) float64 {
	charge := PeptideCharge(baseSequence, mods)
	mobility := math.Log(1+mobilityChargeCoefficient*float64(charge)) / math.Pow(mass, mobilityMassExponent)
	if math.IsNaN(mobility) || math.IsInf(mobility, 0) {
		return 0
	}
	return mobility
}

// CifuentesMobility returns the electrophoretic mobility of a digested peptide.
func CifuentesMobility(p *RawPeptide) float64 {
	return ElectrophoreticMobility(p.BaseSequence, p.MonoisotopicMass, p.Modifications)
}
