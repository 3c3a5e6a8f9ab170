// Package core provides modification parsing and management
package core

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Modification is a modified residue on a protein or peptide.
type Modification struct {
	ID       string  // original identifier, e.g. "Phosphoserine"
	Mass     float64 // monoisotopic mass shift
	Position int     // one-based residue position
}

// ModDatabase stores modification definitions
type ModDatabase struct {
	mods map[string]float64 // id -> mass shift
}

// NewModDatabase creates an empty modification database
func NewModDatabase() *ModDatabase {
	return &ModDatabase{
		mods: make(map[string]float64),
	}
}

// LoadFromCSV loads modifications from a CSV file (format: mod,massshift[,aa])
func (db *ModDatabase) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	scanner.Scan()

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		id := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		db.mods[id] = mass
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// GetMass returns the mass shift for a modification identifier
func (db *ModDatabase) GetMass(id string) (float64, bool) {
	mass, ok := db.mods[id]
	return mass, ok
}

// Add adds or updates a modification
func (db *ModDatabase) Add(id string, mass float64) {
	db.mods[id] = mass
}

// Len returns the number of known modifications.
func (db *ModDatabase) Len() int {
	return len(db.mods)
}

// mobilityShiftingMods lowers the net charge used by the Cifuentes model.
var mobilityShiftingMods = map[string]struct{}{
	"Acetylation":        {},
	"Ammonia loss":       {},
	"Carbamyl":           {},
	"Deamidation":        {},
	"Formylation":        {},
	"N2-acetylarginine":  {},
	"N6-acetyllysine":    {},
	"N-acetylalanine":    {},
	"N-acetylaspartate":  {},
	"N-acetylcysteine":   {},
	"N-acetylglutamate":  {},
	"N-acetylglycine":    {},
	"N-acetylisoleucine": {},
	"N-acetylmethionine": {},
	"N-acetylproline":    {},
	"N-acetylserine":     {},
	"N-acetylthreonine":  {},
	"N-acetyltyrosine":   {},
	"N-acetylvaline":     {},
	"Phosphorylation":    {},
	"Phosphoserine":      {},
	"Phosphothreonine":   {},
	"Phosphotyrosine":    {},
	"Sulfonation":        {},
}

// IsMobilityShifting reports whether a modification identifier reduces peptide charge.
func IsMobilityShifting(id string) bool {
	_, ok := mobilityShiftingMods[id]
	return ok
}

// CountMobilityShiftingMods counts the distinct shifting identifiers among mods.
func CountMobilityShiftingMods(mods map[int]Modification) int {
	seen := make(map[string]struct{})
	for _, m := range mods {
		if IsMobilityShifting(m.ID) {
			seen[m.ID] = struct{}{}
		}
	}
	return len(seen)
}

// DefaultModDatabase returns a ModDatabase pre-loaded with common modifications,
// keyed by both unimod names and the UniProt modified-residue descriptions.
func DefaultModDatabase() *ModDatabase {
	db := NewModDatabase()

	// unimod
	db.Add("Acetyl", 42.010565)
	db.Add("Amidated", -0.984016)
	db.Add("Carbamidomethyl", 57.021464)
	db.Add("Carbamyl", 43.005814)
	db.Add("Deamidated", 0.984016)
	db.Add("Phospho", 79.966331)
	db.Add("Methyl", 14.01565)
	db.Add("Oxidation", 15.994915)
	db.Add("Dimethyl", 28.0313)
	db.Add("Trimethyl", 42.04695)
	db.Add("Sulfo", 79.956815)
	db.Add("Formyl", 27.994915)
	db.Add("Hex", 162.052824)
	db.Add("HexNAc", 203.079373)
	db.Add("Glu->pyro-Glu", -18.010565)
	db.Add("Gln->pyro-Glu", -17.026549)

	// UniProt / PSI-MOD style names
	db.Add("Acetylation", 42.010565)
	db.Add("Ammonia loss", -17.026549)
	db.Add("Deamidation", 0.984016)
	db.Add("Formylation", 27.994915)
	db.Add("Phosphorylation", 79.966331)
	db.Add("Phosphoserine", 79.966331)
	db.Add("Phosphothreonine", 79.966331)
	db.Add("Phosphotyrosine", 79.966331)
	db.Add("Phosphohistidine", 79.966331)
	db.Add("Sulfonation", 79.956815)
	db.Add("Sulfotyrosine", 79.956815)
	db.Add("N2-acetylarginine", 42.010565)
	db.Add("N6-acetyllysine", 42.010565)
	db.Add("N-acetylalanine", 42.010565)
	db.Add("N-acetylaspartate", 42.010565)
	db.Add("N-acetylcysteine", 42.010565)
	db.Add("N-acetylglutamate", 42.010565)
	db.Add("N-acetylglycine", 42.010565)
	db.Add("N-acetylisoleucine", 42.010565)
	db.Add("N-acetylmethionine", 42.010565)
	db.Add("N-acetylproline", 42.010565)
	db.Add("N-acetylserine", 42.010565)
	db.Add("N-acetylthreonine", 42.010565)
	db.Add("N-acetyltyrosine", 42.010565)
	db.Add("N-acetylvaline", 42.010565)
	db.Add("N6-methyllysine", 14.01565)
	db.Add("N6,N6-dimethyllysine", 28.0313)
	db.Add("N6,N6,N6-trimethyllysine", 42.04695)
	db.Add("Omega-N-methylarginine", 14.01565)
	db.Add("Asymmetric dimethylarginine", 28.0313)
	db.Add("Symmetric dimethylarginine", 28.0313)
	db.Add("Methionine sulfoxide", 15.994915)
	db.Add("Pyrrolidone carboxylic acid", -17.026549)
	db.Add("Cysteine sulfenic acid (-SOH)", 15.994915)

	return db
}
