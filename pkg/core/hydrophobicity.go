package core

// HydrophobicityScorer scores a peptide's hydrophobicity. The pipeline treats
// the score as opaque.
type HydrophobicityScorer interface {
	Score(p *RawPeptide) float64
}

// ScorerFunc adapts a function to HydrophobicityScorer.
type ScorerFunc func(p *RawPeptide) float64

// Score calls f(p).
func (f ScorerFunc) Score(p *RawPeptide) float64 {
	return f(p)
}

// Retention coefficients for 300A C18 columns (Krokhin et al. 2004)
var retentionCoefficients = map[byte]float64{
	'W': 11.0,
	'F': 10.5,
	'L': 9.6,
	'I': 8.4,
	'M': 5.8,
	'V': 5.0,
	'Y': 4.0,
	'C': 2.6,
	'P': 0.2,
	'A': 0.8,
	'E': 0.0,
	'T': -0.1,
	'D': -0.5,
	'Q': -0.9,
	'S': -0.8,
	'G': -0.9,
	'R': -1.3,
	'N': -1.2,
	'H': -1.3,
	'K': -1.9,
}

// N-terminal residues are only partially retained
var nTerminalWeights = [3]float64{0.42, 0.22, 0.05}

// SSRCalc is a sequence-specific retention calculator used as the default
// hydrophobicity score.
type SSRCalc struct{}

// Score returns the hydrophobicity index of the peptide's base sequence.
func (SSRCalc) Score(p *RawPeptide) float64 {
	return HydrophobicityIndex(p.BaseSequence)
}

// HydrophobicityIndex computes the retention-coefficient hydrophobicity of a sequence.
func HydrophobicityIndex(seq string) float64 {
	n := len(seq)
	if n == 0 {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		sum += retentionCoefficients[seq[i]]
	}
	for i := 0; i < len(nTerminalWeights) && i < n; i++ {
		sum += nTerminalWeights[i] * retentionCoefficients[seq[i]]
	}

	// length correction
	kl := 1.0
	switch {
	case n < 10:
		kl = 1 - 0.027*float64(10-n)
	case n > 20:
		kl = 1 - 0.014*float64(n-20)
	}
	h := kl * sum

	if h >= 38 {
		h -= 0.3 * (h - 38)
	}
	return h
}
