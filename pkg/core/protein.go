// Package core provides the protein, protease and peptide models shared by the
// digestion pipeline, along with the peptide chemistry used to annotate them.
package core

import (
	"fmt"
	"strings"
)

// Protein is a single database entry. Proteins are loaded once per database and
// referenced, never copied, by the peptides digested from them.
type Protein struct {
	Accession    string
	Name         string
	Organism     string
	Sequence     string
	DatabaseFile string // file name of the database the entry was read from

	// Annotated modified residues keyed by one-based residue position
	Modifications map[int][]Modification
}

// Length returns the number of residues in the protein.
func (p *Protein) Length() int {
	return len(p.Sequence)
}

func (p *Protein) String() string {
	return p.Accession
}

// CleavageSide says on which side of the matched residue a protease cuts.
type CleavageSide int

const (
	CTerminal CleavageSide = iota // cut after the residue
	NTerminal                     // cut before the residue
)

// CleavageRule is one cleavage motif of a protease.
type CleavageRule struct {
	Residues  string       // residues recognised by the protease
	Side      CleavageSide // side of the residue that is cut
	Prevented string       // neighbouring residues that block the cut
}

// ParseCleavageMotif parses motifs like "K|[P]" (cut after K unless followed by P),
// "KR|" or "[P]|D" (cut before D unless preceded by P).
func ParseCleavageMotif(motif string) (CleavageRule, error) {
	motif = strings.TrimSpace(motif)
	cut := strings.Index(motif, "|")
	if cut < 0 || strings.Count(motif, "|") != 1 {
		return CleavageRule{}, fmt.Errorf("invalid cleavage motif '%s', expected exactly one '|'", motif)
	}

	before, after := motif[:cut], motif[cut+1:]
	rule := CleavageRule{}

	splitPrevented := func(s string) (residues, prevented string, err error) {
		open := strings.Index(s, "[")
		if open < 0 {
			return s, "", nil
		}
		closing := strings.Index(s, "]")
		if closing < open {
			return "", "", fmt.Errorf("unbalanced brackets in motif '%s'", motif)
		}
		return s[:open] + s[closing+1:], s[open+1 : closing], nil
	}

	b, bPrevented, err := splitPrevented(before)
	if err != nil {
		return CleavageRule{}, err
	}
	a, aPrevented, err := splitPrevented(after)
	if err != nil {
		return CleavageRule{}, err
	}

	switch {
	case b != "" && a == "":
		rule.Side = CTerminal
		rule.Residues = b
		rule.Prevented = aPrevented
	case a != "" && b == "":
		rule.Side = NTerminal
		rule.Residues = a
		rule.Prevented = bPrevented
	default:
		return CleavageRule{}, fmt.Errorf("invalid cleavage motif '%s', residues must be on one side of '|'", motif)
	}

	rule.Residues = strings.ToUpper(rule.Residues)
	rule.Prevented = strings.ToUpper(rule.Prevented)
	for _, r := range rule.Residues + rule.Prevented {
		if r < 'A' || r > 'Z' {
			return CleavageRule{}, fmt.Errorf("invalid residue '%c' in motif '%s'", r, motif)
		}
	}

	return rule, nil
}

// String returns the rule in motif notation.
func (r CleavageRule) String() string {
	prevented := ""
	if r.Prevented != "" {
		prevented = "[" + r.Prevented + "]"
	}
	if r.Side == CTerminal {
		return r.Residues + "|" + prevented
	}
	return prevented + "|" + r.Residues
}

// Protease is an enzyme specificity. Proteases are immutable for the run.
type Protease struct {
	Name  string `validate:"required"`
	Rules []CleavageRule
}

// NewProtease builds a protease from its cleavage motifs.
func NewProtease(name string, motifs ...string) (*Protease, error) {
	p := &Protease{Name: name}
	for _, m := range motifs {
		rule, err := ParseCleavageMotif(m)
		if err != nil {
			return nil, fmt.Errorf("protease %s: %w", name, err)
		}
		p.Rules = append(p.Rules, rule)
	}
	return p, nil
}

// CleavesAt reports whether the protease cuts between seq[i-1] and seq[i].
func (p *Protease) CleavesAt(seq string, i int) bool {
	if i <= 0 || i >= len(seq) {
		return false
	}
	prev, next := seq[i-1], seq[i]
	for _, r := range p.Rules {
		switch r.Side {
		case CTerminal:
			if strings.IndexByte(r.Residues, prev) >= 0 && strings.IndexByte(r.Prevented, next) < 0 {
				return true
			}
		case NTerminal:
			if strings.IndexByte(r.Residues, next) >= 0 && strings.IndexByte(r.Prevented, prev) < 0 {
				return true
			}
		}
	}
	return false
}

// Specificity returns the cleavage rules in motif notation.
func (p *Protease) Specificity() string {
	motifs := make([]string, len(p.Rules))
	for i, r := range p.Rules {
		motifs[i] = r.String()
	}
	return strings.Join(motifs, ",")
}

func (p *Protease) String() string {
	return p.Name
}

// ValidationError represents an error found while validating a model.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}
