// Package uniqueness decides whether a peptide sequence maps to a single protein.
//
// Candidates are grouped by a key (base or full sequence); a group is unique when
// all of its members come from the same protein. Grouping always runs over the
// complete candidate pool of its scope, so a sequence gets the same tag no matter
// which protease produced it.
package uniqueness

import (
	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

// KeyFunc selects the sequence identity used for grouping.
type KeyFunc func(p *core.RawPeptide) string

// BaseSequence groups peptides regardless of modifications.
func BaseSequence(p *core.RawPeptide) string { return p.BaseSequence }

// FullSequence groups peptides by sequence and modification placement.
func FullSequence(p *core.RawPeptide) string { return p.FullSequence }

// KeyFor returns the grouping key for the modification policy.
func KeyFor(treatModifiedAsDifferent bool) KeyFunc {
	if treatModifiedAsDifferent {
		return FullSequence
	}
	return BaseSequence
}

// Group is the set of candidates sharing one key.
type Group struct {
	Key      string
	Members  []int // indices into the classified slice, in input order
	Proteins int   // distinct owning proteins
}

// Unique reports whether every member comes from the same protein.
func (g Group) Unique() bool {
	return g.Proteins == 1
}

// Groups partitions candidates by key. Groups appear in order of first
// occurrence and keep their members in input order.
func Groups(candidates []*core.RawPeptide, key KeyFunc) []Group {
	index := make(map[string]int)
	var groups []Group
	owners := make([]map[*core.Protein]struct{}, 0)

	for i, c := range candidates {
		k := key(c)
		gi, ok := index[k]
		if !ok {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: k})
			owners = append(owners, make(map[*core.Protein]struct{}, 1))
		}
		groups[gi].Members = append(groups[gi].Members, i)
		owners[gi][c.Protein] = struct{}{}
	}

	for i := range groups {
		groups[i].Proteins = len(owners[i])
	}
	return groups
}

// Classify tags each candidate unique (true) or shared (false). The result is
// index-aligned with candidates and does not depend on their order.
func Classify(candidates []*core.RawPeptide, key KeyFunc) []bool {
	unique := make([]bool, len(candidates))
	for _, g := range Groups(candidates, key) {
		u := g.Unique()
		for _, i := range g.Members {
			unique[i] = u
		}
	}
	return unique
}

// Pool collects pointers to every candidate of the given peptide lists, in order.
func Pool(lists ...[]core.RawPeptide) []*core.RawPeptide {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	pool := make([]*core.RawPeptide, 0, n)
	for _, l := range lists {
		for i := range l {
			pool = append(pool, &l[i])
		}
	}
	return pool
}

// Tags maps candidates to their uniqueness for lookups by pointer.
type Tags map[*core.RawPeptide]bool

// Tag classifies a pool and returns the tags keyed by candidate.
func Tag(pool []*core.RawPeptide, key KeyFunc) Tags {
	unique := Classify(pool, key)
	tags := make(Tags, len(pool))
	for i, c := range pool {
		tags[c] = unique[i]
	}
	return tags
}
