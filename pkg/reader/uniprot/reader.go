// Package uniprot provides a streaming reader for UniProt XML protein databases
package uniprot

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

// entry mirrors the parts of a UniProt <entry> the pipeline uses.
type entry struct {
	Accessions []string `xml:"accession"`
	Name       string   `xml:"name"`
	FullName   string   `xml:"protein>recommendedName>fullName"`
	Organisms  []struct {
		Type string `xml:"type,attr"`
		Name string `xml:",chardata"`
	} `xml:"organism>name"`
	Features []feature `xml:"feature"`
	Sequence string    `xml:"sequence"`
}

type feature struct {
	Type        string `xml:"type,attr"`
	Description string `xml:"description,attr"`
	Position    struct {
		Position int `xml:"position,attr"`
	} `xml:"location>position"`
}

// Reader provides streaming access to UniProt XML files
type Reader struct {
	decoder        *xml.Decoder
	modDB          *core.ModDatabase
	databaseFile   string
	entries        int
	currentProtein *core.Protein
	unknownMods    map[string]int
	err            error
}

// NewReader creates a new UniProt XML reader
func NewReader(r io.Reader, databaseFile string, modDB *core.ModDatabase) *Reader {
	if modDB == nil {
		modDB = core.DefaultModDatabase()
	}

	return &Reader{
		decoder:      xml.NewDecoder(r),
		modDB:        modDB,
		databaseFile: databaseFile,
		unknownMods:  make(map[string]int),
	}
}

// Next advances to the next protein. Returns false when no more proteins or error.
func (r *Reader) Next() bool {
	r.currentProtein = nil

	protein, err := r.readProtein()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.currentProtein = protein
	return true
}

// Protein returns the current protein
func (r *Reader) Protein() *core.Protein {
	return r.currentProtein
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// UnknownModifications returns modified-residue descriptions that had no known
// mass and were therefore dropped, with their occurrence counts.
func (r *Reader) UnknownModifications() map[string]int {
	return r.unknownMods
}

func (r *Reader) readProtein() (*core.Protein, error) {
	for {
		tok, err := r.decoder.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("entry %d: %w", r.entries+1, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "entry" {
			continue
		}

		var e entry
		if err := r.decoder.DecodeElement(&e, &start); err != nil {
			return nil, fmt.Errorf("entry %d: %w", r.entries+1, err)
		}
		r.entries++

		return r.newProtein(&e)
	}
}

func (r *Reader) newProtein(e *entry) (*core.Protein, error) {
	if len(e.Accessions) == 0 {
		return nil, fmt.Errorf("entry %d: missing accession", r.entries)
	}

	seq := strings.Map(func(c rune) rune {
		if unicode.IsSpace(c) {
			return -1
		}
		return unicode.ToUpper(c)
	}, e.Sequence)

	p := &core.Protein{
		Accession:    e.Accessions[0],
		Name:         e.FullName,
		Sequence:     seq,
		DatabaseFile: r.databaseFile,
	}
	if p.Name == "" {
		p.Name = e.Name
	}
	for _, o := range e.Organisms {
		if o.Type == "scientific" || p.Organism == "" {
			p.Organism = strings.TrimSpace(o.Name)
		}
	}

	for _, f := range e.Features {
		if f.Type != "modified residue" {
			continue
		}
		pos := f.Position.Position
		if pos < 1 || pos > len(seq) {
			continue
		}

		// "Phosphoserine; by CK2" -> "Phosphoserine"
		id, _, _ := strings.Cut(f.Description, ";")
		id = strings.TrimSpace(id)

		mass, ok := r.modDB.GetMass(id)
		if !ok {
			r.unknownMods[id]++
			continue
		}

		if p.Modifications == nil {
			p.Modifications = make(map[int][]core.Modification)
		}
		p.Modifications[pos] = append(p.Modifications[pos], core.Modification{
			ID:       id,
			Mass:     mass,
			Position: pos,
		})
	}

	return p, nil
}
