// Package database loads protein databases (FASTA or UniProt XML, optionally gzip
// compressed) for digestion.
package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/reader"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/reader/fasta"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/reader/uniprot"
)

// ErrUnsupportedFormat is returned for database files that are neither FASTA nor XML.
var ErrUnsupportedFormat = errors.New("unsupported database format")

// NoProteinsWarning is reported for a database without any protein entries.
const NoProteinsWarning = "No protein entries were found in the database"

// Database is one protein database selected for digestion.
type Database struct {
	FilePath string
}

// FileName is the name the database is reported under.
func (d Database) FileName() string {
	return filepath.Base(d.FilePath)
}

// Loader loads the proteins of a database. Problems that leave the run usable,
// such as an empty database, are returned as warnings next to the proteins.
type Loader interface {
	Load(db Database) (proteins []*core.Protein, warnings []string, err error)
}

// FileLoader loads FASTA and UniProt XML files from disk.
type FileLoader struct {
	ModDB *core.ModDatabase
}

// NewFileLoader returns a loader using the given modification database
// (nil selects core.DefaultModDatabase).
func NewFileLoader(modDB *core.ModDatabase) *FileLoader {
	if modDB == nil {
		modDB = core.DefaultModDatabase()
	}
	return &FileLoader{ModDB: modDB}
}

type proteinReader interface {
	Next() bool
	Protein() *core.Protein
	Err() error
}

// Load reads every protein of the database. A database without entries yields
// no proteins and a warning, not an error.
func (l *FileLoader) Load(db Database) ([]*core.Protein, []string, error) {
	var isXML bool
	switch reader.Extension(db.FilePath) {
	case ".fasta", ".fa", ".faa":
	case ".xml":
		isXML = true
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, db.FileName())
	}

	in, err := reader.Open(db.FilePath)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	var (
		pr       proteinReader
		xmlRdr   *uniprot.Reader
		warnings []string
	)
	if isXML {
		xmlRdr = uniprot.NewReader(in, db.FileName(), l.ModDB)
		pr = xmlRdr
	} else {
		pr = fasta.NewReader(in, db.FileName())
	}

	var proteins []*core.Protein
	skipped := 0
	for pr.Next() {
		p := pr.Protein()
		if p.Sequence == "" {
			skipped++
			continue
		}
		proteins = append(proteins, p)
	}

	if err := pr.Err(); err != nil {
		// a malformed file is reported like an empty one
		warnings = append(warnings, fmt.Sprintf("error reading database: %v", err))
		proteins = nil
	}

	if skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("skipped %d entries without sequence", skipped))
	}

	if xmlRdr != nil {
		unknown := xmlRdr.UnknownModifications()
		ids := make([]string, 0, len(unknown))
		for id := range unknown {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			warnings = append(warnings, fmt.Sprintf("ignored %d occurrences of modification '%s' with unknown mass", unknown[id], id))
		}
	}

	if len(proteins) == 0 {
		warnings = append(warnings, NoProteinsWarning)
		return []*core.Protein{}, warnings, nil
	}

	return proteins, warnings, nil
}
