// Package fasta provides a streaming reader for FASTA protein databases
package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
)

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences

// Reader provides streaming access to FASTA files
type Reader struct {
	scanner        *bufio.Scanner
	databaseFile   string
	lineNum        int
	pendingHeader  string
	haveHeader     bool
	currentProtein *core.Protein
	err            error
}

// NewReader creates a new FASTA reader. databaseFile is recorded on every protein.
func NewReader(r io.Reader, databaseFile string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	return &Reader{
		scanner:      sc,
		databaseFile: databaseFile,
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

// readProtein reads a single entry; the header of the following entry is kept
// for the next call.
func (r *Reader) readProtein() (*core.Protein, error) {
	var seq bytes.Buffer

	for r.scanner.Scan() {
		r.lineNum++
		line := bytes.TrimSpace(r.scanner.Bytes())

		// Skip empty lines and comments
		if len(line) == 0 || line[0] == ';' {
			continue
		}

		if line[0] == '>' {
			header := string(line[1:])
			if r.haveHeader {
				protein := r.newProtein(r.pendingHeader, seq.String())
				r.pendingHeader = header
				return protein, nil
			}
			r.pendingHeader = header
			r.haveHeader = true
			continue
		}

		if !r.haveHeader {
			// sequence before any header: not FASTA, skip it
			continue
		}
		seq.Write(bytes.Map(residue, line))
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if r.haveHeader {
		r.haveHeader = false
		return r.newProtein(r.pendingHeader, seq.String()), nil
	}

	return nil, io.EOF
}

// residue upper-cases a sequence character and drops whitespace.
func residue(c rune) rune {
	if unicode.IsSpace(c) {
		return -1
	}
	return unicode.ToUpper(c)
}

func (r *Reader) newProtein(header, sequence string) *core.Protein {
	h := ParseHeader(header)
	return &core.Protein{
		Accession:    h.Accession,
		Name:         h.Name,
		Organism:     h.Organism,
		Sequence:     strings.TrimSuffix(sequence, "*"),
		DatabaseFile: r.databaseFile,
	}
}

// Header holds the fields extracted from a FASTA header line.
type Header struct {
	Accession string
	Name      string
	Organism  string
}

// ParseHeader parses UniProt style headers
// ("sp|P69905|HBA_HUMAN Hemoglobin subunit alpha OS=Homo sapiens OX=9606 GN=HBA1")
// and falls back to the first token as the accession.
func ParseHeader(header string) Header {
	header = strings.TrimSpace(header)
	id, desc := header, ""
	if i := strings.IndexFunc(header, unicode.IsSpace); i >= 0 {
		id, desc = header[:i], strings.TrimSpace(header[i+1:])
	}

	h := Header{Accession: id}
	if parts := strings.Split(id, "|"); len(parts) >= 3 && (parts[0] == "sp" || parts[0] == "tr") {
		h.Accession = parts[1]
	}

	if i := strings.Index(desc, " OS="); i >= 0 {
		h.Name = strings.TrimSpace(desc[:i])
		organism := desc[i+len(" OS="):]
		if j := strings.Index(organism, " OX="); j >= 0 {
			organism = organism[:j]
		} else if j := strings.Index(organism, " GN="); j >= 0 {
			organism = organism[:j]
		}
		h.Organism = strings.TrimSpace(organism)
	} else {
		h.Name = strings.TrimSpace(desc)
	}

	return h
}
