// Package sqlite exports peptide reports to SQLite database files
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/core"
	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	schemaVersion    = 1
)

// RunInfo describes the run stored in HeaderTable.
type RunInfo struct {
	RunID     string
	Created   time.Time
	Databases []string
	Config    core.DigestionConfig
}

// Writer handles writing peptides to SQLite database files
type Writer struct {
	db          *sql.DB
	outputPath  string
	peptideStmt *sql.Stmt
	peptideID   int
	closed      bool
}

// NewWriter creates a new SQLite writer
func NewWriter(outputPath string) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:         db,
		outputPath: outputPath,
		peptideID:  1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS PeptideTable (
		PeptideId INTEGER PRIMARY KEY,
		Database TEXT,
		Protease TEXT,
		BaseSequence TEXT,
		FullSequence TEXT,
		PreviousAminoAcid TEXT,
		NextAminoAcid TEXT,
		Length INTEGER,
		MolecularWeight DOUBLE,
		Protein TEXT,
		StartResidue INTEGER,
		EndResidue INTEGER,
		UniqueInDatabase BOOL,
		UniqueInAnalysis BOOL,
		Hydrophobicity DOUBLE,
		ElectrophoreticMobility DOUBLE
	);

	CREATE INDEX IF NOT EXISTS PeptideBaseSequence ON PeptideTable (BaseSequence);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		RunId TEXT,
		CreationDate TEXT,
		Databases TEXT,
		Proteases TEXT,
		MinPeptideLength INTEGER,
		MaxPeptideLength INTEGER,
		MaxMissedCleavages INTEGER,
		TreatModifiedPeptidesAsDifferent BOOL,
		InitiatorMethionine TEXT,
		PeptideCount INTEGER
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements prepares SQL statements for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.peptideStmt, err = w.db.Prepare(`
		INSERT INTO PeptideTable (
			PeptideId, Database, Protease, BaseSequence, FullSequence,
			PreviousAminoAcid, NextAminoAcid, Length, MolecularWeight, Protein,
			StartResidue, EndResidue, UniqueInDatabase, UniqueInAnalysis,
			Hydrophobicity, ElectrophoreticMobility
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare peptide statement: %w", err)
	}

	return nil
}

// WritePeptide writes a single peptide to the database
func (w *Writer) WritePeptide(p *core.InSilicoPep) error {
	// NULL when the analysis-wide pass did not run
	var analysis interface{}
	if p.UniqueInAnalysis != nil {
		analysis = *p.UniqueInAnalysis
	}

	_, err := w.peptideStmt.Exec(
		w.peptideID,
		p.Database,
		p.Protease,
		p.BaseSequence,
		p.FullSequence,
		string(p.PreviousResidue),
		string(p.NextResidue),
		p.Length,
		p.MonoisotopicMass,
		p.ProteinAccession,
		p.Start,
		p.End,
		p.UniqueInDatabase,
		analysis,
		p.Hydrophobicity,
		p.ElectrophoreticMobility,
	)
	if err != nil {
		return fmt.Errorf("failed to insert peptide %s: %w", p.Name(), err)
	}

	w.peptideID++
	return nil
}

// WriteReport writes every peptide of the report in row order.
func (w *Writer) WriteReport(r report.Report) error {
	return r.Walk(w.WritePeptide)
}

// Count returns the number of peptides written so far.
func (w *Writer) Count() int {
	return w.peptideID - 1
}

// Finalize writes the header table and closes the database
func (w *Writer) Finalize(info RunInfo) error {
	if w.closed {
		return nil
	}

	created := info.Created
	if created.IsZero() {
		created = time.Now()
	}
	cfg := info.Config

	_, err := w.db.Exec(`
		INSERT INTO HeaderTable (
			version, RunId, CreationDate, Databases, Proteases, MinPeptideLength,
			MaxPeptideLength, MaxMissedCleavages, TreatModifiedPeptidesAsDifferent,
			InitiatorMethionine, PeptideCount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, schemaVersion, info.RunID, created.Format(headerDateFormat),
		strings.Join(info.Databases, ";"), strings.Join(cfg.ProteaseNames(), ";"),
		cfg.MinPeptideLength, cfg.MaxPeptideLength, cfg.MaxMissedCleavages,
		cfg.TreatModifiedPeptidesAsDifferent, cfg.InitiatorMethionine.String(), w.Count())
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	return w.Close()
}

// Close releases the prepared statement and closes the database without
// writing a header.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.peptideStmt != nil {
		w.peptideStmt.Close()
	}

	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
