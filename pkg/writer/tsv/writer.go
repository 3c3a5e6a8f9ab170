// Package tsv writes peptide reports as tab-separated text.
package tsv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
)

// Write writes the header and every report row to w.
func Write(w io.Writer, r report.Report) error {
	bw := bufio.NewWriter(w)

	if err := writeLine(bw, report.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := r.Rows(func(row []string) error {
		return writeLine(bw, row)
	}); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

func writeLine(w *bufio.Writer, fields []string) error {
	if _, err := w.WriteString(strings.Join(fields, "\t")); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

// reportMode replaces the owner-only mode of os.CreateTemp.
const reportMode = 0o644

// WriteFile writes the report to report.FileName inside dir and returns the
// file path. The report appears complete or not at all: rows go to a temporary
// file in dir which is renamed into place only after a successful sync.
func WriteFile(dir string, r report.Report) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".proteaseguru-*.tsv")
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close report file: %w", err)
	}

	path := filepath.Join(dir, report.FileName)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}

func writeAndSync(f *os.File, r report.Report) error {
	if err := Write(f, r); err != nil {
		return err
	}
	if err := f.Chmod(reportMode); err != nil {
		return fmt.Errorf("failed to set report file mode: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync report file: %w", err)
	}
	return nil
}
