// Package reader opens protein database files for the format readers.
package reader

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open opens a database file, transparently decompressing gzip input.
// Gzip is detected by magic number (1F 8B) or by a name ending in "gz".
func Open(path string) (io.ReadCloser, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("failed to rewind database: %w", err)
	}

	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || IsCompressed(path) {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// IsCompressed reports whether the file name marks gzip content (.gz, .bgz, .tgz).
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), "gz")
}

// Extension returns the lower-cased format extension of a database path,
// looking through a compression suffix ("human.fasta.gz" -> ".fasta").
func Extension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if IsCompressed(path) {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}
	return ext
}
