package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/ProteaseGuru/pkg/report"
)

const testFasta = `>sp|P1|ONE_HUMAN One OS=Homo sapiens
MSAMPLEDSEQKUNIQUESEQR
>sp|P2|TWO_HUMAN Two OS=Homo sapiens
GGKSAMPLEDSEQKAAAAAAAR
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func TestDigestCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "human.fasta")
	require.NoError(t, os.WriteFile(db, []byte(testFasta), 0o644))
	outDir := filepath.Join(dir, "results")
	sqlitePath := filepath.Join(dir, "peptides.db")

	_, err := execute(t, "digest", "--db", db, "--out", outDir, "--protease", "trypsin",
		"--missed-cleavages", "0", "--sqlite", sqlitePath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outDir, report.FileName))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, strings.Join(report.Header, "\t"), lines[0])
	// MSAMPLEDSEQK, SAMPLEDSEQK, UNIQUESEQR, SAMPLEDSEQK, AAAAAAAR
	assert.Len(t, lines, 6)
	assert.Contains(t, lines[2], "human.fasta\ttrypsin\tSAMPLEDSEQK\tSAMPLEDSEQK\tM\tU\t11\t")
	assert.Contains(t, lines[2], "\tP1\tFalse\tFalse\t")

	conn, err := sql.Open("sqlite3", sqlitePath)
	require.NoError(t, err)
	defer conn.Close()
	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM PeptideTable").Scan(&count))
	assert.Equal(t, 5, count)
}

func TestDigestCommandUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "human.fasta")
	require.NoError(t, os.WriteFile(db, []byte(testFasta), 0o644))
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	_, err := execute(t, "digest", "--db", db, "--out", filepath.Join(blocker, "results"), "--sqlite", "")
	assert.ErrorContains(t, err, "failed to write report")
}

func TestProteasesCommand(t *testing.T) {
	out, err := execute(t, "proteases")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "K|[P],R|[P]")
	assert.Contains(t, out, "(no cleavage)")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "proteaseguru "+version+"\n", out)
}
