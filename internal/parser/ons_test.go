package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twoyes/names-cli/internal/model"
)

func writeONSFiles(t *testing.T, boys, girls string) string {
	t.Helper()
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ons-boys-2022.csv"), []byte(boys), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ons-girls-2022.csv"), []byte(girls), 0o644))
	return dataDir
}

func TestONSParseWithHeader(t *testing.T) {
	dataDir := writeONSFiles(t,
		"Rank,Name,Count\n1,MUHAMMAD,4500\n2,NOAH,4000\n",
		"Rank,Name,Count\n1,OLIVIA,3500\n2,AMELIA,3200\n")

	result, err := (&ONS{}).Parse(dataDir)
	require.NoError(t, err)
	require.Len(t, result.Names, 4)

	byNorm := make(map[string]model.RawName)
	for _, n := range result.Names {
		byNorm[n.NameNormalized] = n
	}
	assert.Equal(t, "Muhammad", byNorm["muhammad"].Name)
	assert.Equal(t, 1, byNorm["muhammad"].Rank)
	assert.Equal(t, model.Male, byNorm["muhammad"].Gender)
	assert.Equal(t, 4500, byNorm["muhammad"].Count)

	for _, p := range result.Popularity {
		assert.Equal(t, onsPopularityYear, p.Year)
		assert.Equal(t, model.GBR, p.Country)
	}
}

func TestONSParseFallbackRowDetection(t *testing.T) {
	// Release with preamble rows and no recognizable header.
	boys := "Baby names in England and Wales\n,,\n1,OLIVER,3000\n2,GEORGE,2800\n"
	girls := "Baby names in England and Wales\n,,\n1,OLIVIA,3500\n2,AMELIA,3200\n"
	dataDir := writeONSFiles(t, boys, girls)

	result, err := (&ONS{}).Parse(dataDir)
	require.NoError(t, err)
	assert.Len(t, result.Names, 4)
}

func TestONSParseFiltersJunkRows(t *testing.T) {
	dataDir := writeONSFiles(t,
		"Rank,Name,Count\n1,OLIVER,3000\n2,:TOTAL,9999\n3,A,50\n4,,10\n",
		"Rank,Name,Count\n1,OLIVIA,3500\n")

	result, err := (&ONS{}).Parse(dataDir)
	require.NoError(t, err)

	for _, n := range result.Names {
		assert.GreaterOrEqual(t, len(n.Name), 2)
		assert.NotContains(t, n.Name, ":")
	}
	assert.Len(t, result.Names, 2)
}

func TestONSParsePrefersNewerFile(t *testing.T) {
	dataDir := writeONSFiles(t,
		"Rank,Name,Count\n1,OLD,1000\n",
		"Rank,Name,Count\n1,OLDGIRL,1000\n")
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ons-boys-2024.csv"),
		[]byte("Rank,Name,Count\n1,NEWBOY,2000\n"), 0o644))

	result, err := (&ONS{}).Parse(dataDir)
	require.NoError(t, err)

	var names []string
	for _, n := range result.Names {
		names = append(names, n.NameNormalized)
	}
	assert.Contains(t, names, "newboy")
	assert.NotContains(t, names, "old")
}

func TestONSParseMissingFiles(t *testing.T) {
	_, err := (&ONS{}).Parse(t.TempDir())
	assert.ErrorContains(t, err, "run download first")
}
