package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twoyes/names-cli/internal/model"
)

func writeSSAFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dataDir := t.TempDir()
	ssaDir := filepath.Join(dataDir, "ssa")
	require.NoError(t, os.MkdirAll(ssaDir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(ssaDir, name), []byte(content), 0o644))
	}
	return dataDir
}

func TestSSAParse(t *testing.T) {
	dataDir := writeSSAFiles(t, map[string]string{
		"yob2022.txt": "Emma,F,16000\nOlivia,F,17000\nLiam,M,20000\nNoah,M,19000\n",
		"yob2023.txt": "Olivia,F,15000\nEmma,F,14000\nLiam,M,21000\nNoah,M,18000\n",
	})

	result, err := (&SSA{}).Parse(dataDir)
	require.NoError(t, err)

	// Ranking comes from the latest year only.
	var olivia, emma *model.RawName
	for i := range result.Names {
		switch result.Names[i].NameNormalized {
		case "olivia":
			olivia = &result.Names[i]
		case "emma":
			emma = &result.Names[i]
		}
	}
	require.NotNil(t, olivia)
	require.NotNil(t, emma)
	assert.Equal(t, 1, olivia.Rank)
	assert.Equal(t, 2, emma.Rank)
	assert.Equal(t, model.Female, emma.Gender)

	// History spans both year files.
	years := make(map[int]bool)
	for _, p := range result.Popularity {
		years[p.Year] = true
		assert.Equal(t, model.USA, p.Country)
		require.NotNil(t, p.Rank)
	}
	assert.True(t, years[2022])
	assert.True(t, years[2023])
}

func TestSSAParseHistoryRankFromRowOrder(t *testing.T) {
	dataDir := writeSSAFiles(t, map[string]string{
		"yob2023.txt": "Olivia,F,15000\nEmma,F,14000\nAva,F,13000\nLiam,M,21000\n",
	})

	result, err := (&SSA{}).Parse(dataDir)
	require.NoError(t, err)

	ranks := make(map[string]int)
	for _, p := range result.Popularity {
		ranks[p.NameNormalized] = *p.Rank
	}
	assert.Equal(t, 1, ranks["olivia"])
	assert.Equal(t, 2, ranks["emma"])
	assert.Equal(t, 3, ranks["ava"])
	// Male ranking is independent of female row positions.
	assert.Equal(t, 1, ranks["liam"])
}

func TestSSAParseNoFiles(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dataDir, "ssa"), 0o755))

	_, err := (&SSA{}).Parse(dataDir)
	assert.ErrorContains(t, err, "no yobYYYY.txt files")
}

func TestSSAParseSkipsMalformedLines(t *testing.T) {
	dataDir := writeSSAFiles(t, map[string]string{
		"yob2023.txt": "Emma,F,16000\nbadline\nLiam,M,notanumber\nNoah,M,18000\n",
	})

	result, err := (&SSA{}).Parse(dataDir)
	require.NoError(t, err)
	assert.Len(t, result.Names, 2)
}
