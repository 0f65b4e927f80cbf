package model

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergedNameBestRank(t *testing.T) {
	m := &MergedName{}
	assert.Equal(t, RankSentinel, m.BestRank())

	m.SetRank(FRA, 42)
	m.SetRank(USA, 7)
	assert.Equal(t, 7, m.BestRank())

	require.NotNil(t, m.RankFor(FRA))
	assert.Equal(t, 42, *m.RankFor(FRA))
	assert.Nil(t, m.RankFor(ITA))
}

func TestParsedNamesByCountry(t *testing.T) {
	p := &ParsedNames{
		US: []RawName{{Name: "Emma"}},
		IT: []RawName{{Name: "Sofia"}},
	}
	assert.Len(t, p.ByCountry(USA), 1)
	assert.Len(t, p.ByCountry(ITA), 1)
	assert.Empty(t, p.ByCountry(DEU))
}

func TestArtifactRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged-names.json")

	in := []MergedName{
		{Name: "Emma", NameNormalized: "emma", Gender: Female, Countries: []string{"USA", "FRA"}},
	}
	in[0].SetRank(USA, 2)

	require.NoError(t, WriteJSON(path, in))

	out, err := ReadJSON[[]MergedName](path)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Emma", out[0].Name)
	require.NotNil(t, out[0].RankUS)
	assert.Equal(t, 2, *out[0].RankUS)

	// No temp file left behind after the atomic rename.
	assert.NoFileExists(t, path+".tmp")
}

func TestReadJSONMissingFile(t *testing.T) {
	_, err := ReadJSON[[]MergedName](filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
