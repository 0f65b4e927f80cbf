package enrich

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(name string) EnrichmentResult {
	return EnrichmentResult{
		Name:             name,
		Meaning:          "universal",
		Etymology:        "From Germanic ermen",
		Origins:          []string{"German"},
		PronunciationIPA: "/ˈɛmə/",
		StyleTags:        []string{"classic", "elegant"},
		Syllables:        2,
		FamousPeople:     []string{"Emma Watson"},
	}
}

func TestFileCheckpointPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrichment-progress.json")

	cp, err := OpenFileCheckpoint(path)
	require.NoError(t, err)
	assert.Zero(t, cp.Len())

	cp.Set("emma", sampleResult("Emma"))
	cp.Set("liam", sampleResult("Liam"))
	require.NoError(t, cp.Persist())
	require.NoError(t, cp.Close())

	reopened, err := OpenFileCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reopened.Len())

	r, ok := reopened.Get("emma")
	require.True(t, ok)
	assert.Equal(t, "Emma", r.Name)
	assert.Equal(t, []string{"classic", "elegant"}, r.StyleTags)
	assert.Equal(t, 2, r.Syllables)

	_, ok = reopened.Get("sofia")
	assert.False(t, ok)
}

func TestFileCheckpointCorruptFile(t *testing.T) {
	path := writeTempCheckpoint(t, "not json at all")
	_, err := OpenFileCheckpoint(path)
	assert.Error(t, err)
}

func writeTempCheckpoint(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "enrichment-progress.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSQLiteCheckpointPersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrichment-progress.db")

	cp, err := OpenSQLiteCheckpoint(path)
	require.NoError(t, err)
	assert.Zero(t, cp.Len())

	cp.Set("emma", sampleResult("Emma"))
	require.NoError(t, cp.Persist())

	// Re-persisting with nothing dirty is a no-op.
	require.NoError(t, cp.Persist())

	cp.Set("emma", EnrichmentResult{Name: "Emma", Meaning: "whole"})
	require.NoError(t, cp.Persist())
	require.NoError(t, cp.Close())

	reopened, err := OpenSQLiteCheckpoint(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, 1, reopened.Len())
	r, ok := reopened.Get("emma")
	require.True(t, ok)
	assert.Equal(t, "whole", r.Meaning)
}

func TestSQLiteCheckpointUnpersistedWritesLost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enrichment-progress.db")

	cp, err := OpenSQLiteCheckpoint(path)
	require.NoError(t, err)
	cp.Set("liam", sampleResult("Liam"))
	require.NoError(t, cp.Close())

	reopened, err := OpenSQLiteCheckpoint(path)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Zero(t, reopened.Len())
}
