package fetcher

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestExtractZIP(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"yob2023.txt":        "Emma,F,10000",
		"nested/nat2021.csv": "sexe;preusuel;annais;nombre",
	})

	destDir := t.TempDir()
	paths, err := ExtractZIP(zipPath, destDir)
	require.NoError(t, err)
	assert.Len(t, paths, 2)

	data, err := os.ReadFile(filepath.Join(destDir, "yob2023.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Emma,F,10000", string(data))

	assert.FileExists(t, filepath.Join(destDir, "nested", "nat2021.csv"))
}

func TestExtractZIPSlip(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"../escape.txt": "bad",
	})

	_, err := ExtractZIP(zipPath, t.TempDir())
	assert.ErrorContains(t, err, "zip slip")
}
