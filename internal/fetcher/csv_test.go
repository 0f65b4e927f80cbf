package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("name,count\nEmma,100\nOlivia,90\n"), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Emma", "100"}, rows[1])
}

func TestReadCSVSemicolon(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("jahr;vorname;anzahl\n2023;Emma;42\n"), CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2023", "Emma", "42"}, rows[1])
}

func TestReadCSVVariableFields(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("a,b,c\nx,y\nz\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Len(t, rows[1], 2)
}

func TestReadCSVFileStripsBOM(t *testing.T) {
	path := writeTemp(t, "bom.csv", "\xEF\xBB\xBFname;freq\nEmma;10\n")
	rows, err := ReadCSVFile(path, CSVOptions{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, "name", rows[0][0])
}

func TestReadCSVTrimSpace(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader("name , count\n Emma , 100 \n"), CSVOptions{TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma", "100"}, rows[1])
}
