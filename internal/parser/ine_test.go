package parser

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/twoyes/names-cli/internal/model"
)

func writeINECSVs(t *testing.T, dataDir string) {
	t.Helper()
	hombres := "nombre,frec,edad_media\nANTONIO,600000,55.2\nJOSE LUIS,300000,52.1\n"
	mujeres := "nombre,frec,edad_media\nMARIA CARMEN,650000,57.0\nLUCIA,250000,20.3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ine_hombres.csv"), []byte(hombres), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "ine_mujeres.csv"), []byte(mujeres), 0o644))
}

// writeINEWorkbook builds a minimal decade workbook: header filler rows, then
// one data row with rank 1 and a (name, freq, age) triplet per decade.
func writeINEWorkbook(t *testing.T, dataDir string, names map[string]int) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("ESPAÑA_hombres")
	require.NoError(t, err)

	for i := 0; i < ineDecadeFirstRow; i++ {
		sheet.AddRow().AddCell().Value = "header"
	}

	row := sheet.AddRow()
	row.AddCell().Value = "1"
	for name, freq := range names {
		row.AddCell().Value = name
		row.AddCell().Value = strconv.Itoa(freq)
		row.AddCell().Value = "54.0"
	}

	require.NoError(t, f.Save(filepath.Join(dataDir, "ine_nombres_por_fecha.xls")))
}

func TestINEParse(t *testing.T) {
	dataDir := t.TempDir()
	writeINECSVs(t, dataDir)

	result, err := (&INE{}).Parse(dataDir)
	require.NoError(t, err)
	require.Len(t, result.Names, 4)

	byNorm := make(map[string]model.RawName)
	for _, n := range result.Names {
		byNorm[n.NameNormalized] = n
	}
	assert.Equal(t, "Maria Carmen", byNorm["maria carmen"].Name)
	assert.Equal(t, model.Female, byNorm["maria carmen"].Gender)
	assert.Equal(t, "Jose Luis", byNorm["jose luis"].Name)
	assert.Equal(t, model.Male, byNorm["jose luis"].Gender)

	// Without the workbook, each name gets one current-year entry.
	assert.Len(t, result.Popularity, 4)
	for _, p := range result.Popularity {
		assert.Equal(t, ineCurrentYear, p.Year)
		assert.Equal(t, model.ESP, p.Country)
	}
}

func TestINEParseWithDecadeWorkbook(t *testing.T) {
	dataDir := t.TempDir()
	writeINECSVs(t, dataDir)
	writeINEWorkbook(t, dataDir, map[string]int{"ANTONIO": 40000})

	result, err := (&INE{}).Parse(dataDir)
	require.NoError(t, err)

	var antonioYears []int
	for _, p := range result.Popularity {
		if p.NameNormalized == "antonio" && p.Year != ineCurrentYear {
			antonioYears = append(antonioYears, p.Year)
			assert.Equal(t, 1, *p.Rank)
			assert.Equal(t, 40000, p.Count)
		}
	}
	// One triplet fills only the first decade block.
	require.Len(t, antonioYears, 1)
	assert.Equal(t, ineDecades[0].year, antonioYears[0])
}

func TestINEParseMissingCSVsSkipsSpain(t *testing.T) {
	result, err := (&INE{}).Parse(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, result.Names)
	assert.Empty(t, result.Popularity)
}

func TestINEParseWorkbookNamesOutsideSelectionIgnored(t *testing.T) {
	dataDir := t.TempDir()
	writeINECSVs(t, dataDir)
	writeINEWorkbook(t, dataDir, map[string]int{"FRANCISCO": 30000})

	result, err := (&INE{}).Parse(dataDir)
	require.NoError(t, err)

	for _, p := range result.Popularity {
		assert.NotEqual(t, "francisco", p.NameNormalized)
	}
}
