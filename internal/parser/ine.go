package parser

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/fetcher"
	"github.com/twoyes/names-cli/internal/model"
)

// ineCurrentYear labels the single-year entries derived from the CSV ranking.
const ineCurrentYear = 2022

// ineDecadeFirstRow is the first data row index in the decade workbook sheets.
const ineDecadeFirstRow = 5

// ineDecade maps each decade column block in the workbook to a representative year.
type ineDecade struct {
	label string
	year  int
}

var ineDecades = []ineDecade{
	{"NACIDOS ANTES DE 1930", 1925},
	{"NACIDOS EN AÑOS 1930", 1935},
	{"NACIDOS EN AÑOS 1940", 1945},
	{"NACIDOS EN AÑOS 1950", 1955},
	{"NACIDOS EN AÑOS 1960", 1965},
	{"NACIDOS EN AÑOS 1970", 1975},
	{"NACIDOS EN AÑOS 1980", 1985},
	{"NACIDOS EN AÑOS 1990", 1995},
	{"NACIDOS EN AÑOS 2000", 2005},
	{"NACIDOS EN AÑOS 2010", 2015},
	{"NACIDOS EN AÑOS 2020", 2021},
}

// INE parses the Spain INE frequent-name CSV exports plus the decade-bucketed
// "nombres por fecha" workbook for historical popularity.
type INE struct{}

func (p *INE) Name() string           { return "ine" }
func (p *INE) Country() model.Country { return model.ESP }

func (p *INE) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "ine"))

	hombresFile := filepath.Join(dataDir, "ine_hombres.csv")
	mujeresFile := filepath.Join(dataDir, "ine_mujeres.csv")
	if !fileExists(hombresFile) || !fileExists(mujeresFile) {
		log.Warn("no INE CSV files found, skipping Spain")
		return &model.ParseResult{}, nil
	}

	males, err := p.parseCSV(hombresFile, model.Male)
	if err != nil {
		return nil, err
	}
	females, err := p.parseCSV(mujeresFile, model.Female)
	if err != nil {
		return nil, err
	}
	log.Info("records parsed", zap.Int("male", len(males)), zap.Int("female", len(females)))

	males = rankAndCap(males)
	females = rankAndCap(females)
	all := append(append([]model.RawName{}, females...), males...)
	log.Info("selected names", zap.Int("female", len(females)), zap.Int("male", len(males)))

	selected := normalizedSet(all)
	var popularity []model.PopularityEntry

	porFechaFile := filepath.Join(dataDir, "ine_nombres_por_fecha.xls")
	if fileExists(porFechaFile) {
		decades, err := p.parseDecadeWorkbook(porFechaFile)
		if err != nil {
			// Historical data is optional; the CSV ranking stands alone.
			log.Warn("decade workbook unreadable, continuing without history", zap.Error(err))
		} else {
			log.Info("decade popularity parsed", zap.Int("names", len(decades)))
			for norm, byYear := range decades {
				if !selected[norm] {
					continue
				}
				for year, e := range byYear {
					popularity = append(popularity, model.PopularityEntry{
						NameNormalized: norm,
						Year:           year,
						Country:        model.ESP,
						Rank:           intPtr(e.rank),
						Count:          e.count,
					})
				}
			}
		}
	}

	// Current overall ranking as a single-year entry for every selected name.
	for _, n := range all {
		popularity = append(popularity, model.PopularityEntry{
			NameNormalized: n.NameNormalized,
			Year:           ineCurrentYear,
			Country:        model.ESP,
			Rank:           intPtr(n.Rank),
			Count:          n.Count,
		})
	}

	log.Info("popularity entries generated", zap.Int("entries", len(popularity)))
	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// parseCSV reads one gendered INE export (header: nombre,frec,edad_media).
func (p *INE) parseCSV(path string, gender model.Gender) ([]model.RawName, error) {
	rows, err := fetcher.ReadCSVFile(path, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
	if err != nil {
		return nil, eris.Wrapf(err, "ine: parse %s", path)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	var names []model.RawName
	for _, parts := range rows[1:] {
		if len(parts) < 2 {
			continue
		}
		rawName := parts[0]
		freq, ok := parseCellInt(parts[1])
		if rawName == "" || len(rawName) < 2 || !ok || freq <= 0 {
			continue
		}

		names = append(names, model.RawName{
			Name:           model.CapitalizeWords(rawName),
			NameNormalized: model.Normalize(rawName),
			Gender:         gender,
			Count:          freq,
			Country:        model.ESP,
		})
	}

	return names, nil
}

// parseDecadeWorkbook extracts per-decade ranks from the national sheets.
// Each data row holds a rank in column 0 followed by (name, freq, avg-age)
// triplets, one per decade column block.
func (p *INE) parseDecadeWorkbook(path string) (map[string]map[int]historyEntry, error) {
	popMap := make(map[string]map[int]historyEntry)

	for _, sheetName := range []string{"ESPAÑA_hombres", "ESPAÑA_mujeres"} {
		rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheetName})
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				continue
			}
			return nil, eris.Wrapf(err, "ine: read workbook %s", path)
		}

		for i := ineDecadeFirstRow; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 {
				continue
			}
			rank, ok := parseCellInt(row[0])
			if !ok {
				continue
			}

			for decIdx, decade := range ineDecades {
				colStart := 1 + decIdx*3
				if colStart+1 >= len(row) {
					break
				}
				name := strings.TrimSpace(row[colStart])
				if name == "" {
					continue
				}
				count, ok := parseCellInt(row[colStart+1])
				if !ok {
					continue
				}

				norm := model.Normalize(name)
				if popMap[norm] == nil {
					popMap[norm] = make(map[int]historyEntry)
				}
				popMap[norm][decade.year] = historyEntry{rank: rank, count: count}
			}
		}
	}

	return popMap, nil
}
