package parser

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/fetcher"
	"github.com/twoyes/names-cli/internal/model"
)

// istatYear labels the single-year popularity entries (the dataset is an
// undated aggregate; 2022 approximates its publication).
const istatYear = 2022

// ISTAT parses the Italy first-name aggregate CSV (header: nome,tot,male,female).
// A single row carries both gender counts; when both are positive the name is
// assigned to every gender whose count is at least the other's, so genuinely
// unisex names are kept in both buckets instead of collapsing to the
// plurality winner.
type ISTAT struct{}

func (p *ISTAT) Name() string           { return "istat" }
func (p *ISTAT) Country() model.Country { return model.ITA }

func (p *ISTAT) Parse(dataDir string) (*model.ParseResult, error) {
	log := zap.L().With(zap.String("parser", "istat"))

	csvFile := filepath.Join(dataDir, "istat_nomi.csv")
	if !fileExists(csvFile) {
		log.Warn("no ISTAT data file found, skipping Italy")
		return &model.ParseResult{}, nil
	}

	rows, err := fetcher.ReadCSVFile(csvFile, fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true})
	if err != nil {
		return nil, eris.Wrapf(err, "istat: parse %s", csvFile)
	}
	if len(rows) == 0 {
		return &model.ParseResult{}, nil
	}

	var females, males []model.RawName
	skipped := 0

	for _, parts := range rows[1:] {
		if len(parts) < 4 {
			continue
		}

		rawName := parts[0]
		tot, totOK := parseCellInt(parts[1])
		maleCount, _ := parseCellInt(parts[2])
		femaleCount, _ := parseCellInt(parts[3])

		if !totOK || tot <= 0 {
			continue
		}

		// Skip abbreviated compounds ("A. GIUSEPPE") and very short names.
		if strings.Contains(rawName, ".") || len(rawName) < 2 {
			skipped++
			continue
		}
		// Skip compounds led by a bare initial ("A MARIA"); real compounds
		// like "ANNA MARIA" pass.
		if strings.Contains(rawName, " ") && len(strings.Split(rawName, " ")[0]) <= 1 {
			skipped++
			continue
		}

		name := capitalizeItalian(rawName)
		norm := model.Normalize(rawName)

		switch {
		case maleCount > 0 && femaleCount > 0:
			if maleCount >= femaleCount {
				males = append(males, model.RawName{
					Name: name, NameNormalized: norm, Gender: model.Male,
					Count: maleCount, Country: model.ITA,
				})
			}
			if femaleCount >= maleCount {
				females = append(females, model.RawName{
					Name: name, NameNormalized: norm, Gender: model.Female,
					Count: femaleCount, Country: model.ITA,
				})
			}
		case maleCount > 0:
			males = append(males, model.RawName{
				Name: name, NameNormalized: norm, Gender: model.Male,
				Count: maleCount, Country: model.ITA,
			})
		case femaleCount > 0:
			females = append(females, model.RawName{
				Name: name, NameNormalized: norm, Gender: model.Female,
				Count: femaleCount, Country: model.ITA,
			})
		}
	}
	log.Info("records parsed",
		zap.Int("male", len(males)),
		zap.Int("female", len(females)),
		zap.Int("skipped", skipped),
	)

	females = rankAndCap(females)
	males = rankAndCap(males)
	all := append(append([]model.RawName{}, females...), males...)
	log.Info("selected names", zap.Int("female", len(females)), zap.Int("male", len(males)))

	// Aggregate dataset with no per-year breakdown: one entry per name.
	popularity := make([]model.PopularityEntry, 0, len(all))
	for _, n := range all {
		popularity = append(popularity, model.PopularityEntry{
			NameNormalized: n.NameNormalized,
			Year:           istatYear,
			Country:        model.ITA,
			Rank:           intPtr(n.Rank),
			Count:          n.Count,
		})
	}

	return &model.ParseResult{Names: all, Popularity: popularity}, nil
}

// capitalizeItalian title-cases multi-part Italian names, preserving the
// original separator style.
func capitalizeItalian(name string) string {
	sep := " "
	if strings.Contains(name, "-") {
		sep = "-"
	}
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-'
	})
	for i, p := range parts {
		parts[i] = model.Capitalize(p)
	}
	return strings.Join(parts, sep)
}
