// Package merge combines per-country parse results into one deduplicated
// name list keyed by normalized spelling.
package merge

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/twoyes/names-cli/internal/model"
)

// accentPreferred lists the countries whose accented display spelling wins
// over a plain-ASCII spelling of the same normalized name.
var accentPreferred = map[model.Country]bool{
	model.FRA: true,
	model.ESP: true,
	model.ITA: true,
	model.DEU: true,
}

// Result carries the merged list plus summary figures for reporting.
type Result struct {
	Names        []model.MergedName
	MultiCountry int
}

// Merge folds the per-country lists into one entry per normalized name.
// Countries are visited in a fixed order so the output is deterministic
// regardless of which sources were available.
func Merge(parsed *model.ParsedNames) *Result {
	log := zap.L().With(zap.String("component", "merge"))

	type accum struct {
		merged  *model.MergedName
		genders map[model.Gender]bool
	}
	byNorm := make(map[string]*accum)
	var order []string

	for _, country := range model.MergeOrder {
		for _, raw := range parsed.ByCountry(country) {
			a, ok := byNorm[raw.NameNormalized]
			if !ok {
				a = &accum{
					merged: &model.MergedName{
						Name:           raw.Name,
						NameNormalized: raw.NameNormalized,
					},
					genders: make(map[model.Gender]bool),
				}
				byNorm[raw.NameNormalized] = a
				order = append(order, raw.NameNormalized)
			}

			a.genders[raw.Gender] = true
			if !containsCountry(a.merged.Countries, string(country)) {
				a.merged.Countries = append(a.merged.Countries, string(country))
			}

			// Keep the best (lowest) rank a country reports for the name.
			if cur := a.merged.RankFor(country); cur == nil || raw.Rank < *cur {
				a.merged.SetRank(country, raw.Rank)
			}

			// Prefer the accented spelling from its home country over a
			// plain-ASCII variant seen elsewhere.
			if accentPreferred[country] && hasAccents(raw.Name) && !hasAccents(a.merged.Name) {
				a.merged.Name = raw.Name
			}
		}
	}

	names := make([]model.MergedName, 0, len(byNorm))
	multiCountry := 0
	for _, norm := range order {
		a := byNorm[norm]
		a.merged.Gender = classifyGender(a.genders)
		if len(a.merged.Countries) > 1 {
			multiCountry++
		}
		names = append(names, *a.merged)
	}

	// Widest reach first, best single-country rank as tiebreaker.
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i].Countries) != len(names[j].Countries) {
			return len(names[i].Countries) > len(names[j].Countries)
		}
		return names[i].BestRank() < names[j].BestRank()
	})

	log.Info("names merged",
		zap.Int("total", len(names)),
		zap.Int("multi_country", multiCountry),
	)

	return &Result{Names: names, MultiCountry: multiCountry}
}

// classifyGender resolves the union of observed genders: a name seen as both
// male and female anywhere is unisex.
func classifyGender(genders map[model.Gender]bool) model.Gender {
	male := genders[model.Male] || genders[model.Unisex]
	female := genders[model.Female] || genders[model.Unisex]
	switch {
	case male && female:
		return model.Unisex
	case male:
		return model.Male
	default:
		return model.Female
	}
}

func containsCountry(list []string, c string) bool {
	for _, v := range list {
		if v == c {
			return true
		}
	}
	return false
}

// hasAccents reports whether the spelling differs from its normalized form
// beyond casing, which means it carries diacritics.
func hasAccents(name string) bool {
	return strings.ToLower(name) != model.Normalize(name)
}
