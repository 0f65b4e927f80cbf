// Package model defines the record types passed between pipeline stages and the
// normalized-key function that joins names across sources.
package model

// Gender classifies a name observation or a merged name.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Unisex Gender = "unisex"
)

// Country identifies a national data source.
type Country string

const (
	USA Country = "USA"
	FRA Country = "FRA"
	GBR Country = "GBR"
	DEU Country = "DEU"
	ESP Country = "ESP"
	ITA Country = "ITA"
)

// MergeOrder is the fixed order in which country lists feed the merger.
var MergeOrder = []Country{USA, FRA, GBR, DEU, ESP, ITA}

// RankSentinel stands in for an absent country rank so it never wins a minimum.
const RankSentinel = 99999

// RawName is one country's observation of a name/gender pair.
type RawName struct {
	Name           string  `json:"name"`
	NameNormalized string  `json:"name_normalized"`
	Gender         Gender  `json:"gender"`
	Count          int     `json:"count"`
	Rank           int     `json:"rank"`
	Country        Country `json:"country"`
}

// PopularityEntry is one (name, year, country) historical ranking snapshot.
type PopularityEntry struct {
	NameNormalized string  `json:"name_normalized"`
	Year           int     `json:"year"`
	Country        Country `json:"country"`
	Rank           *int    `json:"rank"`
	Count          int     `json:"count"`
}

// ParseResult is the output of one country parser.
type ParseResult struct {
	Names      []RawName         `json:"names"`
	Popularity []PopularityEntry `json:"popularity"`
}

// ParsedNames is the on-disk shape of the parse stage artifact.
type ParsedNames struct {
	US []RawName `json:"us"`
	FR []RawName `json:"fr"`
	UK []RawName `json:"uk"`
	DE []RawName `json:"de"`
	ES []RawName `json:"es"`
	IT []RawName `json:"it"`
}

// ByCountry returns the list for the given country.
func (p *ParsedNames) ByCountry(c Country) []RawName {
	switch c {
	case USA:
		return p.US
	case FRA:
		return p.FR
	case GBR:
		return p.UK
	case DEU:
		return p.DE
	case ESP:
		return p.ES
	case ITA:
		return p.IT
	}
	return nil
}

// MergedName is the single canonical record for one name across all countries.
type MergedName struct {
	Name           string   `json:"name"`
	NameNormalized string   `json:"name_normalized"`
	Gender         Gender   `json:"gender"`
	RankUS         *int     `json:"popularity_rank_us"`
	RankFR         *int     `json:"popularity_rank_fr"`
	RankUK         *int     `json:"popularity_rank_uk"`
	RankDE         *int     `json:"popularity_rank_de"`
	RankES         *int     `json:"popularity_rank_es"`
	RankIT         *int     `json:"popularity_rank_it"`
	Countries      []string `json:"countries"`
}

// Ranks returns all six country rank slots in merge order.
func (m *MergedName) Ranks() []*int {
	return []*int{m.RankUS, m.RankFR, m.RankUK, m.RankDE, m.RankES, m.RankIT}
}

// BestRank returns the minimum rank across all country slots, with absent
// slots counting as RankSentinel.
func (m *MergedName) BestRank() int {
	best := RankSentinel
	for _, r := range m.Ranks() {
		if r != nil && *r < best {
			best = *r
		}
	}
	return best
}

// RankFor returns the rank slot for the given country, nil when unset.
func (m *MergedName) RankFor(c Country) *int {
	switch c {
	case USA:
		return m.RankUS
	case FRA:
		return m.RankFR
	case GBR:
		return m.RankUK
	case DEU:
		return m.RankDE
	case ESP:
		return m.RankES
	case ITA:
		return m.RankIT
	}
	return nil
}

// SetRank sets the rank slot for the given country.
func (m *MergedName) SetRank(c Country, rank int) {
	r := rank
	switch c {
	case USA:
		m.RankUS = &r
	case FRA:
		m.RankFR = &r
	case GBR:
		m.RankUK = &r
	case DEU:
		m.RankDE = &r
	case ESP:
		m.RankES = &r
	case ITA:
		m.RankIT = &r
	}
}

// NameMetadata is the JSON metadata bundle stored per name.
type NameMetadata struct {
	StyleTags    []string `json:"style_tags"`
	Syllables    int      `json:"syllables"`
	FamousPeople []string `json:"famous_people"`
}

// EnrichedName is a MergedName plus semantic metadata from the LLM.
// Enrichment fields are empty (never nil) when enrichment failed for the name.
type EnrichedName struct {
	MergedName
	Meaning          string       `json:"meaning"`
	Etymology        string       `json:"etymology"`
	Origins          []string     `json:"origins"`
	PronunciationIPA string       `json:"pronunciation_ipa"`
	Metadata         NameMetadata `json:"metadata"`
}
