// Package source describes the six national baby-name datasets and downloads
// them into the data directory, isolating failures per source.
package source

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rotisserie/eris"

	"github.com/twoyes/names-cli/internal/model"
)

// Source describes one downloadable dataset file.
type Source struct {
	Name       string        `yaml:"name"`
	Label      string        `yaml:"label"`
	Country    model.Country `yaml:"country"`
	URL        string        `yaml:"url"`
	Filename   string        `yaml:"filename"`    // destination file under the data dir
	ExtractDir string        `yaml:"extract_dir"` // if set, unzip into data/<ExtractDir>
	Manual     string        `yaml:"manual"`      // manual-download guidance URL
}

// DefaultSources returns the built-in list of national dataset files.
func DefaultSources() []Source {
	return []Source{
		{
			Name:       "ssa",
			Label:      "US SSA baby names",
			Country:    model.USA,
			URL:        "https://www.ssa.gov/oact/babynames/names.zip",
			Filename:   "names.zip",
			ExtractDir: "ssa",
			Manual:     "https://www.ssa.gov/oact/babynames/names.zip",
		},
		{
			Name:       "insee",
			Label:      "France INSEE prenoms",
			Country:    model.FRA,
			URL:        "https://www.insee.fr/fr/statistiques/fichier/2540004/nat2021_csv.zip",
			Filename:   "nat2021_csv.zip",
			ExtractDir: "insee",
			Manual:     "https://www.insee.fr/fr/statistiques/2540004",
		},
		{
			Name:     "ons-boys",
			Label:    "UK ONS boys names",
			Country:  model.GBR,
			URL:      "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/birthsdeathsandmarriages/livebirths/datasets/babynamesenglandandwalesbabynamesstatisticsboys/2022/boynames2022.csv",
			Filename: "ons-boys-2022.csv",
			Manual:   "https://www.ons.gov.uk/peoplepopulationandcommunity/birthsdeathsandmarriages/livebirths",
		},
		{
			Name:     "ons-girls",
			Label:    "UK ONS girls names",
			Country:  model.GBR,
			URL:      "https://www.ons.gov.uk/file?uri=/peoplepopulationandcommunity/birthsdeathsandmarriages/livebirths/datasets/babynamesenglandandwalesbabynamesstatisticsgirls/2022/girlnames2022.csv",
			Filename: "ons-girls-2022.csv",
			Manual:   "https://www.ons.gov.uk/peoplepopulationandcommunity/birthsdeathsandmarriages/livebirths",
		},
		{
			Name:     "cologne-2019-2022",
			Label:    "Germany Cologne first names 2019-2022",
			Country:  model.DEU,
			URL:      "https://offenedaten-koeln.de/sites/default/files/Gesamt_Vornamen_2019-2022_0.csv",
			Filename: "vornamen_koeln_2019_2022.csv",
			Manual:   "https://offenedaten-koeln.de",
		},
		{
			Name:     "cologne-2023",
			Label:    "Germany Cologne first names 2023",
			Country:  model.DEU,
			URL:      "https://offenedaten-koeln.de/sites/default/files/Vornamenstatistik_2023.csv",
			Filename: "vornamen_koeln_2023.csv",
			Manual:   "https://offenedaten-koeln.de",
		},
		{
			Name:     "ine-fecha",
			Label:    "Spain INE nombres por fecha",
			Country:  model.ESP,
			URL:      "https://www.ine.es/en/daco/daco42/nombyapel/nombres_por_fecha_en.xls",
			Filename: "ine_nombres_por_fecha.xls",
			Manual:   "https://www.ine.es/dyngs/INEbase/en/operacion.htm?c=Estadistica_C&cid=1254736177009",
		},
		{
			Name:     "ine-frecuentes",
			Label:    "Spain INE nombres mas frecuentes",
			Country:  model.ESP,
			URL:      "https://www.ine.es/daco/daco42/nombyapel/nombres_mas_frecuentes.xls",
			Filename: "ine_nombres_frecuentes.xls",
			Manual:   "https://www.ine.es/dyngs/INEbase/en/operacion.htm?c=Estadistica_C&cid=1254736177009",
		},
		{
			Name:     "istat",
			Label:    "Italy ISTAT first names (GitHub mirror)",
			Country:  model.ITA,
			URL:      "https://raw.githubusercontent.com/mrblasco/genderNamesITA/master/gender_firstnames_ITA.csv",
			Filename: "istat_nomi.csv",
			Manual:   "https://github.com/mrblasco/genderNamesITA",
		},
	}
}

// LoadSources reads a source list from a YAML file, falling back to the
// defaults when path is empty.
func LoadSources(path string) ([]Source, error) {
	if path == "" {
		return DefaultSources(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "source: read %s", path)
	}
	var sources []Source
	if err := yaml.Unmarshal(data, &sources); err != nil {
		return nil, eris.Wrapf(err, "source: parse %s", path)
	}
	if len(sources) == 0 {
		return nil, eris.Errorf("source: %s defines no sources", path)
	}
	return sources, nil
}
