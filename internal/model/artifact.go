package model

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// Intermediate artifact filenames under the data directory.
const (
	ParsedFile     = "parsed-names.json"
	PopularityFile = "popularity-data.json"
	MergedFile     = "merged-names.json"
	EnrichedFile   = "enriched-names.json"
	ProgressFile   = "enrichment-progress.json"
)

// ReadJSON loads a JSON artifact from disk.
func ReadJSON[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, eris.Wrapf(err, "artifact: read %s", path)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, eris.Wrapf(err, "artifact: parse %s", path)
	}
	return out, nil
}

// WriteJSON writes a JSON artifact to disk. Data lands in a temp file first
// and is renamed into place, so a later stage never reads a half-written
// artifact.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "artifact: marshal %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "artifact: write %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "artifact: rename %s", path)
	}
	return nil
}
