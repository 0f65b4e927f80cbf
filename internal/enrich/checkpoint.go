package enrich

import (
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/twoyes/names-cli/internal/model"
)

// EnrichmentResult is the per-name payload returned by the model.
type EnrichmentResult struct {
	Name             string   `json:"name"`
	Meaning          string   `json:"meaning"`
	Etymology        string   `json:"etymology"`
	Origins          []string `json:"origins"`
	PronunciationIPA string   `json:"pronunciation_ipa"`
	StyleTags        []string `json:"style_tags"`
	Syllables        int      `json:"syllables"`
	FamousPeople     []string `json:"famous_people"`
}

// Checkpoint stores completed enrichment results keyed by normalized name so
// an interrupted run resumes without repeating API calls. Implementations
// must be safe for concurrent Get/Set.
type Checkpoint interface {
	Get(nameNormalized string) (EnrichmentResult, bool)
	Set(nameNormalized string, result EnrichmentResult)
	Len() int
	Persist() error
	Close() error
}

// FileCheckpoint keeps results in memory and persists them as one flat JSON
// object, tolerating a missing file on first run.
type FileCheckpoint struct {
	path string

	mu      sync.RWMutex
	results map[string]EnrichmentResult
}

// OpenFileCheckpoint loads an existing checkpoint file or starts empty.
func OpenFileCheckpoint(path string) (*FileCheckpoint, error) {
	cp := &FileCheckpoint{path: path, results: make(map[string]EnrichmentResult)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cp, nil
		}
		return nil, eris.Wrapf(err, "checkpoint: read %s", path)
	}
	if err := json.Unmarshal(data, &cp.results); err != nil {
		return nil, eris.Wrapf(err, "checkpoint: parse %s", path)
	}
	return cp, nil
}

func (c *FileCheckpoint) Get(nameNormalized string) (EnrichmentResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[nameNormalized]
	return r, ok
}

func (c *FileCheckpoint) Set(nameNormalized string, result EnrichmentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[nameNormalized] = result
}

func (c *FileCheckpoint) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func (c *FileCheckpoint) Persist() error {
	c.mu.RLock()
	snapshot := make(map[string]EnrichmentResult, len(c.results))
	for k, v := range c.results {
		snapshot[k] = v
	}
	c.mu.RUnlock()

	if err := model.WriteJSON(c.path, snapshot); err != nil {
		return eris.Wrap(err, "checkpoint: persist")
	}
	return nil
}

func (c *FileCheckpoint) Close() error { return nil }

// SQLiteCheckpoint stores results in a local SQLite database, one row per
// name. Persist flushes rows written since the last flush.
type SQLiteCheckpoint struct {
	db *sql.DB

	mu      sync.RWMutex
	results map[string]EnrichmentResult
	dirty   map[string]bool
}

// OpenSQLiteCheckpoint opens or creates the checkpoint database and loads
// all existing rows into memory.
func OpenSQLiteCheckpoint(path string) (*SQLiteCheckpoint, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "checkpoint: open %s", path)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS enrichment (
		name_normalized TEXT PRIMARY KEY,
		payload         TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "checkpoint: create table")
	}

	cp := &SQLiteCheckpoint{
		db:      db,
		results: make(map[string]EnrichmentResult),
		dirty:   make(map[string]bool),
	}

	rows, err := db.Query(`SELECT name_normalized, payload FROM enrichment`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "checkpoint: load rows")
	}
	defer rows.Close()

	for rows.Next() {
		var norm, payload string
		if err := rows.Scan(&norm, &payload); err != nil {
			db.Close()
			return nil, eris.Wrap(err, "checkpoint: scan row")
		}
		var r EnrichmentResult
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			continue
		}
		cp.results[norm] = r
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "checkpoint: iterate rows")
	}

	return cp, nil
}

func (c *SQLiteCheckpoint) Get(nameNormalized string) (EnrichmentResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.results[nameNormalized]
	return r, ok
}

func (c *SQLiteCheckpoint) Set(nameNormalized string, result EnrichmentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[nameNormalized] = result
	c.dirty[nameNormalized] = true
}

func (c *SQLiteCheckpoint) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func (c *SQLiteCheckpoint) Persist() error {
	c.mu.Lock()
	pending := make(map[string]EnrichmentResult, len(c.dirty))
	for norm := range c.dirty {
		pending[norm] = c.results[norm]
	}
	c.dirty = make(map[string]bool)
	c.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	tx, err := c.db.Begin()
	if err != nil {
		return eris.Wrap(err, "checkpoint: begin tx")
	}
	stmt, err := tx.Prepare(`INSERT INTO enrichment (name_normalized, payload) VALUES (?, ?)
		ON CONFLICT(name_normalized) DO UPDATE SET payload = excluded.payload`)
	if err != nil {
		tx.Rollback()
		return eris.Wrap(err, "checkpoint: prepare upsert")
	}
	defer stmt.Close()

	for norm, r := range pending {
		payload, err := json.Marshal(r)
		if err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "checkpoint: marshal %s", norm)
		}
		if _, err := stmt.Exec(norm, string(payload)); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "checkpoint: upsert %s", norm)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "checkpoint: commit")
	}
	return nil
}

func (c *SQLiteCheckpoint) Close() error {
	return c.db.Close()
}
