package embed

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"

	"github.com/twoyes/names-cli/internal/model"
)

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NameRow is one database row awaiting an embedding.
type NameRow struct {
	ID       string
	Name     string
	Meaning  string
	Origins  []string
	Metadata model.NameMetadata
}

// Store reads names without embeddings and writes vectors back. FetchMissing
// pages by id keyset so rows that fail to update are not re-served within the
// same run.
type Store interface {
	CountMissing(ctx context.Context) (int, error)
	FetchMissing(ctx context.Context, afterID string, limit int) ([]NameRow, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// PostgresStore implements Store against the names table.
type PostgresStore struct {
	db DB
}

// NewPostgresStore wraps a pool or mock.
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CountMissing(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM public.names WHERE embedding IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, eris.Wrap(err, "embed: count missing")
	}
	return count, nil
}

func (s *PostgresStore) FetchMissing(ctx context.Context, afterID string, limit int) ([]NameRow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, COALESCE(meaning, ''), origins, metadata
		 FROM public.names
		 WHERE embedding IS NULL AND id > $1
		 ORDER BY id
		 LIMIT $2`, afterID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "embed: fetch missing")
	}
	defer rows.Close()

	var out []NameRow
	for rows.Next() {
		var r NameRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Meaning, &r.Origins, &r.Metadata); err != nil {
			return nil, eris.Wrap(err, "embed: scan row")
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "embed: iterate rows")
	}
	return out, nil
}

// UpdateEmbedding writes the vector in pgvector's text form with an explicit
// cast; pgx has no codec registered for the vector extension OID, so binding
// []float32 directly would fail to encode.
func (s *PostgresStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	_, err := s.db.Exec(ctx,
		`UPDATE public.names SET embedding = $1::vector WHERE id = $2`,
		vectorLiteral(embedding), id)
	if err != nil {
		return eris.Wrapf(err, "embed: update %s", id)
	}
	return nil
}

// vectorLiteral renders a pgvector input literal, e.g. "[0.1,0.2,0.3]".
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

var _ Store = (*PostgresStore)(nil)
