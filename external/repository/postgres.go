package repository

import (
	"context"
	"errors"

	"github.com/foxseedlab/leopard/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/do/v2"
)

const transcriptColumns = `id::text, source, mode::text, engine, engine_version, content, elapsed_ms, created_at`

type PostgresRepository struct {
	pool *pgxpool.Pool
}

var (
	_ repository.TranscriptRepository = (*PostgresRepository)(nil)
	_ do.Shutdowner                   = (*PostgresRepository)(nil)
)

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) InsertTranscript(ctx context.Context, input repository.InsertTranscriptInput) (*repository.Transcript, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO transcripts (source, mode, engine, engine_version, content, elapsed_ms)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+transcriptColumns,
		input.Source, string(input.Mode), input.Engine, input.EngineVersion, input.Text, input.ElapsedMillis)
	return scanTranscript(row)
}

func (r *PostgresRepository) GetTranscript(ctx context.Context, id string) (*repository.Transcript, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts WHERE id::text = $1`, id)
	t, err := scanTranscript(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	return t, err
}

func (r *PostgresRepository) ListRecentTranscripts(ctx context.Context, limit int) ([]repository.Transcript, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+transcriptColumns+` FROM transcripts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Transcript
	for rows.Next() {
		t, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

// Shutdown closes the pool when the injector shuts down.
func (r *PostgresRepository) Shutdown() {
	r.pool.Close()
}

func scanTranscript(row pgx.Row) (*repository.Transcript, error) {
	var t repository.Transcript
	var mode string
	err := row.Scan(&t.ID, &t.Source, &mode, &t.Engine, &t.EngineVersion, &t.Text, &t.ElapsedMillis, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	t.Mode = repository.Mode(mode)
	return &t, nil
}
