package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/muurk/gymlog/internal/records"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS gym_records (
		id BIGSERIAL PRIMARY KEY,
		exercise TEXT NOT NULL,
		weight INTEGER NOT NULL,
		date TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_gym_records_exercise ON gym_records (lower(exercise))`,
}

const postgresColumns = `id, exercise, weight, date`

// PostgresStore keeps records in PostgreSQL
type PostgresStore struct {
	db *pgxpool.Pool
}

// OpenPostgres connects a pool to dsn and creates the schema
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create postgres schema: %w", err)
		}
	}

	return &PostgresStore{db: pool}, nil
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// Pool exposes the underlying pool
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.db
}

// All returns every record in ID order
func (s *PostgresStore) All(ctx context.Context) ([]records.Record, error) {
	rows, err := s.db.Query(ctx, `SELECT `+postgresColumns+` FROM gym_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return collectPostgresRows(rows)
}

// Page returns one page of records in ID order
func (s *PostgresStore) Page(ctx context.Context, page, size int) (*records.Page, error) {
	offset, err := checkPage(page, size)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM gym_records`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+postgresColumns+` FROM gym_records ORDER BY id LIMIT $1 OFFSET $2`,
		size, offset)
	if err != nil {
		return nil, fmt.Errorf("page records: %w", err)
	}
	content, err := collectPostgresRows(rows)
	if err != nil {
		return nil, err
	}

	return newPage(content, total, page, size), nil
}

// Search returns one page of records whose exercise contains query.
// Non-ASCII case folding follows the database's LC_CTYPE.
func (s *PostgresStore) Search(ctx context.Context, query string, page, size int) (*records.Page, error) {
	offset, err := checkPage(page, size)
	if err != nil {
		return nil, err
	}
	pattern := likePattern(query)

	var total int64
	err = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM gym_records WHERE lower(exercise) LIKE $1 ESCAPE '\'`,
		pattern).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT `+postgresColumns+` FROM gym_records
		 WHERE lower(exercise) LIKE $1 ESCAPE '\'
		 ORDER BY id LIMIT $2 OFFSET $3`,
		pattern, size, offset)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	content, err := collectPostgresRows(rows)
	if err != nil {
		return nil, err
	}

	return newPage(content, total, page, size), nil
}

// Get returns the record with id
func (s *PostgresStore) Get(ctx context.Context, id int64) (*records.Record, error) {
	row := s.db.QueryRow(ctx, `SELECT `+postgresColumns+` FROM gym_records WHERE id = $1`, id)
	return scanPostgresRecord(row)
}

// Create inserts a record dated now
func (s *PostgresStore) Create(ctx context.Context, in records.Input) (*records.Record, error) {
	return s.CreateAt(ctx, in, time.Now())
}

// CreateAt inserts a record with an explicit date
func (s *PostgresStore) CreateAt(ctx context.Context, in records.Input, date time.Time) (*records.Record, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx,
		`INSERT INTO gym_records (exercise, weight, date) VALUES ($1, $2, $3)
		 RETURNING `+postgresColumns,
		in.Exercise, in.Weight, date)
	return scanPostgresRecord(row)
}

// Update replaces exercise and weight of record id
func (s *PostgresStore) Update(ctx context.Context, id int64, in records.Input) (*records.Record, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx,
		`UPDATE gym_records SET exercise = $1, weight = $2 WHERE id = $3 RETURNING `+postgresColumns,
		in.Exercise, in.Weight, id)
	return scanPostgresRecord(row)
}

// Patch updates only the fields set in p
func (s *PostgresStore) Patch(ctx context.Context, id int64, p records.Patch) (*records.Record, error) {
	if err := validatePatch(p); err != nil {
		return nil, err
	}
	row := s.db.QueryRow(ctx,
		`UPDATE gym_records
		 SET exercise = COALESCE($1::text, exercise), weight = COALESCE($2::integer, weight)
		 WHERE id = $3 RETURNING `+postgresColumns,
		p.Exercise, p.Weight, id)
	return scanPostgresRecord(row)
}

// Delete removes record id and returns it
func (s *PostgresStore) Delete(ctx context.Context, id int64) (*records.Record, error) {
	row := s.db.QueryRow(ctx,
		`DELETE FROM gym_records WHERE id = $1 RETURNING `+postgresColumns, id)
	return scanPostgresRecord(row)
}

func scanPostgresRecord(row pgx.Row) (*records.Record, error) {
	var r records.Record
	var date time.Time
	if err := row.Scan(&r.ID, &r.Exercise, &r.Weight, &date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	r.Date = records.NewTimestamp(date)
	return &r, nil
}

func collectPostgresRows(rows pgx.Rows) ([]records.Record, error) {
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (records.Record, error) {
		r, err := scanPostgresRecord(row)
		if err != nil {
			return records.Record{}, err
		}
		return *r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect records: %w", err)
	}
	return out, nil
}
