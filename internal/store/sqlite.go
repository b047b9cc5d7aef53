package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/muurk/gymlog/internal/records"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS gym_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exercise TEXT NOT NULL,
		weight INTEGER NOT NULL,
		date TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_gym_records_exercise ON gym_records(exercise);
`

const sqliteColumns = `id, exercise, weight, date`

// sqliteDriver is go-sqlite3 with fold_case registered on every connection.
// SQLite's built-in lower() only folds ASCII, so searches compare exercise
// names lowered by Go instead.
const sqliteDriver = "sqlite3_gymlog"

func init() {
	sql.Register(sqliteDriver, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold_case", strings.ToLower, true)
		},
	})
}

// SQLiteStore keeps records in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		path = ":memory:"
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One connection: an in-memory database exists per connection, and
	// SQLite serializes writers anyway
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// All returns every record in ID order
func (s *SQLiteStore) All(ctx context.Context) ([]records.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+sqliteColumns+` FROM gym_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return scanSQLiteRows(rows)
}

// Page returns one page of records in ID order
func (s *SQLiteStore) Page(ctx context.Context, page, size int) (*records.Page, error) {
	offset, err := checkPage(page, size)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gym_records`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM gym_records ORDER BY id LIMIT ? OFFSET ?`,
		size, offset)
	if err != nil {
		return nil, fmt.Errorf("page records: %w", err)
	}
	content, err := scanSQLiteRows(rows)
	if err != nil {
		return nil, err
	}

	return newPage(content, total, page, size), nil
}

// Search returns one page of records whose exercise contains query
func (s *SQLiteStore) Search(ctx context.Context, query string, page, size int) (*records.Page, error) {
	offset, err := checkPage(page, size)
	if err != nil {
		return nil, err
	}
	pattern := likePattern(query)

	var total int64
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM gym_records WHERE fold_case(exercise) LIKE ? ESCAPE '\'`,
		pattern).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count search results: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteColumns+` FROM gym_records
		 WHERE fold_case(exercise) LIKE ? ESCAPE '\'
		 ORDER BY id LIMIT ? OFFSET ?`,
		pattern, size, offset)
	if err != nil {
		return nil, fmt.Errorf("search records: %w", err)
	}
	content, err := scanSQLiteRows(rows)
	if err != nil {
		return nil, err
	}

	return newPage(content, total, page, size), nil
}

// Get returns the record with id
func (s *SQLiteStore) Get(ctx context.Context, id int64) (*records.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sqliteColumns+` FROM gym_records WHERE id = ?`, id)
	return scanSQLiteRecord(row)
}

// Create inserts a record dated now
func (s *SQLiteStore) Create(ctx context.Context, in records.Input) (*records.Record, error) {
	return s.CreateAt(ctx, in, time.Now())
}

// CreateAt inserts a record with an explicit date. Seeding uses it to
// spread records over the past year.
func (s *SQLiteStore) CreateAt(ctx context.Context, in records.Input, date time.Time) (*records.Record, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO gym_records (exercise, weight, date) VALUES (?, ?, ?)
		 RETURNING `+sqliteColumns,
		in.Exercise, in.Weight, date.UTC())
	return scanSQLiteRecord(row)
}

// Update replaces exercise and weight of record id
func (s *SQLiteStore) Update(ctx context.Context, id int64, in records.Input) (*records.Record, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE gym_records SET exercise = ?, weight = ? WHERE id = ? RETURNING `+sqliteColumns,
		in.Exercise, in.Weight, id)
	return scanSQLiteRecord(row)
}

// Patch updates only the fields set in p
func (s *SQLiteStore) Patch(ctx context.Context, id int64, p records.Patch) (*records.Record, error) {
	if err := validatePatch(p); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		`UPDATE gym_records
		 SET exercise = COALESCE(?, exercise), weight = COALESCE(?, weight)
		 WHERE id = ? RETURNING `+sqliteColumns,
		p.Exercise, p.Weight, id)
	return scanSQLiteRecord(row)
}

// Delete removes record id and returns it
func (s *SQLiteStore) Delete(ctx context.Context, id int64) (*records.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`DELETE FROM gym_records WHERE id = ? RETURNING `+sqliteColumns, id)
	return scanSQLiteRecord(row)
}

// sqliteTime scans a date column. Columns produced by RETURNING carry no
// declared type, so the driver may hand back text instead of a time.Time.
type sqliteTime struct {
	time.Time
}

func (t *sqliteTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("unsupported date value %T", src)
	}
}

func (t *sqliteTime) parse(s string) error {
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

func scanSQLiteRecord(row *sql.Row) (*records.Record, error) {
	var r records.Record
	var date sqliteTime
	if err := row.Scan(&r.ID, &r.Exercise, &r.Weight, &date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan record: %w", err)
	}
	r.Date = records.NewTimestamp(date.Time)
	return &r, nil
}

func scanSQLiteRows(rows *sql.Rows) ([]records.Record, error) {
	defer func() { _ = rows.Close() }()

	var out []records.Record
	for rows.Next() {
		var r records.Record
		var date sqliteTime
		if err := rows.Scan(&r.ID, &r.Exercise, &r.Weight, &date); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Date = records.NewTimestamp(date.Time)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}
