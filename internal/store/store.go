// Package store persists gym records for the reference record server.
//
// Two backends implement Repository: SQLite (the default, also used for
// in-memory test databases) and PostgreSQL through a pgx connection pool.
// Records are listed in ID order so new records always land on the last
// page.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/muurk/gymlog/internal/records"
)

var (
	// ErrNotFound is returned when no record has the requested ID
	ErrNotFound = errors.New("record not found")

	// ErrInvalidPage is returned for a negative page index or a page size
	// below one
	ErrInvalidPage = errors.New("invalid page request")
)

// MaxPageSize bounds the size parameter of paged queries
const MaxPageSize = 1000

// Repository is the record collection behind the HTTP API.
// Implementations are safe for concurrent use.
type Repository interface {
	// All returns every record in ID order
	All(ctx context.Context) ([]records.Record, error)

	// Page returns page (0-based) of size records
	Page(ctx context.Context, page, size int) (*records.Page, error)

	// Search returns page (0-based) of the records whose exercise contains
	// query, ignoring case
	Search(ctx context.Context, query string, page, size int) (*records.Page, error)

	Get(ctx context.Context, id int64) (*records.Record, error)
	Create(ctx context.Context, in records.Input) (*records.Record, error)
	Update(ctx context.Context, id int64, in records.Input) (*records.Record, error)
	Patch(ctx context.Context, id int64, p records.Patch) (*records.Record, error)

	// Delete removes a record and returns it as it was
	Delete(ctx context.Context, id int64) (*records.Record, error)

	Close() error
}

// Open connects to the database named by dsn. postgres:// and postgresql://
// URLs use PostgreSQL; anything else is a SQLite file path (":memory:" for a
// throwaway database).
func Open(ctx context.Context, dsn string) (Repository, error) {
	if IsPostgresDSN(dsn) {
		return OpenPostgres(ctx, dsn)
	}
	return OpenSQLite(ctx, dsn)
}

// IsPostgresDSN reports whether dsn selects the PostgreSQL backend
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// checkPage validates paging parameters and returns the row offset
func checkPage(page, size int) (int, error) {
	if page < 0 {
		return 0, fmt.Errorf("%w: page %d", ErrInvalidPage, page)
	}
	if size < 1 || size > MaxPageSize {
		return 0, fmt.Errorf("%w: size %d", ErrInvalidPage, size)
	}
	return page * size, nil
}

// newPage assembles a page response. totalPages is 0 for an empty result.
func newPage(content []records.Record, total int64, page, size int) *records.Page {
	if content == nil {
		content = []records.Record{}
	}
	totalPages := int((total + int64(size) - 1) / int64(size))
	return &records.Page{
		Content:       content,
		TotalPages:    totalPages,
		TotalElements: &total,
		Number:        page,
		Size:          size,
	}
}

// likePattern builds a case-insensitive substring pattern for LIKE with '\'
// as the escape character
func likePattern(query string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(query)) + "%"
}

func validateInput(in records.Input) error {
	if err := records.JoinValidationErrors(records.ValidateInput(in)); err != nil {
		return err
	}
	return nil
}

func validatePatch(p records.Patch) error {
	if err := records.JoinValidationErrors(records.ValidatePatch(p)); err != nil {
		return err
	}
	return nil
}
