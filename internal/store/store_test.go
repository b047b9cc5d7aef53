package store

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/muurk/gymlog/internal/records"
)

// PostgresEnvVar names a DSN for running the repository tests against
// PostgreSQL as well
const PostgresEnvVar = "GYMLOG_TEST_POSTGRES"

// repositories returns every backend available in this environment, each
// with an empty collection
func repositories(t *testing.T) map[string]Repository {
	t.Helper()
	ctx := context.Background()

	repos := map[string]Repository{}

	mem, err := OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = mem.Close() })
	repos["sqlite"] = mem

	if dsn := os.Getenv(PostgresEnvVar); dsn != "" {
		pg, err := OpenPostgres(ctx, dsn)
		if err != nil {
			t.Fatalf("OpenPostgres() error = %v", err)
		}
		if _, err := pg.Pool().Exec(ctx, `TRUNCATE gym_records RESTART IDENTITY`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		t.Cleanup(func() { _ = pg.Close() })
		repos["postgres"] = pg
	}

	return repos
}

func create(t *testing.T, repo Repository, exercise string, weight int) *records.Record {
	t.Helper()
	rec, err := repo.Create(context.Background(), records.Input{Exercise: exercise, Weight: weight})
	if err != nil {
		t.Fatalf("Create(%q) error = %v", exercise, err)
	}
	return rec
}

func TestRepository_CRUD(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			rec := create(t, repo, "Squat", 100)
			if rec.ID == 0 {
				t.Fatal("Create() did not assign an ID")
			}
			if rec.Date.IsZero() {
				t.Error("Create() did not assign a date")
			}

			got, err := repo.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.Exercise != "Squat" || got.Weight != 100 {
				t.Errorf("Get() = %+v", got)
			}

			updated, err := repo.Update(ctx, rec.ID, records.Input{Exercise: "Front Squat", Weight: 90})
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if updated.ID != rec.ID || updated.Exercise != "Front Squat" || updated.Weight != 90 {
				t.Errorf("Update() = %+v", updated)
			}

			w := 95
			patched, err := repo.Patch(ctx, rec.ID, records.Patch{Weight: &w})
			if err != nil {
				t.Fatalf("Patch() error = %v", err)
			}
			if patched.Exercise != "Front Squat" || patched.Weight != 95 {
				t.Errorf("Patch() = %+v", patched)
			}

			deleted, err := repo.Delete(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if deleted.ID != rec.ID || deleted.Weight != 95 {
				t.Errorf("Delete() = %+v", deleted)
			}

			if _, err := repo.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			in := records.Input{Exercise: "Row", Weight: 50}
			name := "Row"

			if _, err := repo.Update(ctx, 404, in); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update() error = %v, want ErrNotFound", err)
			}
			if _, err := repo.Patch(ctx, 404, records.Patch{Exercise: &name}); !errors.Is(err, ErrNotFound) {
				t.Errorf("Patch() error = %v, want ErrNotFound", err)
			}
			if _, err := repo.Delete(ctx, 404); !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestRepository_RejectsInvalidInput(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Create(context.Background(), records.Input{Exercise: "", Weight: 10})
			if !records.IsValidationError(err) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}

func TestRepository_Page(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			empty, err := repo.Page(ctx, 0, 5)
			if err != nil {
				t.Fatalf("Page() error = %v", err)
			}
			if empty.TotalPages != 0 || len(empty.Content) != 0 || empty.Content == nil {
				t.Errorf("empty Page() = %+v", empty)
			}

			var ids []int64
			for i := 0; i < 11; i++ {
				ids = append(ids, create(t, repo, "Bench", 60+i).ID)
			}

			tests := []struct {
				page      int
				wantIDs   []int64
				wantPages int
			}{
				{0, ids[0:5], 3},
				{1, ids[5:10], 3},
				{2, ids[10:11], 3},
				{3, nil, 3},
			}
			for _, tt := range tests {
				p, err := repo.Page(ctx, tt.page, 5)
				if err != nil {
					t.Fatalf("Page(%d) error = %v", tt.page, err)
				}
				if p.TotalPages != tt.wantPages {
					t.Errorf("Page(%d).TotalPages = %d, want %d", tt.page, p.TotalPages, tt.wantPages)
				}
				if total, ok := p.Total(); !ok || total != 11 {
					t.Errorf("Page(%d).Total() = %d, %v", tt.page, total, ok)
				}
				if len(p.Content) != len(tt.wantIDs) {
					t.Fatalf("Page(%d) returned %d records, want %d", tt.page, len(p.Content), len(tt.wantIDs))
				}
				for i, id := range tt.wantIDs {
					if p.Content[i].ID != id {
						t.Errorf("Page(%d)[%d].ID = %d, want %d", tt.page, i, p.Content[i].ID, id)
					}
				}
			}

			if _, err := repo.Page(ctx, -1, 5); !errors.Is(err, ErrInvalidPage) {
				t.Errorf("Page(-1) error = %v, want ErrInvalidPage", err)
			}
			if _, err := repo.Page(ctx, 0, 0); !errors.Is(err, ErrInvalidPage) {
				t.Errorf("Page(size 0) error = %v, want ErrInvalidPage", err)
			}
		})
	}
}

func TestRepository_Search(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			create(t, repo, "Squat", 100)
			create(t, repo, "Front SQUAT", 80)
			create(t, repo, "Bench", 60)
			create(t, repo, "100%_effort", 1)

			tests := []struct {
				query string
				want  int
			}{
				{"squat", 2},
				{"SQU", 2},
				{"bench", 1},
				{"deadlift", 0},
				{"%", 1},
				{"_", 1},
				{"", 4},
			}
			for _, tt := range tests {
				p, err := repo.Search(ctx, tt.query, 0, 10)
				if err != nil {
					t.Fatalf("Search(%q) error = %v", tt.query, err)
				}
				if len(p.Content) != tt.want {
					t.Errorf("Search(%q) returned %d records, want %d", tt.query, len(p.Content), tt.want)
				}
			}

			p, err := repo.Search(ctx, "squat", 1, 1)
			if err != nil {
				t.Fatalf("Search page 2 error = %v", err)
			}
			if p.TotalPages != 2 || len(p.Content) != 1 || p.Content[0].Exercise != "Front SQUAT" {
				t.Errorf("Search page 2 = %+v", p)
			}
		})
	}
}

func TestRepository_All(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			create(t, repo, "A", 1)
			create(t, repo, "B", 2)

			all, err := repo.All(context.Background())
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(all) != 2 || all[0].Exercise != "A" || all[1].Exercise != "B" {
				t.Errorf("All() = %+v", all)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := Seed(ctx, repo, 25, rand.New(rand.NewSource(1))); err != nil {
				t.Fatalf("Seed() error = %v", err)
			}

			all, err := repo.All(ctx)
			if err != nil {
				t.Fatalf("All() error = %v", err)
			}
			if len(all) != 25 {
				t.Fatalf("seeded %d records, want 25", len(all))
			}
			for _, r := range all {
				if r.Weight < 10 || r.Weight > 109 {
					t.Errorf("weight %d out of range", r.Weight)
				}
				if r.Date.IsZero() {
					t.Error("seeded record without a date")
				}
			}
		})
	}
}

func TestSQLiteSearch_FoldsUnicodeCase(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenSQLite(ctx, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer func() { _ = repo.Close() }()

	create(t, repo, "ÜBUNG KNIEBEUGE", 90)
	create(t, repo, "Écarté Raise", 12)
	create(t, repo, "Squat", 100)

	tests := []struct {
		query string
		want  int
	}{
		{"übung", 1},
		{"ÜBUNG", 1},
		{"écarté", 1},
		{"ÉCARTÉ", 1},
		{"squat", 1},
	}
	for _, tt := range tests {
		p, err := repo.Search(ctx, tt.query, 0, 10)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", tt.query, err)
		}
		if len(p.Content) != tt.want {
			t.Errorf("Search(%q) returned %d records, want %d", tt.query, len(p.Content), tt.want)
		}
	}
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gymlog.db")
	ctx := context.Background()

	repo, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	create(t, repo, "Squat", 100)
	_ = repo.Close()

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	all, err := reopened.All(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("All() after reopen = %v, %v", all, err)
	}
}

func TestIsPostgresDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want bool
	}{
		{"postgres://user@localhost/gym", true},
		{"postgresql://localhost/gym", true},
		{"gymlog.db", false},
		{":memory:", false},
	}
	for _, tt := range tests {
		if got := IsPostgresDSN(tt.dsn); got != tt.want {
			t.Errorf("IsPostgresDSN(%q) = %v, want %v", tt.dsn, got, tt.want)
		}
	}
}
