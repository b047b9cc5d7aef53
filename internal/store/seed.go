package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/muurk/gymlog/internal/records"
)

// SeedExercises are the exercise names used for generated records
var SeedExercises = []string{
	"Squat",
	"Bench Press",
	"Deadlift",
	"Overhead Press",
	"Barbell Row",
}

// datedCreator is implemented by stores that accept an explicit date
type datedCreator interface {
	CreateAt(ctx context.Context, in records.Input, date time.Time) (*records.Record, error)
}

// Seed inserts n random records: a random exercise, a weight between 10 and
// 109 kg and a date within the last year.
func Seed(ctx context.Context, repo Repository, n int, rng *rand.Rand) error {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	dated, canDate := repo.(datedCreator)
	now := time.Now()

	for i := 0; i < n; i++ {
		in := records.Input{
			Exercise: SeedExercises[rng.Intn(len(SeedExercises))],
			Weight:   10 + rng.Intn(100),
		}

		var err error
		if canDate {
			_, err = dated.CreateAt(ctx, in, now.AddDate(0, 0, -rng.Intn(365)))
		} else {
			_, err = repo.Create(ctx, in)
		}
		if err != nil {
			return fmt.Errorf("seed record %d: %w", i+1, err)
		}
	}

	return nil
}
