package scoreservice

import (
	"context"
	"time"

	scoredb "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

// FakeScoreRepository provides a programmable stub for the scoredb.Repository interface.
type FakeScoreRepository struct {
	trace []string

	EnsureSchemaFunc func(ctx context.Context, db bun.IDB) error
	SaveScoreFunc    func(ctx context.Context, db bun.IDB, username string, score int) (*scoredb.ScoreRecord, error)
	TopScoresFunc    func(ctx context.Context, db bun.IDB, n int) ([]scoredb.ScoreRecord, error)
	LastSaved        *scoredb.ScoreRecord
	LastDB           bun.IDB
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoreRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepository) EnsureSchema(ctx context.Context, db bun.IDB) error {
	f.record("EnsureSchema")
	if f.EnsureSchemaFunc != nil {
		return f.EnsureSchemaFunc(ctx, db)
	}
	return nil
}

func (f *FakeScoreRepository) SaveScore(ctx context.Context, db bun.IDB, username string, score int) (*scoredb.ScoreRecord, error) {
	f.record("SaveScore")
	f.LastDB = db
	if f.SaveScoreFunc != nil {
		return f.SaveScoreFunc(ctx, db, username, score)
	}
	f.LastSaved = &scoredb.ScoreRecord{ID: int64(len(f.trace)), Username: username, Score: score}
	return f.LastSaved, nil
}

func (f *FakeScoreRepository) TopScores(ctx context.Context, db bun.IDB, n int) ([]scoredb.ScoreRecord, error) {
	f.record("TopScores")
	if f.TopScoresFunc != nil {
		return f.TopScoresFunc(ctx, db, n)
	}
	return []scoredb.ScoreRecord{}, nil
}

// ------------------------
// Fake Metrics
// ------------------------

// FakeMetrics counts operation outcomes by name.
type FakeMetrics struct {
	metrics.NoOpMetrics

	Attempts  map[string]int
	Successes map[string]int
	Failures  map[string]int
	Durations map[string]int
}

func NewFakeMetrics() *FakeMetrics {
	return &FakeMetrics{
		Attempts:  map[string]int{},
		Successes: map[string]int{},
		Failures:  map[string]int{},
		Durations: map[string]int{},
	}
}

func (f *FakeMetrics) RecordOperationAttempt(_ context.Context, op string) { f.Attempts[op]++ }
func (f *FakeMetrics) RecordOperationSuccess(_ context.Context, op string) { f.Successes[op]++ }
func (f *FakeMetrics) RecordOperationFailure(_ context.Context, op string) { f.Failures[op]++ }
func (f *FakeMetrics) RecordOperationDuration(_ context.Context, op string, _ time.Duration) {
	f.Durations[op]++
}

// Ensure the fakes actually satisfy the interfaces
var (
	_ scoredb.Repository = (*FakeScoreRepository)(nil)
	_ metrics.Metrics    = (*FakeMetrics)(nil)
)
