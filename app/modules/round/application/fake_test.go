package roundservice

import (
	"context"
	"testing"

	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
)

// ------------------------
// Scripted Randomizer
// ------------------------

// scriptedRandomizer returns preset values in order and fails the test when
// it runs out or a value is out of range.
type scriptedRandomizer struct {
	t      *testing.T
	values []int
	calls  []int
}

func newScripted(t *testing.T, values ...int) *scriptedRandomizer {
	t.Helper()
	return &scriptedRandomizer{t: t, values: values}
}

func (r *scriptedRandomizer) IntN(n int) int {
	if len(r.values) == 0 {
		r.t.Fatalf("randomizer exhausted after %d calls", len(r.calls))
	}
	v := r.values[0]
	r.values = r.values[1:]
	if v < 0 || v >= n {
		r.t.Fatalf("scripted value %d out of range [0,%d)", v, n)
	}
	r.calls = append(r.calls, n)
	return v
}

// ------------------------
// Fake Metrics
// ------------------------

// FakeMetrics records the game-related calls it receives.
type FakeMetrics struct {
	metrics.NoOpMetrics

	Rounds      int
	Guesses     []bool
	FinalScores []int
}

func (f *FakeMetrics) RecordRound(context.Context) { f.Rounds++ }

func (f *FakeMetrics) RecordGuess(_ context.Context, correct bool) {
	f.Guesses = append(f.Guesses, correct)
}

func (f *FakeMetrics) RecordFinalScore(_ context.Context, score int) {
	f.FinalScores = append(f.FinalScores, score)
}

// ------------------------
// Fake Prompter
// ------------------------

// FakePrompter answers Choose from a queue without validating.
type FakePrompter struct {
	Questions  []string
	ChooseFunc func(question string) (string, error)
}

func (f *FakePrompter) Choose(question string, _ func(string) string, _ ...string) (string, error) {
	f.Questions = append(f.Questions, question)
	return f.ChooseFunc(question)
}

var (
	_ Randomizer      = (*scriptedRandomizer)(nil)
	_ Prompter        = (*FakePrompter)(nil)
	_ metrics.Metrics = (*FakeMetrics)(nil)
)
