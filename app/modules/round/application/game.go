package roundservice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"github.com/Black-And-White-Club/poptrivia/app/shared/format"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	roundQuestion    = "Which country has the largest population?\n1. %s\n2. %s\n"
	continueQuestion = "Would you like to continue? (y/n) "
)

// Prompter asks a question until one of choices is answered.
type Prompter interface {
	Choose(question string, normalize func(string) string, choices ...string) (string, error)
}

// State is a step of the game loop.
type State int

const (
	StateAwaitingRound State = iota
	StateAwaitingGuess
	StateEvaluated
	StateContinue
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateAwaitingRound:
		return "awaiting_round"
	case StateAwaitingGuess:
		return "awaiting_guess"
	case StateEvaluated:
		return "evaluated"
	case StateContinue:
		return "continue"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Game runs rounds until the player guesses wrong or opts out.
type Game struct {
	catalog   catalogdomain.Catalog
	selector  *Selector
	prompter  Prompter
	out       io.Writer
	formatter *format.NumberFormatter
	logger    *slog.Logger
	metrics   metrics.Metrics
	tracer    trace.Tracer

	state  State
	score  int
	first  *catalogdomain.Country
	second *catalogdomain.Country
	guess  Guess
}

// NewGame creates a Game over catalog. Output goes to out.
func NewGame(
	catalog catalogdomain.Catalog,
	selector *Selector,
	prompter Prompter,
	out io.Writer,
	formatter *format.NumberFormatter,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
) *Game {
	if formatter == nil {
		formatter = format.NewNumberFormatter(format.DefaultLocale)
	}
	return &Game{
		catalog:   catalog,
		selector:  selector,
		prompter:  prompter,
		out:       out,
		formatter: formatter,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		state:     StateAwaitingRound,
	}
}

// State reports where the loop currently is.
func (g *Game) State() State { return g.state }

// Score reports the number of correct guesses so far.
func (g *Game) Score() int { return g.score }

// Play drives the loop to completion and returns the final score.
func (g *Game) Play(ctx context.Context) (int, error) {
	ctx, span := g.tracer.Start(ctx, "Game.Play", trace.WithAttributes(
		attribute.Int("catalog_size", len(g.catalog)),
	))
	defer span.End()

	if !HasDistinctPair(g.catalog) {
		span.RecordError(ErrCatalogTooSmall)
		return 0, fmt.Errorf("%w: got %d entries", ErrCatalogTooSmall, len(g.catalog))
	}

	for g.state != StateStopped {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return g.score, err
		}
		if err := g.step(ctx); err != nil {
			span.RecordError(err)
			return g.score, err
		}
	}

	span.SetAttributes(attribute.Int("score", g.score))
	g.metrics.RecordFinalScore(ctx, g.score)
	return g.score, nil
}

func (g *Game) step(ctx context.Context) error {
	switch g.state {
	case StateAwaitingRound:
		first, second := g.selector.Select(g.first, g.second, g.catalog)
		g.first, g.second = &first, &second
		g.metrics.RecordRound(ctx)
		g.logger.DebugContext(ctx, "Round selected",
			attr.ExtractCorrelationID(ctx),
			attr.String("first", first.Name),
			attr.String("second", second.Name),
			attr.Int("score", g.score),
		)
		g.state = StateAwaitingGuess

	case StateAwaitingGuess:
		answer, err := g.prompter.Choose(
			fmt.Sprintf(roundQuestion, g.first.Name, g.second.Name),
			nil,
			string(GuessFirst), string(GuessSecond),
		)
		if err != nil {
			return fmt.Errorf("failed to read guess: %w", err)
		}
		g.guess = Guess(answer)
		g.state = StateEvaluated

	case StateEvaluated:
		correct := IsCorrect(*g.first, *g.second, g.guess)
		g.metrics.RecordGuess(ctx, correct)
		g.logger.DebugContext(ctx, "Guess evaluated",
			attr.ExtractCorrelationID(ctx),
			attr.String("guess", string(g.guess)),
			attr.Bool("correct", correct),
		)

		g.printf("%s\n", g.describe(*g.first))
		g.printf("%s\n", g.describe(*g.second))
		if !correct {
			g.printf("Incorrect!\n")
			g.state = StateStopped
			g.printf("Your score was %s.\n", g.formatter.Int(int64(g.score)))
			return nil
		}
		g.score++
		g.printf("Correct!\n")
		g.state = StateContinue

	case StateContinue:
		answer, err := g.prompter.Choose(continueQuestion, strings.ToLower, "y", "n")
		if err != nil {
			return fmt.Errorf("failed to read continue answer: %w", err)
		}
		if answer == "n" {
			g.state = StateStopped
			g.printf("Your score was %s.\n", g.formatter.Int(int64(g.score)))
			return nil
		}
		g.printf("Your current score is %s.\n", g.formatter.Int(int64(g.score)))
		g.state = StateAwaitingRound
	}
	return nil
}

func (g *Game) describe(c catalogdomain.Country) string {
	return fmt.Sprintf("%s has a population of %s", c.Name, g.formatter.Int(c.Population))
}

// Console writes are best effort; a broken terminal surfaces on the next prompt.
func (g *Game) printf(layout string, args ...any) {
	fmt.Fprintf(g.out, layout, args...)
}
