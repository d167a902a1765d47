package scoreservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/poptrivia/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/poptrivia/app/shared/console"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/attr"
	"github.com/Black-And-White-Club/poptrivia/app/shared/observability/metrics"
	"github.com/Black-And-White-Club/poptrivia/app/shared/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ScoreService implements the Service interface.
type ScoreService struct {
	repo    scoredb.Repository
	logger  *slog.Logger
	metrics metrics.Metrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewScoreService creates a new ScoreService. db may be nil, in which case
// writes run without an explicit transaction.
func NewScoreService(
	repo scoredb.Repository,
	logger *slog.Logger,
	metrics metrics.Metrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoreService {
	return &ScoreService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *ScoreService,
	ctx context.Context,
	operationName string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	s.logger.DebugContext(ctx, operationName+" triggered",
		attr.String("operation", operationName),
		attr.ExtractCorrelationID(ctx),
	)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_payload", *result.Failure),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
	}

	if result.IsSuccess() {
		s.logger.DebugContext(ctx, operationName+" completed successfully",
			attr.String("operation", operationName),
			attr.ExtractCorrelationID(ctx),
		)
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *ScoreService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}

// --- Service Methods ---

// EnsureSchema creates the leaderboard table when it is missing.
func (s *ScoreService) EnsureSchema(ctx context.Context) error {
	_, err := withTelemetry(s, ctx, "EnsureSchema", func(ctx context.Context) (results.OperationResult[struct{}, error], error) {
		if err := s.repo.EnsureSchema(ctx, nil); err != nil {
			return results.OperationResult[struct{}, error]{}, err
		}
		return results.SuccessResult[struct{}, error](struct{}{}), nil
	})
	return err
}

// SaveScore records a finished game.
func (s *ScoreService) SaveScore(ctx context.Context, username string, score int) (SaveScoreResult, error) {
	return withTelemetry(s, ctx, "SaveScore", func(ctx context.Context) (SaveScoreResult, error) {
		if utf8.RuneCountInString(username) != console.UsernameLength {
			return results.FailureResult[scoredomain.UserScore](fmt.Errorf("%w: %q", ErrInvalidUsername, username)), nil
		}
		if score < 0 {
			return results.FailureResult[scoredomain.UserScore](fmt.Errorf("%w: %d", ErrInvalidScore, score)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SaveScoreResult, error) {
			record, err := s.repo.SaveScore(ctx, db, username, score)
			if err != nil {
				return SaveScoreResult{}, err
			}
			s.logger.InfoContext(ctx, "Score saved",
				attr.ExtractCorrelationID(ctx),
				attr.String("username", record.Username),
				attr.Int("score", record.Score),
				attr.Int64("id", record.ID),
			)
			return results.SuccessResult[scoredomain.UserScore, error](toDomain(*record)), nil
		})
	})
}

// TopScores returns the n best games, highest first.
func (s *ScoreService) TopScores(ctx context.Context, n int) (TopScoresResult, error) {
	return withTelemetry(s, ctx, "TopScores", func(ctx context.Context) (TopScoresResult, error) {
		if n < 0 {
			return results.FailureResult[[]scoredomain.UserScore](fmt.Errorf("%w: %d", ErrInvalidLimit, n)), nil
		}

		records, err := s.repo.TopScores(ctx, nil, n)
		if err != nil {
			return TopScoresResult{}, err
		}

		scores := make([]scoredomain.UserScore, 0, len(records))
		for _, r := range records {
			scores = append(scores, toDomain(r))
		}
		return results.SuccessResult[[]scoredomain.UserScore, error](scores), nil
	})
}

func toDomain(r scoredb.ScoreRecord) scoredomain.UserScore {
	return scoredomain.UserScore{Username: r.Username, Score: r.Score}
}
