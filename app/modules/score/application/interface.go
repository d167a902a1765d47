package scoreservice

import (
	"context"

	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/Black-And-White-Club/poptrivia/app/shared/results"
)

type (
	SaveScoreResult = results.OperationResult[scoredomain.UserScore, error]
	TopScoresResult = results.OperationResult[[]scoredomain.UserScore, error]
)

// Service persists finished games and reads the leaderboard back.
type Service interface {
	EnsureSchema(ctx context.Context) error
	SaveScore(ctx context.Context, username string, score int) (SaveScoreResult, error)
	TopScores(ctx context.Context, n int) (TopScoresResult, error)
}

var _ Service = (*ScoreService)(nil)
