package scoredb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the persistence surface of the leaderboard.
// A nil db runs the statement on the repository's own connection.
type Repository interface {
	EnsureSchema(ctx context.Context, db bun.IDB) error
	SaveScore(ctx context.Context, db bun.IDB, username string, score int) (*ScoreRecord, error)
	TopScores(ctx context.Context, db bun.IDB, n int) ([]ScoreRecord, error)
}

var _ Repository = (*ScoreDBImpl)(nil)
