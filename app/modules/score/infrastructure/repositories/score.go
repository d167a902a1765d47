package scoredb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type ScoreDBImpl struct {
	DB *bun.DB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db *bun.DB) Repository {
	return &ScoreDBImpl{DB: db}
}

func (r *ScoreDBImpl) idb(db bun.IDB) bun.IDB {
	if db == nil {
		return r.DB
	}
	return db
}

// EnsureSchema creates the leaderboard table if it does not exist yet.
func (r *ScoreDBImpl) EnsureSchema(ctx context.Context, db bun.IDB) error {
	if _, err := r.idb(db).NewCreateTable().Model((*ScoreRecord)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return nil
}

// SaveScore appends one row. Usernames are not unique.
func (r *ScoreDBImpl) SaveScore(ctx context.Context, db bun.IDB, username string, score int) (*ScoreRecord, error) {
	record := &ScoreRecord{Username: username, Score: score}

	res, err := r.idb(db).NewInsert().
		Model(record).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert score for %s: %w", username, err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, fmt.Errorf("failed to insert score for %s: %w", username, ErrNoRowsAffected)
	}
	return record, nil
}

// TopScores returns up to n rows, highest score first. Equal scores keep
// insertion order. n <= 0 yields an empty slice.
func (r *ScoreDBImpl) TopScores(ctx context.Context, db bun.IDB, n int) ([]ScoreRecord, error) {
	records := make([]ScoreRecord, 0)
	if n <= 0 {
		return records, nil
	}

	err := r.idb(db).NewSelect().
		Model(&records).
		OrderExpr("score DESC").
		OrderExpr("id ASC").
		Limit(n).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top %d scores: %w", n, err)
	}
	return records, nil
}
