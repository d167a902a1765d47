package scoredb

import "github.com/uptrace/bun"

// TableName is the leaderboard table. The name predates the score module and
// is kept so existing databases keep working.
const TableName = "country_information"

// ScoreRecord is one persisted leaderboard row.
type ScoreRecord struct {
	bun.BaseModel `bun:"table:country_information,alias:ci"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Username string `bun:"username,notnull"`
	Score    int    `bun:"score,notnull"`
}
