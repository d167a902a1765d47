package scoredomain

import (
	"fmt"

	"github.com/Black-And-White-Club/poptrivia/app/shared/format"
)

// UserScore is one finished game on the leaderboard.
type UserScore struct {
	Username string
	Score    int
}

// String renders the leaderboard line with the default locale.
func (s UserScore) String() string {
	return fmt.Sprintf("%s scored %s", s.Username, format.Number(int64(s.Score), format.DefaultLocale))
}
