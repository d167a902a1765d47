package leaderboardservice

import (
	"fmt"
	"io"

	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/Black-And-White-Club/poptrivia/app/shared/format"
)

// Render writes one "<Username> scored <n>" line per score.
func Render(w io.Writer, scores []scoredomain.UserScore, formatter *format.NumberFormatter) error {
	if formatter == nil {
		formatter = format.NewNumberFormatter(format.DefaultLocale)
	}
	for _, s := range scores {
		if _, err := fmt.Fprintf(w, "%s scored %s\n", s.Username, formatter.Int(int64(s.Score))); err != nil {
			return fmt.Errorf("failed to write leaderboard: %w", err)
		}
	}
	return nil
}
