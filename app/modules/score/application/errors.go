package scoreservice

import "errors"

// Domain errors for the score service. They come back as failure results,
// not as Go errors.
var (
	// ErrInvalidUsername indicates the username is not exactly three characters.
	ErrInvalidUsername = errors.New("invalid username")

	// ErrInvalidScore indicates a negative score.
	ErrInvalidScore = errors.New("invalid score value")

	// ErrInvalidLimit indicates a negative leaderboard size.
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
)
