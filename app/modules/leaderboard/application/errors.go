package leaderboardservice

import "errors"

// ErrNoOutput is returned when an export is asked for without a destination.
var ErrNoOutput = errors.New("no output path given")
