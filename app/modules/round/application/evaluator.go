package roundservice

import catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"

// Guess is the player's pick for a round.
type Guess string

const (
	GuessFirst  Guess = "1"
	GuessSecond Guess = "2"
)

// IsCorrect reports whether guess names a country with the larger population.
// A tie is correct for either side. Unknown guesses are incorrect.
func IsCorrect(c1, c2 catalogdomain.Country, guess Guess) bool {
	switch guess {
	case GuessFirst:
		return c1.Population >= c2.Population
	case GuessSecond:
		return c2.Population >= c1.Population
	default:
		return false
	}
}
