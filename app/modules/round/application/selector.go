package roundservice

import (
	"math/rand/v2"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
)

// Randomizer is the source of randomness for round selection.
type Randomizer interface {
	IntN(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int { return rand.IntN(n) }

// DefaultRandomizer draws from the process-wide math/rand/v2 source.
func DefaultRandomizer() Randomizer { return defaultRandomizer{} }

// NewSeededRandomizer returns a deterministic Randomizer for replays.
func NewSeededRandomizer(seed uint64) Randomizer {
	return rand.New(rand.NewPCG(seed, seed))
}

// Selector rolls the pair of countries shown in a round.
type Selector struct {
	rng Randomizer
}

// NewSelector creates a Selector. A nil rng uses DefaultRandomizer.
func NewSelector(rng Randomizer) *Selector {
	if rng == nil {
		rng = DefaultRandomizer()
	}
	return &Selector{rng: rng}
}

// Select returns the next pair. Missing previous countries are drawn first,
// then exactly one side is re-rolled on a coin flip, repeating until the two
// differ. One side of the previous pair is therefore carried over.
//
// The catalog must hold at least two distinct countries or Select never
// returns; see HasDistinctPair.
func (s *Selector) Select(prev1, prev2 *catalogdomain.Country, catalog catalogdomain.Catalog) (catalogdomain.Country, catalogdomain.Country) {
	var first, second catalogdomain.Country
	haveFirst, haveSecond := prev1 != nil, prev2 != nil
	if haveFirst {
		first = *prev1
	}
	if haveSecond {
		second = *prev2
	}

	for {
		if !haveFirst {
			first = s.pick(catalog)
			haveFirst = true
		}
		if !haveSecond {
			second = s.pick(catalog)
			haveSecond = true
		}

		if s.rng.IntN(2) == 0 {
			first = s.pick(catalog)
		} else {
			second = s.pick(catalog)
		}

		if first != second {
			return first, second
		}
	}
}

func (s *Selector) pick(catalog catalogdomain.Catalog) catalogdomain.Country {
	return catalog[s.rng.IntN(len(catalog))]
}

// HasDistinctPair reports whether catalog holds two countries that differ.
func HasDistinctPair(catalog catalogdomain.Catalog) bool {
	for i := 1; i < len(catalog); i++ {
		if catalog[i] != catalog[0] {
			return true
		}
	}
	return false
}
