package mastery

import (
	"fmt"
	"time"

	"github.com/abhisek/quizbucket/internal/fraction"
)

// Attempt records one answer to a question. Attempts are values and are
// never modified after creation.
type Attempt struct {
	Timestamp time.Time
	Duration  time.Duration
	Rate      fraction.Fraction
}

// NewAttempt builds an attempt, rejecting rates outside [0, 1].
func NewAttempt(at time.Time, took time.Duration, rate fraction.Fraction) (Attempt, error) {
	if rate.Sign() < 0 || rate.Cmp(fraction.One) > 0 {
		return Attempt{}, fmt.Errorf("rate %s outside [0, 1]", rate)
	}
	return Attempt{Timestamp: at, Duration: took, Rate: rate}, nil
}

// Equal compares timestamps at second precision, which is what the stats
// file keeps.
func (a Attempt) Equal(b Attempt) bool {
	return a.Timestamp.Unix() == b.Timestamp.Unix() &&
		a.Duration == b.Duration &&
		a.Rate.Equal(b.Rate)
}
