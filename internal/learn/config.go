package learn

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/fraction"
)

// Config configures bucket selection.
type Config struct {
	// BucketSize is the target number of due questions kept in rotation.
	BucketSize int

	// MasteryThreshold is the mastery score at or above which a question is
	// considered learned and no longer served.
	MasteryThreshold fraction.Fraction

	// Logger receives bucket rebuild and answer events. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns a bucket of 20 questions and a 9/10 threshold.
func DefaultConfig() Config {
	return Config{
		BucketSize:       20,
		MasteryThreshold: fraction.MustNew(9, 10),
	}
}

// Validate checks the bucket size and that the threshold lies in (0, 1].
func (c Config) Validate() error {
	if c.BucketSize < 1 {
		return fmt.Errorf("bucket size must be positive, got %d", c.BucketSize)
	}
	if c.MasteryThreshold.Sign() <= 0 || c.MasteryThreshold.Cmp(fraction.One) > 0 {
		return fmt.Errorf("mastery threshold must be in (0, 1], got %s", c.MasteryThreshold)
	}
	return nil
}
