// Package fraction implements exact rational numbers over int64 pairs.
//
// Scores and mastery averages are compared against thresholds and written
// to disk, so they are never represented as floating point.
package fraction

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrZeroDenominator is returned when a fraction would have a zero denominator.
var ErrZeroDenominator = errors.New("zero denominator")

// ErrOverflow is returned when an exact result does not fit in int64.
var ErrOverflow = errors.New("fraction out of int64 range")

// Fraction is an exact rational number kept in lowest terms with a positive
// denominator. The zero value is 0/1. The numerator is never math.MinInt64,
// so negation cannot overflow.
type Fraction struct {
	num int64
	den int64 // 0 means 1, so the zero value is usable
}

var (
	Zero = Fraction{num: 0, den: 1}
	One  = Fraction{num: 1, den: 1}
)

// New returns num/den reduced to lowest terms.
func New(num, den int64) (Fraction, error) {
	if den == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return fromRat(new(big.Rat).SetFrac64(num, den))
}

// MustNew is like New but panics on a zero denominator or overflow.
// Intended for constants and tests.
func MustNew(num, den int64) Fraction {
	f, err := New(num, den)
	if err != nil {
		panic(fmt.Sprintf("fraction.MustNew(%d, %d): %v", num, den, err))
	}
	return f
}

// Int returns n/1. n must not be math.MinInt64.
func Int(n int64) Fraction {
	return Fraction{num: n, den: 1}
}

// Num returns the reduced numerator.
func (f Fraction) Num() int64 { return f.num }

// Den returns the reduced denominator, always positive.
func (f Fraction) Den() int64 {
	if f.den == 0 {
		return 1
	}
	return f.den
}

// Add returns f+g, or ErrOverflow when the reduced sum leaves int64.
func (f Fraction) Add(g Fraction) (Fraction, error) {
	return fromRat(new(big.Rat).Add(f.rat(), g.rat()))
}

func (f Fraction) Sub(g Fraction) (Fraction, error) {
	return fromRat(new(big.Rat).Sub(f.rat(), g.rat()))
}

func (f Fraction) Neg() Fraction {
	return Fraction{num: -f.num, den: f.Den()}
}

func (f Fraction) Mul(g Fraction) (Fraction, error) {
	return fromRat(new(big.Rat).Mul(f.rat(), g.rat()))
}

// Div returns f/g. Dividing by zero returns ErrZeroDenominator.
func (f Fraction) Div(g Fraction) (Fraction, error) {
	if g.num == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return fromRat(new(big.Rat).Quo(f.rat(), g.rat()))
}

// DivInt returns f/n. Dividing by zero returns ErrZeroDenominator.
func (f Fraction) DivInt(n int64) (Fraction, error) {
	if n == 0 {
		return Fraction{}, ErrZeroDenominator
	}
	return fromRat(new(big.Rat).Quo(f.rat(), new(big.Rat).SetInt64(n)))
}

// Mean returns the exact average of values, or 0/1 for none. Only the
// final mean has to fit in int64; the running sum is unbounded.
func Mean(values ...Fraction) (Fraction, error) {
	if len(values) == 0 {
		return Zero, nil
	}
	total := new(big.Rat)
	for _, v := range values {
		total.Add(total, v.rat())
	}
	return fromRat(total.Quo(total, new(big.Rat).SetInt64(int64(len(values)))))
}

// Cmp returns -1, 0 or +1 depending on whether f is less than, equal to or
// greater than g. The cross products are computed with big integers.
func (f Fraction) Cmp(g Fraction) int {
	if f.Den() == g.Den() {
		switch {
		case f.num < g.num:
			return -1
		case f.num > g.num:
			return 1
		}
		return 0
	}
	return f.rat().Cmp(g.rat())
}

func (f Fraction) Less(g Fraction) bool { return f.Cmp(g) < 0 }

// Equal reports exact equality. Both sides are in lowest terms so this is
// a field comparison.
func (f Fraction) Equal(g Fraction) bool {
	return f.num == g.num && f.Den() == g.Den()
}

func (f Fraction) Sign() int {
	switch {
	case f.num < 0:
		return -1
	case f.num > 0:
		return 1
	}
	return 0
}

func (f Fraction) IsZero() bool { return f.num == 0 }

// Float64 is for display only.
func (f Fraction) Float64() float64 {
	return float64(f.num) / float64(f.Den())
}

// String formats f as "num/den".
func (f Fraction) String() string {
	return strconv.FormatInt(f.num, 10) + "/" + strconv.FormatInt(f.Den(), 10)
}

// Parse reads "num/den" or a bare integer.
func Parse(s string) (Fraction, error) {
	s = strings.TrimSpace(s)
	numStr, denStr, found := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid numerator in %q: %w", s, err)
	}
	if !found {
		return Int(num), nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(denStr), 10, 64)
	if err != nil {
		return Fraction{}, fmt.Errorf("invalid denominator in %q: %w", s, err)
	}
	return New(num, den)
}

// Sum adds all values. The sum of nothing is 0/1.
func Sum(values ...Fraction) (Fraction, error) {
	total := new(big.Rat)
	for _, v := range values {
		total.Add(total, v.rat())
	}
	return fromRat(total)
}

func (f Fraction) rat() *big.Rat {
	return new(big.Rat).SetFrac64(f.num, f.Den())
}

// fromRat narrows an exact big.Rat, already in lowest terms, to int64.
func fromRat(r *big.Rat) (Fraction, error) {
	num, den := r.Num(), r.Denom()
	if !num.IsInt64() || !den.IsInt64() || num.Int64() == math.MinInt64 {
		return Fraction{}, fmt.Errorf("%s: %w", r.RatString(), ErrOverflow)
	}
	if num.Sign() == 0 {
		return Zero, nil
	}
	return Fraction{num: num.Int64(), den: den.Int64()}, nil
}
