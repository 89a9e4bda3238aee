// Package quiz holds the question corpus and partial-credit scoring.
package quiz

import (
	"errors"
	"fmt"

	"github.com/abhisek/quizbucket/internal/fraction"
)

var (
	// ErrDegenerateQuestion is returned when a question has no correct option.
	ErrDegenerateQuestion = errors.New("degenerate question: no correct option")

	// ErrInvalidReference is returned when an option index or question id
	// does not exist, or an option index is submitted twice.
	ErrInvalidReference = errors.New("invalid reference")
)

// Option is one selectable answer of a question.
type Option struct {
	Text    string
	Correct bool
}

// Question is an immutable prompt with ordered options. Submissions refer
// to options by zero-based position.
type Question struct {
	prompt       string
	options      []Option
	correctCount int
}

// New validates and builds a question. The options slice is copied.
func New(prompt string, options []Option) (*Question, error) {
	correct := 0
	for _, o := range options {
		if o.Correct {
			correct++
		}
	}
	if correct == 0 {
		return nil, fmt.Errorf("%q: %w", prompt, ErrDegenerateQuestion)
	}
	opts := make([]Option, len(options))
	copy(opts, options)
	return &Question{prompt: prompt, options: opts, correctCount: correct}, nil
}

func (q *Question) Prompt() string { return q.prompt }

// Options returns a copy of the options in order.
func (q *Question) Options() []Option {
	opts := make([]Option, len(q.options))
	copy(opts, q.options)
	return opts
}

// NumOptions returns the number of options.
func (q *Question) NumOptions() int { return len(q.options) }

// CorrectCount returns how many options are marked correct. Always >= 1.
func (q *Question) CorrectCount() int { return q.correctCount }

// CorrectIndices returns the positions of the correct options, ascending.
func (q *Question) CorrectIndices() []int {
	idx := make([]int, 0, q.correctCount)
	for i, o := range q.options {
		if o.Correct {
			idx = append(idx, i)
		}
	}
	return idx
}

// Score grades a multi-select answer. Each selected correct option adds
// 1/CorrectCount, each selected incorrect option subtracts the same amount,
// and a negative total is clamped to zero. Selecting exactly the correct
// options yields 1.
//
// Out-of-range and repeated indices fail with ErrInvalidReference.
func (q *Question) Score(selected []int) (fraction.Fraction, error) {
	seen := make(map[int]bool, len(selected))
	net := 0
	for _, i := range selected {
		if i < 0 || i >= len(q.options) {
			return fraction.Zero, fmt.Errorf("option %d of %d: %w", i+1, len(q.options), ErrInvalidReference)
		}
		if seen[i] {
			return fraction.Zero, fmt.Errorf("option %d selected twice: %w", i+1, ErrInvalidReference)
		}
		seen[i] = true
		if q.options[i].Correct {
			net++
		} else {
			net--
		}
	}
	if net <= 0 {
		return fraction.Zero, nil
	}
	return fraction.New(int64(net), int64(q.correctCount))
}

// Equal reports whether both questions have the same prompt and the same
// options in the same order.
func (q *Question) Equal(o *Question) bool {
	if q == nil || o == nil {
		return q == o
	}
	if len(q.options) != len(o.options) {
		return false
	}
	return q.PrefixEqual(o)
}

// PrefixEqual compares prompts and then options pairwise only over the
// shorter option list, so a question equals any extension of itself.
// Use Equal unless that looseness is wanted.
func (q *Question) PrefixEqual(o *Question) bool {
	if q.prompt != o.prompt {
		return false
	}
	n := min(len(q.options), len(o.options))
	for i := 0; i < n; i++ {
		if q.options[i] != o.options[i] {
			return false
		}
	}
	return true
}

// CorpusEqual reports whether two corpora hold equal questions at every
// index.
func CorpusEqual(a, b []*Question) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
