package mastery

import (
	"fmt"

	"github.com/abhisek/quizbucket/internal/fraction"
)

// QuestionHistory is the attempt log of one question, most recent first.
type QuestionHistory struct {
	questionID int
	attempts   []Attempt
	mastery    fraction.Fraction // mean of attempts' rates
}

// NewQuestionHistory returns a history for id. The attempts are copied and
// must already be ordered most recent first. It fails with
// fraction.ErrOverflow when the exact mean of the rates does not fit in
// int64.
func NewQuestionHistory(id int, attempts ...Attempt) (*QuestionHistory, error) {
	h := emptyHistory(id)
	if len(attempts) == 0 {
		return h, nil
	}
	mean, err := meanRate(attempts)
	if err != nil {
		return nil, fmt.Errorf("question %d: %w", id, err)
	}
	h.attempts = make([]Attempt, len(attempts))
	copy(h.attempts, attempts)
	h.mastery = mean
	return h, nil
}

func emptyHistory(id int) *QuestionHistory {
	return &QuestionHistory{questionID: id, mastery: fraction.Zero}
}

func meanRate(attempts []Attempt) (fraction.Fraction, error) {
	rates := make([]fraction.Fraction, len(attempts))
	for i, a := range attempts {
		rates[i] = a.Rate
	}
	return fraction.Mean(rates...)
}

func (h *QuestionHistory) QuestionID() int { return h.questionID }

// Put records a as the most recent attempt. If the new mean would leave
// int64 range the history is left unchanged and fraction.ErrOverflow is
// returned.
func (h *QuestionHistory) Put(a Attempt) error {
	next := make([]Attempt, len(h.attempts)+1)
	next[0] = a
	copy(next[1:], h.attempts)
	mean, err := meanRate(next)
	if err != nil {
		return fmt.Errorf("question %d: %w", h.questionID, err)
	}
	h.attempts = next
	h.mastery = mean
	return nil
}

// History returns a snapshot of the attempts, most recent first.
func (h *QuestionHistory) History() []Attempt {
	out := make([]Attempt, len(h.attempts))
	copy(out, h.attempts)
	return out
}

func (h *QuestionHistory) Len() int { return len(h.attempts) }

// Latest returns the most recent attempt.
func (h *QuestionHistory) Latest() (Attempt, bool) {
	if len(h.attempts) == 0 {
		return Attempt{}, false
	}
	return h.attempts[0], true
}

// MasteryScore is the exact mean of all recorded rates, or 0 when there are
// none.
func (h *QuestionHistory) MasteryScore() fraction.Fraction { return h.mastery }

// Clone returns an independent copy.
func (h *QuestionHistory) Clone() *QuestionHistory {
	c := *h
	c.attempts = h.History()
	return &c
}

// Equal reports whether both histories belong to the same question and hold
// element-wise equal attempts in the same order.
func (h *QuestionHistory) Equal(o *QuestionHistory) bool {
	if h.questionID != o.questionID || len(h.attempts) != len(o.attempts) {
		return false
	}
	for i := range h.attempts {
		if !h.attempts[i].Equal(o.attempts[i]) {
			return false
		}
	}
	return true
}
