// Package session runs a learning session over a learn.Model and keeps
// the per-session summary.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/mastery"
)

// Summary holds the data displayed when a session ends.
type Summary struct {
	ID          string
	StartedAt   time.Time
	Duration    time.Duration
	Answered    int
	TotalScore  fraction.Fraction
	Mean        fraction.Fraction // TotalScore / Answered, 0 when nothing was answered
	Graduated   []int
	Interrupted bool
}

// Tracker accumulates the summary while a session runs.
type Tracker struct {
	id          string
	startedAt   time.Time
	rates       []fraction.Fraction
	total       fraction.Fraction
	mean        fraction.Fraction
	graduated   []int
	interrupted bool
}

// NewTracker starts a session with a fresh id.
func NewTracker(now time.Time) *Tracker {
	return &Tracker{id: uuid.NewString(), startedAt: now}
}

// ID returns the session id.
func (t *Tracker) ID() string { return t.id }

// StartedAt returns when the session began.
func (t *Tracker) StartedAt() time.Time { return t.startedAt }

// Record adds one scored answer. If the session total or mean would leave
// int64 range the tracker is left unchanged.
func (t *Tracker) Record(rate fraction.Fraction, tr mastery.StateTransition) error {
	total, err := t.total.Add(rate)
	if err != nil {
		return fmt.Errorf("session total: %w", err)
	}
	rates := append(t.rates[:len(t.rates):len(t.rates)], rate)
	mean, err := fraction.Mean(rates...)
	if err != nil {
		return fmt.Errorf("session mean: %w", err)
	}
	t.rates, t.total, t.mean = rates, total, mean
	if tr.Graduated() {
		t.graduated = append(t.graduated, tr.QuestionID)
	}
	return nil
}

// MarkInterrupted flags that the session was cut short by a signal.
func (t *Tracker) MarkInterrupted() { t.interrupted = true }

// Answered returns how many answers were recorded.
func (t *Tracker) Answered() int { return len(t.rates) }

// Summary snapshots the counters as of now.
func (t *Tracker) Summary(now time.Time) Summary {
	grads := make([]int, len(t.graduated))
	copy(grads, t.graduated)
	return Summary{
		ID:          t.id,
		StartedAt:   t.startedAt,
		Duration:    now.Sub(t.startedAt),
		Answered:    len(t.rates),
		TotalScore:  t.total,
		Mean:        t.mean,
		Graduated:   grads,
		Interrupted: t.interrupted,
	}
}
