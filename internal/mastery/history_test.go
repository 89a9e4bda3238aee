package mastery

import (
	"errors"
	"testing"
	"time"

	"github.com/abhisek/quizbucket/internal/fraction"
)

var t0 = time.Unix(1700000000, 0)

func attempt(offset int, rate fraction.Fraction) Attempt {
	return Attempt{
		Timestamp: t0.Add(time.Duration(offset) * time.Minute),
		Duration:  time.Duration(offset+1) * time.Second,
		Rate:      rate,
	}
}

func mustHistory(id int, attempts ...Attempt) *QuestionHistory {
	h, err := NewQuestionHistory(id, attempts...)
	if err != nil {
		panic(err)
	}
	return h
}

func TestPutPrepends(t *testing.T) {
	h := mustHistory(3)
	first := attempt(0, fraction.Zero)
	second := attempt(1, fraction.One)
	h.Put(first)
	h.Put(second)

	got := h.History()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].Equal(second) || !got[1].Equal(first) {
		t.Errorf("History = %v, want most recent first", got)
	}
	latest, ok := h.Latest()
	if !ok || !latest.Equal(second) {
		t.Errorf("Latest = %v, %v; want second attempt", latest, ok)
	}
}

func TestHistorySnapshotIsolated(t *testing.T) {
	h := mustHistory(0, attempt(0, fraction.One))
	snap := h.History()
	snap[0].Rate = fraction.Zero

	if h.Len() != 1 {
		t.Errorf("Len = %d after mutating snapshot, want 1", h.Len())
	}
	if !h.MasteryScore().Equal(fraction.One) {
		t.Errorf("MasteryScore = %s after mutating snapshot, want 1/1", h.MasteryScore())
	}
}

func TestMasteryScore(t *testing.T) {
	tests := []struct {
		name  string
		rates []fraction.Fraction
		want  fraction.Fraction
	}{
		{"empty", nil, fraction.Zero},
		{"single one", []fraction.Fraction{fraction.One}, fraction.One},
		{"mean of halves", []fraction.Fraction{fraction.One, fraction.Zero}, fraction.MustNew(1, 2)},
		{"thirds", []fraction.Fraction{fraction.MustNew(1, 3), fraction.MustNew(2, 3), fraction.One}, fraction.MustNew(2, 3)},
		{"exactly at threshold", []fraction.Fraction{
			fraction.One, fraction.One, fraction.One, fraction.One, fraction.One,
			fraction.One, fraction.One, fraction.One, fraction.MustNew(1, 2), fraction.MustNew(1, 2),
		}, fraction.MustNew(9, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := mustHistory(0)
			for i, r := range tt.rates {
				h.Put(attempt(i, r))
			}
			if got := h.MasteryScore(); !got.Equal(tt.want) {
				t.Errorf("MasteryScore = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewAttemptRejectsOutOfRange(t *testing.T) {
	if _, err := NewAttempt(t0, time.Second, fraction.MustNew(3, 2)); err == nil {
		t.Error("expected error for rate above 1")
	}
	if _, err := NewAttempt(t0, time.Second, fraction.MustNew(-1, 2)); err == nil {
		t.Error("expected error for negative rate")
	}
	a, err := NewAttempt(t0, time.Second, fraction.One)
	if err != nil {
		t.Fatalf("NewAttempt: %v", err)
	}
	if !a.Rate.Equal(fraction.One) {
		t.Errorf("Rate = %s, want 1/1", a.Rate)
	}
}

func TestAttemptEqualUsesSeconds(t *testing.T) {
	a := attempt(0, fraction.One)
	b := a
	b.Timestamp = a.Timestamp.Add(300 * time.Millisecond)
	if !a.Equal(b) {
		t.Error("attempts in the same second should be equal")
	}
	b.Duration++
	if a.Equal(b) {
		t.Error("different durations should not be equal")
	}
}

func TestStateOf(t *testing.T) {
	threshold := fraction.MustNew(9, 10)

	if got := StateOf(mustHistory(0), threshold); got != StateNew {
		t.Errorf("empty history = %s, want %s", got, StateNew)
	}
	h := mustHistory(0, attempt(0, fraction.MustNew(1, 2)))
	if got := StateOf(h, threshold); got != StateLearning {
		t.Errorf("1/2 = %s, want %s", got, StateLearning)
	}
	h = mustHistory(0, attempt(0, fraction.One))
	if got := StateOf(h, threshold); got != StateMastered {
		t.Errorf("1/1 = %s, want %s", got, StateMastered)
	}

	tr := StateTransition{From: StateLearning, To: StateMastered}
	if !tr.Graduated() || !tr.Changed() {
		t.Error("learning -> mastered should graduate")
	}
	tr = StateTransition{From: StateNew, To: StateLearning}
	if tr.Graduated() {
		t.Error("new -> learning should not graduate")
	}
}

func TestMeanOutsideInt64Rejected(t *testing.T) {
	first := attempt(0, fraction.MustNew(4294967291, 4294967296))
	second := attempt(1, fraction.MustNew(4294967290, 4294967291))

	if _, err := NewQuestionHistory(0, second, first); !errors.Is(err, fraction.ErrOverflow) {
		t.Errorf("NewQuestionHistory err = %v, want ErrOverflow", err)
	}

	h := mustHistory(0, first)
	before := h.MasteryScore()
	if err := h.Put(second); !errors.Is(err, fraction.ErrOverflow) {
		t.Fatalf("Put err = %v, want ErrOverflow", err)
	}
	if h.Len() != 1 {
		t.Errorf("Len = %d after rejected Put, want 1", h.Len())
	}
	if !h.MasteryScore().Equal(before) {
		t.Errorf("MasteryScore = %s after rejected Put, want %s", h.MasteryScore(), before)
	}
}
