package mastery

import (
	"fmt"
	"sort"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/quiz"
)

// Stats maps question ids to their histories. It is the durable record of
// a learner's progress.
type Stats struct {
	histories map[int]*QuestionHistory
}

// NewStats returns an empty Stats.
func NewStats() *Stats {
	return &Stats{histories: make(map[int]*QuestionHistory)}
}

// Add stores h under its question id, replacing any previous entry.
func (s *Stats) Add(h *QuestionHistory) {
	s.histories[h.QuestionID()] = h
}

// Seed creates an empty history for every id in [0, n) that has none.
func (s *Stats) Seed(n int) {
	for id := 0; id < n; id++ {
		if _, ok := s.histories[id]; !ok {
			s.histories[id] = emptyHistory(id)
		}
	}
}

// Get returns the history of id.
func (s *Stats) Get(id int) (*QuestionHistory, bool) {
	h, ok := s.histories[id]
	return h, ok
}

// Put records a for id. Unknown ids fail with quiz.ErrInvalidReference.
func (s *Stats) Put(id int, a Attempt) error {
	h, ok := s.histories[id]
	if !ok {
		return fmt.Errorf("question %d: %w", id, quiz.ErrInvalidReference)
	}
	return h.Put(a)
}

// IDs returns every question id in ascending order.
func (s *Stats) IDs() []int {
	ids := make([]int, 0, len(s.histories))
	for id := range s.histories {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *Stats) Len() int { return len(s.histories) }

// Validate checks that every id refers to a question of an n-sized corpus.
func (s *Stats) Validate(n int) error {
	for _, id := range s.IDs() {
		if id < 0 || id >= n {
			return fmt.Errorf("stats entry for question %d, corpus has %d: %w", id, n, quiz.ErrInvalidReference)
		}
	}
	return nil
}

// Mastered counts questions whose score is at or above threshold.
func (s *Stats) Mastered(threshold fraction.Fraction) int {
	n := 0
	for _, h := range s.histories {
		if h.MasteryScore().Cmp(threshold) >= 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (s *Stats) Clone() *Stats {
	c := NewStats()
	for id, h := range s.histories {
		c.histories[id] = h.Clone()
	}
	return c
}

// Equal reports whether both hold the same ids with element-wise equal
// histories.
func (s *Stats) Equal(o *Stats) bool {
	if len(s.histories) != len(o.histories) {
		return false
	}
	for id, h := range s.histories {
		oh, ok := o.histories[id]
		if !ok || !h.Equal(oh) {
			return false
		}
	}
	return true
}
