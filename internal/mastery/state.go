package mastery

import "github.com/abhisek/quizbucket/internal/fraction"

// MasteryState represents a question's position in the mastery lifecycle.
type MasteryState string

const (
	StateNew      MasteryState = "new"
	StateLearning MasteryState = "learning"
	StateMastered MasteryState = "mastered"
)

// StateOf classifies a history against the mastery threshold. A question
// with no attempts is new; a question whose mean reaches the threshold is
// mastered.
func StateOf(h *QuestionHistory, threshold fraction.Fraction) MasteryState {
	switch {
	case h == nil || h.Len() == 0:
		return StateNew
	case h.MasteryScore().Cmp(threshold) >= 0:
		return StateMastered
	default:
		return StateLearning
	}
}

// StateTransition records a mastery state change caused by one answer.
type StateTransition struct {
	QuestionID int
	From       MasteryState
	To         MasteryState
}

// Graduated reports whether the answer moved the question into mastery.
func (t StateTransition) Graduated() bool {
	return t.From != StateMastered && t.To == StateMastered
}

// Changed reports whether the state differs before and after.
func (t StateTransition) Changed() bool {
	return t.From != t.To
}
