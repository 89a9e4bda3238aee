// Package practice is the question-answering screen of a learning session.
package practice

import (
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/router"
	"github.com/abhisek/quizbucket/internal/screen"
	"github.com/abhisek/quizbucket/internal/screens/summary"
	sess "github.com/abhisek/quizbucket/internal/session"
	"github.com/abhisek/quizbucket/internal/ui/components"
	"github.com/abhisek/quizbucket/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseQuestion
	phaseFeedback
	phaseQuitConfirm
)

// Screen serves due questions one at a time. Options are chosen by typing
// their numbers or letters; Enter submits.
type Screen struct {
	model   *learn.Model
	tracker *sess.Tracker
	now     func() time.Time
	log     *zap.Logger

	phase     phase
	prevPhase phase
	due       learn.Due
	shownAt   time.Time
	input     components.TextInput
	options   components.OptionList
	result    sess.Result
	inputErr  string
	errMsg    string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the practice screen. A nil now uses time.Now and a nil log
// discards output.
func New(model *learn.Model, tracker *sess.Tracker, now func() time.Time, log *zap.Logger) *Screen {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Screen{
		model:   model,
		tracker: tracker,
		now:     now,
		log:     log,
		input:   newInput(),
	}
}

func newInput() components.TextInput {
	return components.NewTextInput("e.g. 1 3", components.SelectionChars, 40)
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return nextQuestionMsg{} },
		s.input.Init(),
	)
}

func (s *Screen) Title() string {
	return "Learn"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case phaseFeedback:
		return []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-9/a-z", Description: "Choose"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return renderError(width, s.errMsg)
	}
	switch s.phase {
	case phaseLoading:
		return renderLoading(width)
	case phaseQuitConfirm:
		return renderQuitConfirm(width)
	case phaseFeedback:
		return s.renderFeedback(width)
	}
	return s.renderQuestion(width)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case nextQuestionMsg:
		return s.handleNextQuestion()
	case sessionEndMsg:
		return s.handleSessionEnd()
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseQuestion {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleNextQuestion() (screen.Screen, tea.Cmd) {
	due, err := s.model.NextDue()
	if errors.Is(err, learn.ErrExhausted) {
		return s, func() tea.Msg { return sessionEndMsg{} }
	}
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}

	s.due = due
	s.shownAt = s.now()
	s.phase = phaseQuestion
	s.inputErr = ""
	s.input = newInput()

	opts := due.Question.Options()
	texts := make([]string, len(opts))
	correct := make([]bool, len(opts))
	for i, o := range opts {
		texts[i] = o.Text
		correct[i] = o.Correct
	}
	s.options = components.NewOptionList(texts, correct)
	return s, s.input.Init()
}

func (s *Screen) handleSessionEnd() (screen.Screen, tea.Cmd) {
	sum := s.tracker.Summary(s.now())
	s.log.Info("session ended",
		zap.String("session", sum.ID),
		zap.Int("answered", sum.Answered),
		zap.Stringer("total_score", sum.TotalScore),
		zap.Int("graduated", len(sum.Graduated)))

	next := summary.New(sum, s.model.Mastered(), s.model.Len())
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, tea.Quit
	}

	switch s.phase {
	case phaseQuitConfirm:
		switch key {
		case "y", "Y":
			return s, func() tea.Msg { return sessionEndMsg{} }
		case "n", "N", "esc":
			s.phase = s.prevPhase
		}
		return s, nil

	case phaseFeedback:
		if key == "esc" {
			s.prevPhase, s.phase = s.phase, phaseQuitConfirm
			return s, nil
		}
		return s, func() tea.Msg { return nextQuestionMsg{} }

	case phaseQuestion:
		switch key {
		case "esc":
			s.prevPhase, s.phase = s.phase, phaseQuitConfirm
			return s, nil
		case "enter":
			return s.submit()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.inputErr = ""
		if sel, err := sess.ParseSelection(s.input.Value(), s.due.Question.NumOptions()); err == nil {
			s.options.Choose(sel)
		}
		return s, cmd
	}
	return s, nil
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	if s.input.Value() == "" {
		return s, nil
	}
	sel, err := sess.ParseSelection(s.input.Value(), s.due.Question.NumOptions())
	if err != nil {
		s.inputErr = err.Error()
		return s, nil
	}

	res, err := sess.Submit(s.model, s.tracker, s.due, sel, s.shownAt, s.now())
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.log.Debug("answer recorded",
		zap.Int("question", s.due.ID),
		zap.Stringer("rate", res.Rate),
		zap.Stringer("mastery", res.Mastery),
		zap.Bool("graduated", res.Transition.Graduated()))

	s.result = res
	s.options.Choose(sel)
	s.options.Submitted = true
	s.input.Submit(res.Rate.Equal(fraction.One))
	s.phase = phaseFeedback
	return s, nil
}
