package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/mastery"
)

// Result is the outcome of one submitted answer.
type Result struct {
	Rate       fraction.Fraction
	Transition mastery.StateTransition
	Mastery    fraction.Fraction
}

// Submit scores sel against the due question, records the attempt in the
// model and the tracker, and returns the outcome. Invalid selections leave
// both untouched.
func Submit(m *learn.Model, t *Tracker, due learn.Due, sel []int, shownAt, answeredAt time.Time) (Result, error) {
	rate, err := due.Question.Score(sel)
	if err != nil {
		return Result{}, err
	}
	attempt, err := mastery.NewAttempt(answeredAt, answeredAt.Sub(shownAt), rate)
	if err != nil {
		return Result{}, err
	}
	tr, err := m.RecordAnswer(due.ID, attempt)
	if err != nil {
		return Result{}, err
	}
	if err := t.Record(rate, tr); err != nil {
		return Result{}, err
	}

	res := Result{Rate: rate, Transition: tr}
	if h, err := m.History(due.ID); err == nil {
		res.Mastery = h.MasteryScore()
	}
	return res, nil
}

// RunPlain drives a session over line-based input and output. It returns
// nil when every question is mastered, the input ends or the learner types
// q, and ctx.Err() when ctx is cancelled. The caller saves the model in
// every case.
func RunPlain(ctx context.Context, m *learn.Model, t *Tracker, in io.Reader, out io.Writer, now func() time.Time) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	readLine := func() (string, bool, error) {
		select {
		case <-ctx.Done():
			return "", false, ctx.Err()
		case line, ok := <-lines:
			return strings.TrimSpace(line), ok, nil
		}
	}

	threshold := m.Config().MasteryThreshold
	for {
		due, err := m.NextDue()
		if errors.Is(err, learn.ErrExhausted) {
			fmt.Fprintf(out, "All %d questions mastered.\n", m.Len())
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "── Question %d (%d/%d mastered) ──\n", due.ID+1, m.Mastered(), m.Len())
		fmt.Fprintln(out, due.Question.Prompt())
		for i, o := range due.Question.Options() {
			fmt.Fprintf(out, "  %s) %s\n", OptionLabel(i), o.Text)
		}

		shownAt := now()
		var res Result
		for {
			fmt.Fprint(out, "\nYour answer: ")
			line, ok, err := readLine()
			if err != nil {
				t.MarkInterrupted()
				return err
			}
			if !ok {
				fmt.Fprintln(out, "\n(input closed)")
				return nil
			}
			if line == "q" || line == "quit" {
				return nil
			}
			sel, err := ParseSelection(line, due.Question.NumOptions())
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				continue
			}
			res, err = Submit(m, t, due, sel, shownAt, now())
			if err != nil {
				return err
			}
			break
		}

		if res.Rate.Equal(fraction.One) {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			labels := make([]string, 0, due.Question.CorrectCount())
			for _, idx := range due.Question.CorrectIndices() {
				labels = append(labels, OptionLabel(idx))
			}
			fmt.Fprintf(out, "✗ Score %s. Correct: %s\n", res.Rate, strings.Join(labels, ", "))
		}
		fmt.Fprintf(out, "Mastery %s (needs %s)\n", res.Mastery, threshold)
		if res.Transition.Graduated() {
			fmt.Fprintln(out, "★ Mastered!")
		}
		fmt.Fprintln(out)
	}
}

// PrintSummary writes the end-of-session report.
func PrintSummary(out io.Writer, s Summary) {
	fmt.Fprintf(out, "── Summary: %d answered, total score %s, mean %s ──\n",
		s.Answered, s.TotalScore, s.Mean)
	if len(s.Graduated) > 0 {
		ids := make([]string, len(s.Graduated))
		for i, id := range s.Graduated {
			ids[i] = fmt.Sprint(id + 1)
		}
		fmt.Fprintf(out, "Newly mastered: %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(out, "Time: %s\n", s.Duration.Round(time.Second))
	if s.Interrupted {
		fmt.Fprintln(out, "(interrupted)")
	}
}
