package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbucket/internal/fraction"
	sess "github.com/abhisek/quizbucket/internal/session"
	"github.com/abhisek/quizbucket/internal/ui/components"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderQuestion renders the prompt, the options and the selection input.
func (s *Screen) renderQuestion(width int) string {
	var b strings.Builder

	b.WriteString(s.infoLine(width))
	b.WriteString("\n\n")

	prompt := theme.Prompt.Width(min(width-4, 76)).Render(s.due.Question.Prompt())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, prompt))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	b.WriteString("\n")

	b.WriteString(centered(width).Render("Answer: " + s.input.View()))
	if s.inputErr != "" {
		b.WriteString("\n")
		b.WriteString(centered(width).Foreground(theme.Error).Render(s.inputErr))
	}
	return b.String()
}

// infoLine shows the question number, its mastery and the session tally.
func (s *Screen) infoLine(width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d", s.due.ID+1))

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("mastery %s   answered %d", s.due.History.MasteryScore(), s.tracker.Answered()))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" + lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

// renderFeedback shows the score, the correct options and the updated
// mastery of the question just answered.
func (s *Screen) renderFeedback(width int) string {
	res := s.result
	var b strings.Builder

	b.WriteString(s.infoLine(width))
	b.WriteString("\n\n")

	switch {
	case res.Rate.Equal(fraction.One):
		b.WriteString(centered(width).Inherit(theme.Correct).Render("Correct!"))
	case res.Rate.IsZero():
		b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Not quite"))
	default:
		b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Partly right: %s", res.Rate)))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.options.View()))
	b.WriteString("\n")

	labels := make([]string, 0, s.due.Question.CorrectCount())
	for _, idx := range s.due.Question.CorrectIndices() {
		labels = append(labels, sess.OptionLabel(idx))
	}
	b.WriteString(centered(width).Foreground(theme.TextDim).
		Render("Correct: " + strings.Join(labels, ", ")))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("Mastery", res.Mastery, s.model.Config().MasteryThreshold, min(width-8, 60))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	if res.Transition.Graduated() {
		b.WriteString(centered(width).Foreground(theme.Accent).Bold(true).Render("★ Mastered!"))
		b.WriteString("\n\n")
	}

	b.WriteString(centered(width).Inherit(theme.Hint).Render("Press any key to continue..."))
	return b.String()
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func renderLoading(width int) string {
	return centered(width).Foreground(theme.TextDim).Render("\n\n\n  Preparing your session...")
}

func renderError(width int, errMsg string) string {
	return centered(width).Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to quit.", errMsg))
}
