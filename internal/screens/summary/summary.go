package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbucket/internal/screen"
	"github.com/abhisek/quizbucket/internal/session"
	"github.com/abhisek/quizbucket/internal/ui/layout"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary  session.Summary
	mastered int
	total    int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a summary of sum; mastered and total describe the whole
// corpus after the session.
func New(sum session.Summary, mastered, total int) *SummaryScreen {
	return &SummaryScreen{summary: sum, mastered: mastered, total: total}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save and exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	line := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text) + "\n"
	}

	var b strings.Builder

	heading := "Session complete!"
	if s.total > 0 && s.mastered == s.total {
		heading = "Everything mastered!"
	}
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), heading))
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n")

	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Answered: %d        Total score: %s        Mean: %s",
			sum.Answered, sum.TotalScore, sum.Mean)))
	b.WriteString(line(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Mastered: %d of %d questions", s.mastered, s.total)))
	b.WriteString("\n")

	if len(sum.Graduated) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", max(min(width-8, 60), 0)))
		b.WriteString(line(lipgloss.NewStyle().Foreground(theme.TextDim), "Newly mastered"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")

		ids := make([]string, len(sum.Graduated))
		for i, id := range sum.Graduated {
			ids[i] = fmt.Sprintf("#%d", id+1)
		}
		b.WriteString(line(theme.Correct, strings.Join(ids, "  ")))
	}

	if sum.Interrupted {
		b.WriteString("\n")
		b.WriteString(line(theme.Hint, "Session was interrupted."))
	}
	return b.String()
}
