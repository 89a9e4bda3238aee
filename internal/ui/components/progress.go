package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a value in [0, 1], with an
// optional marker at a target position (the mastery threshold).
type ProgressBar struct {
	Label  string
	Value  fraction.Fraction
	Target fraction.Fraction
	Width  int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, value, target fraction.Fraction, width int) ProgressBar {
	return ProgressBar{Label: label, Value: value, Target: target, Width: width}
}

// View renders the bar followed by the exact value.
func (p ProgressBar) View() string {
	var result string
	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := "  " + p.Value.String()
	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := cells(p.Value, barWidth)
	marker := -1
	if !p.Target.IsZero() {
		marker = cells(p.Target, barWidth) - 1
	}

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		ch := " "
		if i == marker {
			ch = "│"
		}
		if i < filled {
			bar.WriteString(theme.ProgressFilled.Render(ch))
		} else {
			bar.WriteString(theme.ProgressEmpty.Render(ch))
		}
	}

	result += bar.String()
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}

func cells(v fraction.Fraction, width int) int {
	n := int(v.Float64() * float64(width))
	if n > width {
		return width
	}
	if n < 0 {
		return 0
	}
	return n
}
