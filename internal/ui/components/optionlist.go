package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizbucket/internal/ui/theme"
)

// OptionList renders the numbered options of a question. Before
// submission the chosen options are highlighted; afterwards correct
// options are green and wrongly chosen ones red.
type OptionList struct {
	Options   []string
	Correct   []bool
	Chosen    map[int]bool
	Submitted bool
}

// NewOptionList creates an option list with nothing chosen.
func NewOptionList(options []string, correct []bool) OptionList {
	return OptionList{Options: options, Correct: correct, Chosen: map[int]bool{}}
}

// Choose replaces the chosen set.
func (o *OptionList) Choose(sel []int) {
	o.Chosen = make(map[int]bool, len(sel))
	for _, i := range sel {
		o.Chosen[i] = true
	}
}

// View renders one line per option.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		mark := "[ ]"
		if o.Chosen[i] {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %d)  %s", mark, i+1, opt)

		style := theme.Unselected
		switch {
		case o.Submitted && i < len(o.Correct) && o.Correct[i]:
			style = theme.Correct
		case o.Submitted && o.Chosen[i]:
			style = theme.Incorrect
		case o.Submitted:
			style = theme.Muted
		case o.Chosen[i]:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
