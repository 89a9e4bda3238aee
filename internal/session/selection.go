package session

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/abhisek/quizbucket/internal/quiz"
)

// ParseSelection turns learner input into zero-based option indices for a
// question with n options. Options are named by number from 1 ("1 3",
// "1,3") or by letter from a ("a c", "A,C"). Empty input selects nothing.
// Unknown tokens, out-of-range options and repeats wrap
// quiz.ErrInvalidReference.
func ParseSelection(input string, n int) ([]int, error) {
	tokens := strings.FieldsFunc(input, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})

	sel := make([]int, 0, len(tokens))
	seen := make(map[int]bool, len(tokens))
	for _, tok := range tokens {
		idx, err := optionIndex(tok)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("option %q out of range 1-%d: %w", tok, n, quiz.ErrInvalidReference)
		}
		if seen[idx] {
			return nil, fmt.Errorf("option %q chosen twice: %w", tok, quiz.ErrInvalidReference)
		}
		seen[idx] = true
		sel = append(sel, idx)
	}
	return sel, nil
}

func optionIndex(tok string) (int, error) {
	if v, err := strconv.Atoi(tok); err == nil {
		return v - 1, nil
	}
	if len(tok) == 1 {
		c := unicode.ToLower(rune(tok[0]))
		if c >= 'a' && c <= 'z' {
			return int(c - 'a'), nil
		}
	}
	return 0, fmt.Errorf("cannot read option %q: %w", tok, quiz.ErrInvalidReference)
}

// OptionLabel is the number shown next to option idx.
func OptionLabel(idx int) string {
	return strconv.Itoa(idx + 1)
}
