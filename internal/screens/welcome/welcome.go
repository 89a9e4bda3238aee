// Package welcome is the splash screen shown before a learning session.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/router"
	"github.com/abhisek/quizbucket/internal/screen"
	"github.com/abhisek/quizbucket/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	revealAt     = 300 * time.Millisecond
	totalDur     = 600 * time.Millisecond
)

const bannerArt = `╔═╗ ╦ ╦ ╦ ╔═╗ ╔╗  ╦ ╦ ╔═╗ ╦╔═ ╔═╗ ╔╦╗
║═╬╗║ ║ ║ ╔═╝ ╠╩╗ ║ ║ ║   ╠╩╗ ║╣   ║
╚═╝╚╚═╝ ╩ ╚═╝ ╚═╝ ╚═╝ ╚═╝ ╩ ╩ ╚═╝  ╩ `

const bannerCompact = "Q U I Z B U C K E T"

var sparkleFrames = []string{"★", "✦"}

type tickMsg time.Time

// Overview is the deck summary printed under the banner.
type Overview struct {
	Questions  int
	Mastered   int
	BucketSize int
	Threshold  fraction.Fraction
}

// Screen shows the banner and deck overview, then hands over to the
// session screen on the first key press.
type Screen struct {
	overview     Overview
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*Screen)(nil)

// New creates a welcome screen that replaces itself with next().
func New(o Overview, next func() screen.Screen) *Screen {
	return &Screen{overview: o, next: next}
}

func (w *Screen) Title() string { return "" }

func (w *Screen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.tickCount++
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		if w.elapsed >= totalDur && w.overview.Mastered == w.overview.Questions {
			// Nothing to drill; stop animating.
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		if w.elapsed >= totalDur {
			return w, w.transition()
		}
	}
	return w, nil
}

func (w *Screen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	s := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
}

// RenderBanner returns the banner, or a compact one on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 44 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}

func (w *Screen) View(width, height int) string {
	banner := RenderBanner(width)
	if w.elapsed >= revealAt {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		s := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkle)
		lines := strings.Split(banner, "\n")
		lines[0] = s + "  " + lines[0] + "  " + s
		banner = strings.Join(lines, "\n")
	}

	sections := []string{banner}
	if w.elapsed >= revealAt {
		o := w.overview
		sections = append(sections,
			"",
			theme.Body.Render(fmt.Sprintf("%d questions, %d mastered", o.Questions, o.Mastered)),
			theme.Muted.Render(fmt.Sprintf("bucket of %d, mastery at %s", o.BucketSize, o.Threshold)),
		)
	}
	if w.elapsed >= totalDur {
		hint := "press any key to start"
		if w.overview.Mastered == w.overview.Questions {
			hint = "everything is mastered; press any key"
		}
		sections = append(sections, "", theme.Hint.Render(hint))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
