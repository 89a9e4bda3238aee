package welcome

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/quizbucket/internal/fraction"
	"github.com/abhisek/quizbucket/internal/router"
	"github.com/abhisek/quizbucket/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "practice" }
func (s *stubScreen) Title() string                           { return "Learn" }

func newTestWelcome(mastered int) (*Screen, *int) {
	calls := 0
	o := Overview{Questions: 3, Mastered: mastered, BucketSize: 20, Threshold: fraction.MustNew(9, 10)}
	return New(o, func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func sendTicks(w *Screen, n int) tea.Cmd {
	var cmd tea.Cmd
	for i := 0; i < n; i++ {
		_, cmd = w.Update(tickMsg(time.Now()))
	}
	return cmd
}

func TestOverviewRevealed(t *testing.T) {
	w, _ := newTestWelcome(1)
	if strings.Contains(w.View(80, 24), "3 questions") {
		t.Error("overview should not show before the reveal")
	}

	sendTicks(w, 3)
	view := w.View(80, 24)
	if !strings.Contains(view, "3 questions, 1 mastered") {
		t.Errorf("overview missing:\n%s", view)
	}
	if !strings.Contains(view, "mastery at 9/10") {
		t.Errorf("threshold missing:\n%s", view)
	}
	if strings.Contains(view, "press any key") {
		t.Error("hint should wait for the animation")
	}

	sendTicks(w, 3)
	if !strings.Contains(w.View(80, 24), "press any key to start") {
		t.Error("hint should show once the animation finished")
	}
}

func TestKeyDuringAnimationIgnored(t *testing.T) {
	w, calls := newTestWelcome(0)
	sendTicks(w, 2)

	_, cmd := w.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	if cmd != nil {
		t.Error("key press during the animation should do nothing")
	}
	if *calls != 0 {
		t.Error("next screen should not be built yet")
	}
}

func TestKeyAfterAnimationReplaces(t *testing.T) {
	w, calls := newTestWelcome(0)
	sendTicks(w, 6)

	_, cmd := w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a transition command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Learn" {
		t.Errorf("replaced with %q", msg.Screen.Title())
	}

	_, cmd = w.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("second key press should not transition again")
	}
	if *calls != 1 {
		t.Errorf("next built %d times, want 1", *calls)
	}
}

func TestAllMasteredStopsTicking(t *testing.T) {
	w, _ := newTestWelcome(3)
	if cmd := sendTicks(w, 6); cmd != nil {
		t.Error("ticking should stop when nothing is left to drill")
	}
	if !strings.Contains(w.View(80, 24), "everything is mastered") {
		t.Error("expected the all-mastered hint")
	}
}

func TestCompactBanner(t *testing.T) {
	if !strings.Contains(RenderBanner(30), "Q U I Z") {
		t.Error("narrow terminals get the compact banner")
	}
}
