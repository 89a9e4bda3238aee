// Package app hosts the terminal UI of a learning session.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/quizbucket/internal/learn"
	"github.com/abhisek/quizbucket/internal/router"
	"github.com/abhisek/quizbucket/internal/screen"
	"github.com/abhisek/quizbucket/internal/screens/practice"
	"github.com/abhisek/quizbucket/internal/screens/welcome"
	"github.com/abhisek/quizbucket/internal/session"
	"github.com/abhisek/quizbucket/internal/ui/layout"
)

// Options configures a UI run.
type Options struct {
	Model   *learn.Model
	Tracker *session.Tracker
	Now     func() time.Time
	Logger  *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	model   *learn.Model
	tracker *session.Tracker
	width   int
	height  int
}

func newAppModel(opts Options) AppModel {
	return AppModel{
		router: router.New(welcome.New(overview(opts.Model), func() screen.Screen {
			return practice.New(opts.Model, opts.Tracker, opts.Now, opts.Logger)
		})),
		model:   opts.Model,
		tracker: opts.Tracker,
	}
}

func overview(m *learn.Model) welcome.Overview {
	cfg := m.Config()
	return welcome.Overview{
		Questions:  m.Len(),
		Mastered:   m.Mastered(),
		BucketSize: cfg.BucketSize,
		Threshold:  cfg.MasteryThreshold,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			// Same outcome as SIGINT outside the UI: save and log as cut short.
			if m.tracker != nil {
				m.tracker.MarkInterrupted()
			}
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status is the mastery tally shown in the header.
func (m AppModel) status() string {
	if m.model == nil {
		return ""
	}
	return fmt.Sprintf("★ %d/%d mastered", m.model.Mastered(), m.model.Len())
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render composes header, active screen and footer for the current size.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Save and quit"})

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until the learner quits or
// ctx is cancelled. Cancellation is not an error; the caller saves the
// model either way.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil && errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
