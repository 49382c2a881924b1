package render

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/proctor-alert/internal/domain/alert"
	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

type frameMsg Frame

type errorMsg struct {
	err error
}

type streamMsg struct {
	err error
}

// Model is the bubbletea model behind the TUI renderer.
type Model struct {
	palette   palette
	sessionID string
	width     int

	frame     *Frame
	err       error
	streamErr error
}

// NewModel creates an empty model for sessionID.
func NewModel(sessionID string) Model {
	return Model{
		palette:   newPalette(lipgloss.DefaultRenderer()),
		sessionID: sessionID,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		frame := Frame(msg)
		m.frame = &frame
		m.err = nil
	case errorMsg:
		m.err = msg.err
	case streamMsg:
		m.streamErr = msg.err
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	p := m.palette

	var b strings.Builder

	b.WriteString(p.title.Render("Proctoring monitor"))
	b.WriteString("  " + p.label.Render("session "+m.sessionID) + "\n\n")

	severity := analytics.SeverityNone

	switch {
	case m.err != nil:
		severity = analytics.SeverityCritical

		for _, name := range []string{"Faces", "Status", "Focus", "Activity", "Copy attempt", "Alert"} {
			b.WriteString(row(p, name, p.crit.Render("Error")))
		}

		b.WriteString("\n" + p.crit.Render(ErrorLabel) + " " + p.label.Render(m.err.Error()) + "\n")
	case m.frame == nil:
		b.WriteString(p.label.Render("Waiting for the first snapshot...") + "\n")
	default:
		f := *m.frame
		s := f.Snapshot
		severity = f.Severity

		b.WriteString(row(p, "Faces", p.value.Render(strconv.Itoa(s.FaceCount))))
		b.WriteString(row(p, "Status", p.tone(analytics.SleepingTone(s.SleepingStatus)).Render(s.SleepingStatus)))
		b.WriteString(row(p, "Focus", p.value.Render(f.FocusScore())))
		b.WriteString(row(p, "Activity", p.tone(analytics.ActivityTone(s.UnauthorizedActivity)).Render(s.UnauthorizedActivity)))
		b.WriteString(row(p, "Copy attempt", p.tone(analytics.ActivityTone(s.CopyAttempt)).Render(s.CopyAttempt)))
		b.WriteString(row(p, "Alert", p.severity(f.Severity).Render(s.ProctoringAlert)))

		if f.Active != alert.None {
			b.WriteString("\n" + p.crit.Render("ALERT: "+f.Active.String()) + "\n")
		}
	}

	if m.streamErr != nil {
		b.WriteString("\n" + p.crit.Render("Video feed not available") + " " + p.label.Render(m.streamErr.Error()) + "\n")
	}

	b.WriteString("\n" + p.label.Render("q: quit"))

	panel := p.panel.BorderForeground(p.border(severity))
	if m.width > 4 {
		panel = panel.Width(m.width - 2)
	}

	return panel.Render(b.String())
}

func row(p palette, name, value string) string {
	return p.label.Render(padRight(name, 14)) + value + "\n"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

// TUI renders frames into a running bubbletea program.
type TUI struct {
	program *tea.Program
}

// NewTUI creates a full-screen program for sessionID.
func NewTUI(sessionID string, opts ...tea.ProgramOption) *TUI {
	return &TUI{
		program: tea.NewProgram(NewModel(sessionID), opts...),
	}
}

// Run blocks until the user quits or Quit is called.
func (t *TUI) Run() error {
	_, err := t.program.Run()

	return err
}

// Quit asks the program to exit.
func (t *TUI) Quit() {
	t.program.Quit()
}

// Render sends the frame to the program.
func (t *TUI) Render(_ context.Context, frame Frame) {
	t.program.Send(frameMsg(frame))
}

// RenderError shows the fetch error state.
func (t *TUI) RenderError(_ context.Context, err error) {
	t.program.Send(errorMsg{err: err})
}

// RenderStreamError shows or clears a video stream failure.
func (t *TUI) RenderStreamError(_ context.Context, err error) {
	t.program.Send(streamMsg{err: err})
}
