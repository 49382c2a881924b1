package render

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/oshokin/proctor-alert/internal/domain/alert"
	"github.com/oshokin/proctor-alert/internal/domain/analytics"
)

// ErrorLabel is shown in place of every field when data cannot be fetched.
const ErrorLabel = "Error fetching data"

// Console writes one styled line per frame.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	palette palette
}

// NewConsole creates a console renderer writing to w. Colors are used only
// when w is a terminal.
func NewConsole(w io.Writer) *Console {
	return &Console{
		out:     w,
		palette: newPalette(lipgloss.NewRenderer(w)),
	}
}

// Render prints the frame.
func (c *Console) Render(_ context.Context, frame Frame) {
	p := c.palette
	s := frame.Snapshot

	fields := []string{
		p.label.Render(s.FetchedAt.Format("15:04:05")),
		field(p, "faces", p.value.Render(strconv.Itoa(s.FaceCount))),
		field(p, "status", p.tone(analytics.SleepingTone(s.SleepingStatus)).Render(s.SleepingStatus)),
		field(p, "focus", p.value.Render(frame.FocusScore())),
		field(p, "activity", p.tone(analytics.ActivityTone(s.UnauthorizedActivity)).Render(s.UnauthorizedActivity)),
		field(p, "copy", p.tone(analytics.ActivityTone(s.CopyAttempt)).Render(s.CopyAttempt)),
		field(p, "alert", p.severity(frame.Severity).Render(s.ProctoringAlert)),
	}

	if frame.Active != alert.None {
		fields = append(fields, p.crit.Render("!! "+frame.Active.String()))
	}

	c.println(strings.Join(fields, " "))
}

// RenderError prints the fetch error state.
func (c *Console) RenderError(_ context.Context, err error) {
	c.println(c.palette.crit.Render(ErrorLabel) + " " + c.palette.label.Render(err.Error()))
}

// RenderStreamError prints a video stream failure; nil reports recovery.
func (c *Console) RenderStreamError(_ context.Context, err error) {
	if err == nil {
		c.println(c.palette.ok.Render("Video feed available again"))

		return
	}

	c.println(c.palette.crit.Render("Video feed not available") + " " + c.palette.label.Render(err.Error()))
}

func (c *Console) println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = fmt.Fprintln(c.out, line)
}

func field(p palette, name, value string) string {
	return p.label.Render(name+"=") + value
}
