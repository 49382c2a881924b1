package notifier

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

const (
	// MessagePlaceholder is replaced with the alert message in speech commands.
	MessagePlaceholder = "{message}"
	// MessageEnv carries the alert message to spawned tone and speech processes.
	MessageEnv = "PROCTOR_ALERT_MESSAGE"
	// bell is the terminal bell character.
	bell = "\a"
)

// errEmptyCommand is returned for a configured command with no program.
var errEmptyCommand = errors.New("empty command")

// Speaker plays an alert tone and speaks the alert message through local
// programs. At most one tone and one utterance run at any time.
type Speaker struct {
	// toneCommand plays the tone; empty means ring the bell instead.
	toneCommand []string
	// speechCommand speaks the message; empty disables speech.
	speechCommand []string
	// bell receives the bell character when no tone command is set; nil disables it.
	bell io.Writer

	// mu guards the in-flight processes.
	mu sync.Mutex
	// tone is the running tone player, if any.
	tone *process
	// speech is the running synthesizer, if any.
	speech *process
}

// SpeakerOption configures a Speaker.
type SpeakerOption func(*Speaker)

// WithToneCommand plays the tone with argv instead of the bell.
func WithToneCommand(argv []string) SpeakerOption {
	return func(s *Speaker) {
		s.toneCommand = argv
	}
}

// WithSpeechCommand replaces the OS default synthesizer. An empty argv disables speech.
func WithSpeechCommand(argv []string) SpeakerOption {
	return func(s *Speaker) {
		s.speechCommand = argv
	}
}

// WithBell sets where the bell character is written; nil disables the bell.
func WithBell(w io.Writer) SpeakerOption {
	return func(s *Speaker) {
		s.bell = w
	}
}

// NewSpeaker creates a speaker using the OS default synthesizer and a bell on stderr.
func NewSpeaker(opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		speechCommand: DefaultSpeechCommand(),
		bell:          os.Stderr,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// DefaultSpeechCommand returns the built-in synthesizer for the current OS:
// - Linux:   espeak-ng or espeak
// - macOS:   say
// - Windows: PowerShell System.Speech, reading the message from MessageEnv.
func DefaultSpeechCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"say", MessagePlaceholder}
	case "windows":
		return []string{
			"powershell.exe", "-NoProfile", "-NonInteractive", "-Command",
			"Add-Type -AssemblyName System.Speech; " +
				"(New-Object System.Speech.Synthesis.SpeechSynthesizer).Speak($env:" + MessageEnv + ")",
		}
	default:
		if _, err := exec.LookPath("espeak-ng"); err == nil {
			return []string{"espeak-ng", MessagePlaceholder}
		}

		return []string{"espeak", MessagePlaceholder}
	}
}

// Fire stops the current tone and utterance, restarts the tone and speaks message.
func (s *Speaker) Fire(ctx context.Context, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(ctx)

	if len(s.toneCommand) > 0 {
		tone, err := startProcess(s.toneCommand, message)
		if err != nil {
			report(ctx, "speaker", "tone", err)
		}

		s.tone = tone
	} else if s.bell != nil {
		if _, err := io.WriteString(s.bell, bell); err != nil {
			report(ctx, "speaker", "bell", err)
		}
	}

	if len(s.speechCommand) == 0 {
		return
	}

	speech, err := startProcess(s.speechCommand, message)
	if err != nil {
		report(ctx, "speaker", "speech", err)
	}

	s.speech = speech
}

// Stop halts the tone and cancels speech.
func (s *Speaker) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked(ctx)
}

// active reports whether a tone or utterance is still running.
func (s *Speaker) active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tone.running() || s.speech.running()
}

func (s *Speaker) stopLocked(ctx context.Context) {
	if err := s.tone.kill(); err != nil {
		report(ctx, "speaker", "stop tone", err)
	}

	if err := s.speech.kill(); err != nil {
		report(ctx, "speaker", "stop speech", err)
	}

	s.tone = nil
	s.speech = nil
}

// process is a started external program reaped in the background.
type process struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// startProcess expands the placeholder in argv and starts it.
func startProcess(argv []string, message string) (*process, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errEmptyCommand
	}

	args := expand(argv[1:], message)

	cmd := exec.Command(argv[0], args...) //nolint:gosec // Commands come from the operator's settings.
	cmd.Env = append(os.Environ(), MessageEnv+"="+message)

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	p := &process{
		cmd:  cmd,
		done: make(chan struct{}),
	}

	go func() {
		_ = cmd.Wait()

		close(p.done)
	}()

	return p, nil
}

// running reports whether the process has not exited yet.
func (p *process) running() bool {
	if p == nil {
		return false
	}

	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// kill terminates the process and waits until it is reaped.
func (p *process) kill() error {
	if !p.running() {
		return nil
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}

	<-p.done

	return nil
}

func expand(args []string, message string) []string {
	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = strings.ReplaceAll(arg, MessagePlaceholder, message)
	}

	return expanded
}
