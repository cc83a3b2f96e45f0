// Package progress shows a spinner on stderr while ghmm waits on ssh.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/mattn/go-isatty"
)

type (
	setMessage string
	stop       struct{}
)

type model struct {
	spinner spinner.Model
	message string
}

func newModel(message string) model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	return model{spinner: sp, message: message}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case setMessage:
		m.message = string(msg)
		return m, nil
	case stop:
		m.message = ""
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(m.spinner.View() + " " + m.message)
}

// Spinner animates next to a message until Stop. It draws nothing when
// stderr is not a terminal, so output stays clean in pipes and tests.
type Spinner struct {
	out     io.Writer
	enabled bool

	mu      sync.Mutex
	message string
	program *tea.Program
	done    chan struct{}
}

// NewSpinner creates a stopped spinner.
func NewSpinner(message string) *Spinner {
	fd := os.Stderr.Fd()
	return &Spinner{
		out:     os.Stderr,
		enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		message: message,
	}
}

// Start begins drawing. Starting twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.program != nil || !s.enabled {
		return
	}

	s.program = tea.NewProgram(newModel(s.message),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
		tea.WithOutput(s.out),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		_, _ = p.Run()
		close(done)
	}(s.program, s.done)
}

// UpdateMessage replaces the message.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	if s.program != nil {
		s.program.Send(setMessage(message))
	}
}

// Step shows message prefixed with a "[n/total]" counter.
func (s *Spinner) Step(n, total int, message string) {
	s.UpdateMessage(fmt.Sprintf("[%d/%d] %s", n, total, message))
}

// Stop clears the spinner line and waits briefly for the renderer.
func (s *Spinner) Stop() {
	s.mu.Lock()
	p, done := s.program, s.done
	s.program = nil
	s.mu.Unlock()
	if p == nil {
		return
	}

	p.Send(stop{})
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		p.Kill()
	}
	fmt.Fprint(s.out, "\r\033[K")
}
