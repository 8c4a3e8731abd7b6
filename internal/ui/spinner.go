package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// Spinner draws a pending indicator with the elapsed wait while a backend
// request is in flight. The TUI uses the bubbles spinner model directly; this
// is the line-based variant for plain CLI commands.
type Spinner struct {
	out    io.Writer
	frames spinner.Spinner
	delay  time.Duration
	label  string
	now    func() time.Time

	mu     sync.Mutex
	stop   chan struct{}
	done   sync.WaitGroup
	active bool
}

// NewSpinner creates a spinner that draws "<frame> <label> (Ns)" on out.
func NewSpinner(out io.Writer, label string) *Spinner {
	frames := spinner.Dot
	return &Spinner{
		out:    out,
		frames: frames,
		delay:  frames.FPS,
		label:  label,
		now:    time.Now,
	}
}

// Start begins drawing. Calling Start on a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return
	}
	s.active = true
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	started := s.now()
	s.done.Add(1)
	go func() {
		defer s.done.Done()
		ticker := time.NewTicker(s.delay)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			case <-ticker.C:
				frame := s.frames.Frames[i%len(s.frames.Frames)]
				elapsed := s.now().Sub(started).Truncate(time.Second)
				fmt.Fprintf(s.out, "\r%s %s %s", StyleSubtle.Render(frame), s.label,
					StyleSubtle.Render(fmt.Sprintf("(%s)", elapsed)))
			}
		}
	}()
}

// Stop halts drawing and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stop)
	s.mu.Unlock()

	s.done.Wait()
	fmt.Fprint(s.out, "\r\033[K")
}
