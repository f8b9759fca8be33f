package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows a single status line for a step that takes a while, such as
// restarting Prometheus. It ends with a success or failure mark and the time
// taken.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	label   string
	animate bool

	frame   int
	width   int
	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// NewSpinner returns a spinner writing to w. Without animate (w is not a
// terminal) only the final line is written.
func NewSpinner(w io.Writer, label string, animate bool) *Spinner {
	return &Spinner{w: w, label: label, animate: animate}
}

// Start begins timing and, when animating, draws frames until Success or
// Fail. Calling Start twice has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.IsZero() {
		return
	}
	s.started = time.Now()
	if !s.animate {
		return
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.drawLocked()
	go s.spin()
}

// Success ends the line with a check mark.
func (s *Spinner) Success() {
	s.finish(SymbolSuccess, ColorSuccess)
}

// Fail ends the line with a cross.
func (s *Spinner) Fail() {
	s.finish(SymbolFail, ColorError)
}

func (s *Spinner) spin() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) drawLocked() {
	style := lipgloss.NewStyle().Foreground(GradientColors[(s.frame/2)%len(GradientColors)])
	line := fmt.Sprintf("%s %s...", style.Render(spinnerFrames[s.frame]), s.label)
	s.clearLocked()
	_, _ = io.WriteString(s.w, line)
	s.width = len([]rune(line))
}

func (s *Spinner) clearLocked() {
	if s.width > 0 {
		_, _ = io.WriteString(s.w, "\r"+strings.Repeat(" ", s.width)+"\r")
		s.width = 0
	}
}

func (s *Spinner) finish(symbol string, color lipgloss.Color) {
	s.mu.Lock()
	stop, done := s.stop, s.done
	s.stop = nil
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started.IsZero() {
		s.started = time.Now()
	}
	s.clearLocked()

	timing := lipgloss.NewStyle().Foreground(ColorMuted).Render(formatDuration(time.Since(s.started)))
	mark := lipgloss.NewStyle().Foreground(color).Render(symbol)
	_, _ = fmt.Fprintf(s.w, "%s %s %s\n", mark, s.label, timing)
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
