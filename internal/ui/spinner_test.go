package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// lockedBuffer is written by the animation goroutine and read by the test.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerStatic(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner(&buf, "Restarting Prometheus", false)
	s.Start()
	assert.Empty(t, buf.String(), "no animation frames without a terminal")

	s.Success()
	out := buf.String()
	assert.Contains(t, out, SymbolSuccess)
	assert.Contains(t, out, "Restarting Prometheus")
	assert.NotContains(t, out, "\r")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSpinnerAnimated(t *testing.T) {
	var buf lockedBuffer

	s := NewSpinner(&buf, "Restarting Prometheus", true)
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Success()

	out := buf.String()
	assert.Contains(t, out, "Restarting Prometheus...")
	assert.Contains(t, out, "\r", "frames are redrawn in place")
	assert.Contains(t, out, SymbolSuccess)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSpinnerFail(t *testing.T) {
	var buf lockedBuffer

	s := NewSpinner(&buf, "Restarting Prometheus", true)
	s.Start()
	s.Fail()

	out := buf.String()
	assert.Contains(t, out, SymbolFail)
	assert.NotContains(t, out, SymbolSuccess)
}

func TestSpinnerDoubleStart(t *testing.T) {
	var buf lockedBuffer

	s := NewSpinner(&buf, "Test", true)
	s.Start()
	s.Start()
	s.Success()

	assert.Equal(t, 1, strings.Count(buf.String(), SymbolSuccess))
}

func TestSpinnerFinishWithoutStart(t *testing.T) {
	var buf bytes.Buffer

	s := NewSpinner(&buf, "Test", true)
	s.Fail()

	assert.Contains(t, buf.String(), SymbolFail+" Test")
}

func TestSpinnerFrames(t *testing.T) {
	expected := []string{"◐", "◓", "◑", "◒"}
	assert.Equal(t, expected, spinnerFrames)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{0, "0.00s"},
		{50 * time.Millisecond, "0.05s"},
		{100 * time.Millisecond, "0.1s"},
		{1 * time.Second, "1.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{10 * time.Second, "10.0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatDuration(tt.duration)
			assert.Equal(t, tt.want, got)
		})
	}
}
