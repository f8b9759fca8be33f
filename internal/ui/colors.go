package ui

import (
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication, as ANSI codes for terminal
// compatibility.
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
	ColorAccent    lipgloss.Color = "5" // Magenta
)

// GradientColors are cycled through by the spinner animation.
var GradientColors = []lipgloss.Color{
	ColorAccent,
	ColorSecondary,
	ColorInfo,
	ColorSuccess,
}

var colorsDisabled atomic.Bool

// DisableColors switches every renderer to plain ASCII output (--no-color).
func DisableColors() {
	colorsDisabled.Store(true)
	lipgloss.SetColorProfile(termenv.Ascii)
}

// ColorsEnabled reports whether DisableColors has not been called.
func ColorsEnabled() bool {
	return !colorsDisabled.Load()
}
