package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// HeaderInfo contains information to display in the menu header.
type HeaderInfo struct {
	Version string // Version string (e.g., "v0.4.0")
	Config  string // Prometheus config being edited
	Restart string // What runs after a change, e.g. "docker restart prometheus"
}

// HeaderWidth is the default width of the header divider
const HeaderWidth = 50

// RenderHeader renders the banner shown above the interactive menu.
func RenderHeader(info HeaderInfo) string {
	titleStyle := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true)
	versionStyle := lipgloss.NewStyle().Foreground(ColorInfo)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	dividerStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	var output strings.Builder

	output.WriteString(titleStyle.Render("pem"))
	if info.Version != "" {
		output.WriteString(" ")
		output.WriteString(versionStyle.Render(info.Version))
	}
	output.WriteString("\n")

	if info.Config != "" {
		output.WriteString(mutedStyle.Render("config:  " + info.Config))
		output.WriteString("\n")
	}
	if info.Restart != "" {
		output.WriteString(mutedStyle.Render("restart: " + info.Restart))
		output.WriteString("\n")
	}

	output.WriteString(dividerStyle.Render(strings.Repeat("━", HeaderWidth)))
	output.WriteString("\n")

	return output.String()
}

// PrintHeader writes the styled header to w.
func PrintHeader(w io.Writer, info HeaderInfo) {
	fmt.Fprint(w, RenderHeader(info))
}
