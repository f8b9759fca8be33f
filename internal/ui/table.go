package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{
			Title: c.Title,
			Width: c.Width,
		}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	// Apply styling
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(string(ColorMuted))).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Cell = s.Cell.
		Foreground(lipgloss.Color(string(ColorPrimary)))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(string(ColorPrimary))).
		Background(lipgloss.Color(string(ColorMuted))).
		Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	// Create the table
	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// HostRow is one monitored host in the `pem list` table.
type HostRow struct {
	Instance string
	Target   string // node exporter address, empty when missing
	IPv6     string // IPv6 list target, empty when missing
	Probe    bool   // per-host probe job present
	Auth     bool   // probe job carries basic_auth
	V4       bool   // IPv4 list entry present
	Complete bool   // present everywhere an add would put it
}

// RenderHostTable renders the host inventory with one status icon per file.
func RenderHostTable(rows []HostRow) string {
	if len(rows) == 0 {
		return "No hosts configured"
	}

	successStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorSuccess)))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorWarning)))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(string(ColorMuted)))

	mark := func(ok bool) string {
		if ok {
			return successStyle.Render(SymbolComplete)
		}
		return mutedStyle.Render(SymbolPending)
	}

	var output string

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(string(ColorPrimary))).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(string(ColorMuted)))

	output += headerStyle.Render("    "+
		padRight("INSTANCE", 18)+
		padRight("TARGET", 22)+
		padRight("PROBE", 7)+
		padRight("AUTH", 6)+
		padRight("V4", 4)+
		"V6") + "\n"

	for _, row := range rows {
		status := successStyle.Render(SymbolSuccess)
		if !row.Complete {
			status = warnStyle.Render(SymbolWarning)
		}

		target := row.Target
		if target == "" {
			target = mutedStyle.Render("-")
		}
		v6 := mutedStyle.Render(SymbolPending)
		if row.IPv6 != "" {
			v6 = successStyle.Render(SymbolComplete) + " " + mutedStyle.Render(row.IPv6)
		}

		rowLine := "  " + status + " " +
			padRight(row.Instance, 18) +
			padRight(target, 22) +
			padRight(mark(row.Probe), 7) +
			padRight(mark(row.Auth), 6) +
			padRight(mark(row.V4), 4) +
			v6
		output += rowLine + "\n"
	}

	return output
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	padding := width - visibleLen
	return s + strings.Repeat(" ", padding)
}
