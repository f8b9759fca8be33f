package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/ui"
)

// consoleLogger prints progress messages of the target manager as indented,
// symbol-prefixed lines.
type consoleLogger struct {
	w io.Writer
}

func newConsoleLogger(w io.Writer) logger.Logger {
	return &consoleLogger{w: w}
}

func (l *consoleLogger) Debug(format string, args ...interface{}) {
	if logger.DebugEnabled() {
		l.print(ui.ColorMuted, "·", format, args...)
	}
}

func (l *consoleLogger) Info(format string, args ...interface{}) {
	l.print(ui.ColorInfo, ui.SymbolComplete, format, args...)
}

func (l *consoleLogger) Warn(format string, args ...interface{}) {
	l.print(ui.ColorWarning, ui.SymbolWarning, format, args...)
}

func (l *consoleLogger) Error(format string, args ...interface{}) {
	l.print(ui.ColorError, ui.SymbolFail, format, args...)
}

func (l *consoleLogger) print(color lipgloss.Color, symbol, format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(color)
	fmt.Fprintf(l.w, "  %s %s\n", style.Render(symbol), fmt.Sprintf(format, args...))
}

// renderError formats err for the terminal. Structured errors already carry
// the failure symbol and suggestion; their headline is colored.
func renderError(err error) string {
	errStyle := lipgloss.NewStyle().Foreground(ui.ColorError)

	var pemErr *errors.Error
	if stderrors.As(err, &pemErr) {
		text := pemErr.Error()
		headline, rest, _ := strings.Cut(text, "\n")
		return errStyle.Render(headline) + "\n" + rest
	}
	return errStyle.Render(ui.SymbolFail+" "+err.Error()) + "\n"
}

func printSuccess(w io.Writer, format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	fmt.Fprintf(w, "%s %s\n", style.Render(ui.SymbolSuccess), fmt.Sprintf(format, args...))
}

func printNote(w io.Writer, format string, args ...interface{}) {
	style := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	fmt.Fprintln(w, style.Render(fmt.Sprintf(format, args...)))
}
