// Package activate makes configuration changes take effect by restarting the
// Prometheus process.
package activate

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rileyhilliard/pem/internal/errors"
)

// DefaultContainer is the container restarted when nothing else is configured.
const DefaultContainer = "prometheus"

// Activator applies the saved configuration.
type Activator interface {
	// Activate blocks until the restart finished and returns its output.
	Activate(ctx context.Context) (string, error)
	// Describe names what Activate runs, for status messages.
	Describe() string
}

// CommandActivator restarts Prometheus with an external command: a shell
// command when Command is set, otherwise `docker restart <Container>`.
type CommandActivator struct {
	Container string
	Command   string
	// Timeout bounds the command. Zero means no limit beyond ctx.
	Timeout time.Duration
}

// Describe implements Activator.
func (a CommandActivator) Describe() string {
	if a.Command != "" {
		return a.Command
	}
	return "docker restart " + a.container()
}

func (a CommandActivator) container() string {
	if a.Container == "" {
		return DefaultContainer
	}
	return a.Container
}

// Activate implements Activator. Failures are never retried.
func (a CommandActivator) Activate(ctx context.Context) (string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	command := a.command(ctx)
	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	// Don't hang on grandchildren still holding the pipes after a kill.
	command.WaitDelay = time.Second

	runErr := command.Run()
	output := strings.TrimSpace(stdout.String())
	if runErr == nil {
		return output, nil
	}

	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, errors.WrapWithCode(ctx.Err(), errors.ErrActivate,
			fmt.Sprintf("'%s' didn't finish within %s", a.Describe(), a.Timeout),
			"The config files were saved. Restart Prometheus by hand once it responds.")
	}

	var exitErr *exec.ExitError
	if stderrors.As(runErr, &exitErr) {
		cause := fmt.Errorf("exit status %d", exitErr.ExitCode())
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = fmt.Errorf("exit status %d: %s", exitErr.ExitCode(), msg)
		}
		return output, errors.WrapWithCode(cause, errors.ErrActivate,
			fmt.Sprintf("'%s' failed", a.Describe()),
			"The config files were saved but not reverted. Fix the problem and restart Prometheus by hand.")
	}

	return output, errors.WrapWithCode(runErr, errors.ErrActivate,
		fmt.Sprintf("Couldn't run '%s'", a.Describe()),
		"Make sure the command exists and is executable.")
}

func (a CommandActivator) command(ctx context.Context) *exec.Cmd {
	if a.Command == "" {
		return exec.CommandContext(ctx, "docker", "restart", a.container())
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return exec.CommandContext(ctx, shell, "-c", a.Command)
}

// Noop skips the restart. Used for --no-restart and --dry-run.
type Noop struct{}

// Activate implements Activator.
func (Noop) Activate(context.Context) (string, error) { return "", nil }

// Describe implements Activator.
func (Noop) Describe() string { return "no restart" }
