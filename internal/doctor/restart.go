package doctor

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rileyhilliard/pem/internal/activate"
)

// RestartCheck verifies the program that restarts Prometheus is installed.
// Nothing is run.
type RestartCheck struct {
	Container string
	Command   string
}

func (c *RestartCheck) Name() string     { return "restart" }
func (c *RestartCheck) Category() string { return CategoryRestart }

func (c *RestartCheck) Run() CheckResult {
	if c.Command != "" {
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/sh"
		}
		if _, err := exec.LookPath(shell); err != nil {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusFail,
				Message:    fmt.Sprintf("Shell %s not found for restart.command", shell),
				Suggestion: "Set SHELL to an installed shell",
			}
		}
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: fmt.Sprintf("Restart with: %s", c.Command),
		}
	}

	container := c.Container
	if container == "" {
		container = activate.DefaultContainer
	}
	path, err := exec.LookPath("docker")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "docker not found",
			Suggestion: "Install docker, set restart.command, or pass --no-restart",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Restart with: %s restart %s", path, container),
	}
}

func (c *RestartCheck) Fix() error {
	return nil // System package installation is out of scope
}
