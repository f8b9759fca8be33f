package doctor

import (
	"fmt"

	"github.com/rileyhilliard/pem/internal/config"
)

// SettingsCheck verifies that the settings file, if any, loads and validates.
type SettingsCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *SettingsCheck) Name() string     { return "settings" }
func (c *SettingsCheck) Category() string { return CategorySettings }

func (c *SettingsCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding settings: %v", err),
			Suggestion: "Check the --config path",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load %s", path),
			Suggestion: "Check the YAML syntax in your settings file",
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Settings are invalid",
			Suggestion: err.Error(),
		}
	}

	if path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No settings file, using defaults and PEM_* environment",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Settings: %s", path),
	}
}

func (c *SettingsCheck) Fix() error {
	return nil // Settings issues require manual intervention
}
