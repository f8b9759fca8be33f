package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pem/internal/errors"
)

// Match modes accepted in the settings file.
var matchModes = map[string]bool{
	"substring": true,
	"exact":     true,
}

// Validate checks the settings for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Settings are nil",
			"This is unexpected - try running the command again.")
	}

	if err := validatePaths(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Set prometheus_config, targets_v4 and targets_v6 in your .pem.yaml.")
	}

	if !matchModes[cfg.Match] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown match mode '%s'", cfg.Match),
			"Use 'substring' or 'exact'.")
	}

	if err := validatePort("ports.node", cfg.Ports.Node); err != nil {
		return err
	}
	if err := validatePort("ports.probe", cfg.Ports.Probe); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Probe.Module) == "" {
		return errors.New(errors.ErrConfig,
			"probe.module can't be empty",
			"Name a blackbox exporter module, like 'icmp'.")
	}
	if strings.TrimSpace(cfg.Probe.SDFiles) == "" {
		return errors.New(errors.ErrConfig,
			"probe.sd_files can't be empty",
			"Point it at the target lists as Prometheus sees them, like '/etc/prometheus/blackbox/*.yml'.")
	}

	if err := validateRestart(cfg.Restart); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Check the 'restart' section in your .pem.yaml.")
	}

	return nil
}

func validatePaths(cfg *Config) error {
	paths := []struct {
		key, value string
	}{
		{"prometheus_config", cfg.PrometheusConfig},
		{"targets_v4", cfg.TargetsV4},
		{"targets_v6", cfg.TargetsV6},
	}
	seen := make(map[string]string)
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%s can't be empty", p.key)
		}
		if other, ok := seen[p.value]; ok {
			return fmt.Errorf("%s and %s point at the same file (%s)", other, p.key, p.value)
		}
		seen[p.value] = p.key
	}
	return nil
}

func validatePort(key string, port int) error {
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s must be between 1 and 65535, got %d", key, port),
			"Use the port the exporter listens on.")
	}
	return nil
}

func validateRestart(r RestartConfig) error {
	if r.Timeout < 0 {
		return fmt.Errorf("restart.timeout can't be negative (got %s)", r.Timeout)
	}
	if r.Command == "" && strings.TrimSpace(r.Container) == "" {
		return fmt.Errorf("restart needs either a container or a command")
	}
	return nil
}
