package doctor

import (
	"fmt"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targetlist"
)

// PrometheusFileCheck verifies the Prometheus config exists and parses.
type PrometheusFileCheck struct {
	Path string
}

func (c *PrometheusFileCheck) Name() string     { return "prometheus_config" }
func (c *PrometheusFileCheck) Category() string { return CategoryFiles }

func (c *PrometheusFileCheck) Run() CheckResult {
	doc, err := promconfig.Load(c.Path)
	if err != nil {
		suggestion := "Check the YAML syntax, or restore the latest .bak copy"
		if errors.IsCode(err, errors.ErrNotFound) {
			suggestion = "Set prometheus_config in .pem.yaml or PEM_PROMETHEUS_CONFIG"
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Prometheus config %s is unusable", c.Path),
			Suggestion: suggestion,
		}
	}

	if doc.Job(promconfig.JobPrometheus) == nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s has no '%s' job", c.Path, promconfig.JobPrometheus),
			Suggestion: "New hosts won't get a node exporter target until the job exists",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (%d jobs)", c.Path, len(doc.ScrapeConfigs)),
	}
}

func (c *PrometheusFileCheck) Fix() error {
	return nil // Never generated from scratch
}

// TargetListCheck verifies a blackbox target list parses. A missing list is
// only a warning: the next add creates it.
type TargetListCheck struct {
	Label string // "IPv4" or "IPv6"
	File  targetlist.File
}

func (c *TargetListCheck) Name() string     { return "targets_" + c.Label }
func (c *TargetListCheck) Category() string { return CategoryFiles }

func (c *TargetListCheck) Run() CheckResult {
	list, err := c.File.Load()
	switch {
	case errors.IsCode(err, errors.ErrNotFound):
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s target list %s doesn't exist", c.Label, c.File.Path),
			Suggestion: "It's created on the next add, or run with --fix to create it empty",
			Fixable:    true,
		}
	case err != nil:
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s target list %s doesn't parse", c.Label, c.File.Path),
			Suggestion: "Expected a YAML list of {targets, labels} entries. Restore the latest .bak copy",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s (%d entr%s)", c.File.Path, len(list), entrySuffix(len(list))),
	}
}

// Fix creates a missing list as an empty file.
func (c *TargetListCheck) Fix() error {
	_, err := c.File.Load()
	if !errors.IsCode(err, errors.ErrNotFound) {
		return nil
	}
	_, err = c.File.Save(targetlist.List{})
	return err
}

func entrySuffix(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
