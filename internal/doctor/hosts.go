package doctor

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targetlist"
	"github.com/rileyhilliard/pem/internal/targets"
)

// HostsSyncCheck verifies every host appears in all the places an add puts
// it: the prometheus job, its own probe job and the IPv4 target list.
type HostsSyncCheck struct {
	PrometheusConfig string
	V4               targetlist.File
	V6               targetlist.File
	Match            targets.MatchMode
}

func (c *HostsSyncCheck) Name() string     { return "hosts_sync" }
func (c *HostsSyncCheck) Category() string { return CategoryHosts }

func (c *HostsSyncCheck) Run() CheckResult {
	doc, err := promconfig.Load(c.PrometheusConfig)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check hosts: Prometheus config unusable",
		}
	}

	v4, err := loadList(c.V4)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check hosts: IPv4 target list unusable",
		}
	}
	v6, err := loadList(c.V6)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot check hosts: IPv6 target list unusable",
		}
	}

	hosts := targets.Inventory(doc, v4, v6, c.Match)
	var incomplete []string
	for _, h := range hosts {
		if !h.Complete() {
			incomplete = append(incomplete, h.Instance)
		}
	}

	if len(incomplete) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%d of %d hosts are missing entries: %s", len(incomplete), len(hosts), strings.Join(incomplete, ", ")),
			Suggestion: "Run 'pem add' for them again, or 'pem remove' to clean up",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d host%s in sync", len(hosts), pluralize(len(hosts))),
	}
}

func (c *HostsSyncCheck) Fix() error {
	return nil // Needs the operator to say which side is right
}

// loadList treats a missing list as empty.
func loadList(f targetlist.File) (targetlist.List, error) {
	list, err := f.Load()
	if errors.IsCode(err, errors.ErrNotFound) {
		return targetlist.List{}, nil
	}
	return list, err
}
