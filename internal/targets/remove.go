package targets

import (
	"strings"

	"github.com/rileyhilliard/pem/internal/address"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targetlist"
)

// Remove deletes every trace of host from doc and from both target lists.
// host is an IP with an optional port; the node port is assumed when none
// is given. Target lists are written only when they change.
// Returns true if anything was removed.
func (m *Manager) Remove(doc *promconfig.Document, host string) (bool, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return false, errors.New(errors.ErrValidate, "Host address is required", "")
	}

	baseIP, hostWithPort := address.Split(host, m.Opts.NodePort)

	changed, instance := m.removeStaticConfigs(doc, hostWithPort)

	jobsChanged, jobInstance := m.removeJobs(doc, baseIP)
	changed = changed || jobsChanged
	if instance == "" {
		instance = jobInstance
	}

	if m.removeV4(baseIP) {
		changed = true
	}

	if instance != "" && m.removeV6(targetlist.FormatName(instance)) {
		changed = true
	}

	return changed, nil
}

// removeStaticConfigs drops the host's static configs from the prometheus
// job and returns the instance label they carried.
func (m *Manager) removeStaticConfigs(doc *promconfig.Document, hostWithPort string) (bool, string) {
	changed := false
	instance := ""

	for _, job := range doc.ScrapeConfigs {
		if job.Role() != promconfig.RolePrometheus {
			continue
		}

		kept := job.StaticConfigs[:0:0]
		for _, sc := range job.StaticConfigs {
			if m.Opts.Match.anyHostPort(sc.Targets, hostWithPort) {
				if name := sc.Labels[promconfig.LabelInstance]; name != "" {
					instance = name
				}
				m.Log.Info("removed %s from job %s", hostWithPort, job.Name)
				changed = true
				continue
			}
			kept = append(kept, sc)
		}
		if len(kept) != len(job.StaticConfigs) {
			job.StaticConfigs = kept
		}
	}

	return changed, instance
}

// removeJobs rebuilds scrape_configs without the host: its exporter targets
// leave blackbox_exporter, and probe jobs aimed at it are dropped. When a
// probe job is dropped its name is returned as the instance name.
func (m *Manager) removeJobs(doc *promconfig.Document, baseIP string) (bool, string) {
	changed := false
	instance := ""

	kept := make([]*promconfig.Job, 0, len(doc.ScrapeConfigs))
	for _, job := range doc.ScrapeConfigs {
		switch job.Role() {
		case promconfig.RolePrometheus, promconfig.RoleCAdvisor:
			kept = append(kept, job)

		case promconfig.RoleBlackboxExporter:
			removed, empty := m.pruneBlackbox(job, baseIP)
			if removed {
				changed = true
			}
			if removed && empty {
				m.Log.Info("removed job %s, no targets left", job.Name)
				continue
			}
			kept = append(kept, job)

		default:
			if m.probesHost(job, baseIP) {
				m.Log.Info("removed job %s", job.Name)
				changed = true
				if instance == "" {
					instance = job.Name
				}
				continue
			}
			kept = append(kept, job)
		}
	}

	if len(kept) != len(doc.ScrapeConfigs) {
		doc.ScrapeConfigs = kept
	}
	return changed, instance
}

// pruneBlackbox removes the host's targets from the blackbox_exporter job.
// Reports whether anything was removed and whether no targets remain.
func (m *Manager) pruneBlackbox(job *promconfig.Job, baseIP string) (removed, empty bool) {
	var configs []promconfig.StaticConfig
	for _, sc := range job.StaticConfigs {
		var targets []string
		for _, t := range sc.Targets {
			if m.Opts.Match.hasIP(t, baseIP) {
				m.Log.Info("removed %s from job %s", t, job.Name)
				removed = true
				continue
			}
			targets = append(targets, t)
		}
		if len(targets) > 0 {
			sc.Targets = targets
			configs = append(configs, sc)
		}
	}

	if removed {
		job.StaticConfigs = configs
	}
	return removed, len(configs) == 0
}

// probesHost reports whether job sends its probes to the host's exporter.
func (m *Manager) probesHost(job *promconfig.Job, baseIP string) bool {
	for _, rc := range job.RelabelConfigs {
		if rc.TargetLabel == promconfig.LabelAddress && m.Opts.Match.hasIP(rc.Replacement, baseIP) {
			return true
		}
	}
	return false
}

func (m *Manager) removeV4(baseIP string) bool {
	list := m.V4.LoadOrEmpty(m.Log)
	if len(list) == 0 {
		return false
	}

	kept := make(targetlist.List, 0, len(list))
	for _, e := range list {
		if len(e.Targets) > 0 && m.Opts.Match.hasIP(e.FirstTarget(), baseIP) {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(list) {
		return false
	}

	if m.saveList(m.V4, kept, "IPv4 target list") {
		m.Log.Info("removed %s from IPv4 target list", baseIP)
	}
	return true
}

func (m *Manager) removeV6(name string) bool {
	list := m.V6.LoadOrEmpty(m.Log)
	if len(list) == 0 {
		return false
	}

	kept := make(targetlist.List, 0, len(list))
	for _, e := range list {
		if e.Labels.Name == name {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == len(list) {
		return false
	}

	if m.saveList(m.V6, kept, "IPv6 target list") {
		m.Log.Info("removed %q from IPv6 target list", name)
	}
	return true
}
