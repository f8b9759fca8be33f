package targets

import (
	"github.com/rileyhilliard/pem/internal/address"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targetlist"
)

// HostSummary joins what the three files know about one host.
type HostSummary struct {
	Instance string
	// Target is the node exporter address from the prometheus job, empty
	// for a probe job with no matching static config.
	Target string
	IP     string

	ProbeJob  bool
	BasicAuth bool
	V4        *targetlist.Entry
	V6        *targetlist.Entry
}

// Complete reports whether the host is present everywhere an add would have
// put it, ignoring the optional IPv6 entry.
func (h HostSummary) Complete() bool {
	return h.Target != "" && h.ProbeJob && h.V4 != nil
}

// Inventory lists the hosts of doc in the order of the prometheus job,
// followed by probe jobs that have no static config.
func Inventory(doc *promconfig.Document, v4, v6 targetlist.List, mode MatchMode) []HostSummary {
	var hosts []HostSummary
	seenJobs := make(map[string]bool)

	if prom := doc.Job(promconfig.JobPrometheus); prom != nil {
		for _, sc := range prom.StaticConfigs {
			for _, target := range sc.Targets {
				h := HostSummary{
					Instance: sc.Labels[promconfig.LabelInstance],
					Target:   target,
					IP:       address.HostOf(target),
				}
				if job := findProbeJob(doc, h.Instance, h.IP, mode); job != nil {
					h.ProbeJob = true
					h.BasicAuth = job.BasicAuth != nil
					seenJobs[job.Name] = true
				}
				h.V4 = findV4(v4, h.IP, mode)
				h.V6 = findV6(v6, targetlist.FormatName(h.Instance))
				hosts = append(hosts, h)
			}
		}
	}

	for _, job := range doc.ScrapeConfigs {
		if job.Role() != promconfig.RoleProbe || seenJobs[job.Name] {
			continue
		}
		replacement, _ := job.AddressReplacement()
		h := HostSummary{
			Instance:  job.Name,
			IP:        address.HostOf(replacement),
			ProbeJob:  true,
			BasicAuth: job.BasicAuth != nil,
		}
		h.V4 = findV4(v4, h.IP, mode)
		h.V6 = findV6(v6, targetlist.FormatName(h.Instance))
		hosts = append(hosts, h)
	}

	return hosts
}

func findProbeJob(doc *promconfig.Document, instance, ip string, mode MatchMode) *promconfig.Job {
	if instance != "" {
		if job := doc.Job(instance); job != nil && job.Role() == promconfig.RoleProbe {
			return job
		}
	}
	for _, job := range doc.ScrapeConfigs {
		if job.Role() != promconfig.RoleProbe {
			continue
		}
		if replacement, _ := job.AddressReplacement(); mode.hasIP(replacement, ip) {
			return job
		}
	}
	return nil
}

func findV4(list targetlist.List, ip string, mode MatchMode) *targetlist.Entry {
	for i := range list {
		if len(list[i].Targets) > 0 && mode.hasIP(list[i].FirstTarget(), ip) {
			return &list[i]
		}
	}
	return nil
}

func findV6(list targetlist.List, name string) *targetlist.Entry {
	if name == "" {
		return nil
	}
	for i := range list {
		if list[i].Labels.Name == name {
			return &list[i]
		}
	}
	return nil
}
