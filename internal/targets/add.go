package targets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pem/internal/address"
	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/promconfig"
	"github.com/rileyhilliard/pem/internal/targetlist"
)

// AddRequest describes a host to start monitoring.
type AddRequest struct {
	// Host is the node exporter address: an IPv4 address with optional port.
	Host string
	// Instance names the host, e.g. "HK-Alice". It becomes the probe job
	// name and, formatted, the name label of both target lists.
	Instance string
	Code     string
	City     string

	// FilterIPv6 adds a relabel step to the probe job that drops targets
	// labelled ip=IPv6.
	FilterIPv6 bool
	// IPv6 is the host's IPv6 address. When set, the host is added to the
	// IPv6 target list.
	IPv6 string

	// AuthUsername and AuthPassword protect the blackbox exporter. Both
	// must be set to take effect.
	AuthUsername string
	AuthPassword string
}

// HasAuth reports whether both credentials were supplied.
func (r AddRequest) HasAuth() bool {
	return r.AuthUsername != "" && r.AuthPassword != ""
}

// Validate checks the fields the add algorithm relies on.
func (r AddRequest) Validate() error {
	if !address.Validate(r.Host, false) {
		return errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' isn't a valid IPv4 address", r.Host),
			"Use a form like 192.168.1.1 or 192.168.1.1:9100.")
	}
	if strings.TrimSpace(r.Instance) == "" {
		return errors.New(errors.ErrValidate, "Instance name is required", "For example: HK-Alice")
	}
	switch r.Instance {
	case promconfig.JobPrometheus, promconfig.JobBlackboxExporter, promconfig.JobCAdvisor:
		return errors.New(errors.ErrValidate,
			fmt.Sprintf("Can't use '%s' as an instance name - that job is managed separately", r.Instance),
			"Pick a name like HK-Alice.")
	}
	if strings.TrimSpace(r.Code) == "" {
		return errors.New(errors.ErrValidate, "Code is required", "For example: HKG")
	}
	if strings.TrimSpace(r.City) == "" {
		return errors.New(errors.ErrValidate, "City is required", "For example: Hong Kong")
	}
	if r.IPv6 != "" && !address.Validate(r.IPv6, true) {
		return errors.New(errors.ErrValidate,
			fmt.Sprintf("'%s' isn't a valid IPv6 address", r.IPv6),
			"Use a form like 2001:db8::1.")
	}
	if (r.AuthUsername == "") != (r.AuthPassword == "") {
		return errors.New(errors.ErrValidate,
			"Basic auth needs both a username and a password", "")
	}
	return nil
}

// Add registers the host described by req in doc and in the target lists.
// Existing entries are never duplicated; basic auth on existing jobs is
// updated in place.
//
// The result is true only when doc itself changed (a static config or a
// probe job was added). Target list additions are written but do not count,
// so a host already present in the Prometheus config does not trigger a
// restart.
func (m *Manager) Add(doc *promconfig.Document, req AddRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	hostIP, hostWithPort := address.Split(req.Host, m.Opts.NodePort)
	changed := m.addStaticConfig(doc, hostWithPort, req.Instance)

	probe := m.probeJob(req, hostIP)

	if req.HasAuth() {
		m.applyExporterAuth(doc, req, hostIP)
	}

	if existing := doc.Job(req.Instance); existing != nil {
		if req.HasAuth() {
			existing.SetBasicAuth(req.AuthUsername, req.AuthPassword)
			m.Log.Info("updated basic auth of job %s", req.Instance)
		}
	} else {
		if req.HasAuth() {
			probe.SetBasicAuth(req.AuthUsername, req.AuthPassword)
		}
		doc.AppendJob(probe)
		m.Log.Info("added job %s", req.Instance)
		changed = true
	}

	name := targetlist.FormatName(req.Instance)
	m.addV4(hostIP, name, req)
	if req.IPv6 != "" {
		m.addV6(name, req)
	}

	return changed, nil
}

// addStaticConfig appends the host to the prometheus job unless it is
// already listed there.
func (m *Manager) addStaticConfig(doc *promconfig.Document, hostWithPort, instance string) bool {
	job := doc.Job(promconfig.JobPrometheus)
	if job == nil {
		m.Log.Warn("no %s job in the config, skipping static target %s", promconfig.JobPrometheus, hostWithPort)
		return false
	}

	for _, sc := range job.StaticConfigs {
		if m.Opts.Match.anyHostPort(sc.Targets, hostWithPort) {
			m.Log.Debug("%s already in job %s", hostWithPort, job.Name)
			return false
		}
	}

	job.StaticConfigs = append(job.StaticConfigs, promconfig.StaticConfig{
		Targets: []string{hostWithPort},
		Labels:  map[string]string{promconfig.LabelInstance: instance},
	})
	m.Log.Info("added %s to job %s", hostWithPort, job.Name)
	return true
}

// probeJob builds the per-host job that probes the host through its own
// blackbox exporter.
func (m *Manager) probeJob(req AddRequest, hostIP string) *promconfig.Job {
	job := &promconfig.Job{
		Name:        req.Instance,
		MetricsPath: "/probe",
		Params:      map[string][]string{"module": {m.Opts.ProbeModule}},
		FileSDConfigs: []promconfig.FileSDConfig{
			{Files: []string{m.Opts.SDFiles}},
		},
		RelabelConfigs: []promconfig.RelabelConfig{
			{SourceLabels: []string{promconfig.LabelAddress}, TargetLabel: promconfig.LabelParamTarget},
			{SourceLabels: []string{promconfig.LabelParamTarget}, TargetLabel: promconfig.LabelInstance},
			{TargetLabel: promconfig.LabelAddress, Replacement: m.exporterAddress(hostIP)},
		},
	}

	if req.FilterIPv6 {
		job.RelabelConfigs = append(job.RelabelConfigs, promconfig.RelabelConfig{
			SourceLabels: []string{promconfig.LabelIP},
			Regex:        targetlist.FamilyIPv6,
			Action:       "drop",
		})
	}
	return job
}

// applyExporterAuth sets the credentials on the blackbox_exporter job,
// creating the job around this host's exporter if it doesn't exist.
func (m *Manager) applyExporterAuth(doc *promconfig.Document, req AddRequest, hostIP string) {
	if job := doc.Job(promconfig.JobBlackboxExporter); job != nil {
		job.SetBasicAuth(req.AuthUsername, req.AuthPassword)
		m.Log.Info("updated basic auth of job %s", job.Name)
		return
	}

	job := &promconfig.Job{
		Name:        promconfig.JobBlackboxExporter,
		MetricsPath: "/metrics",
		StaticConfigs: []promconfig.StaticConfig{
			{Targets: []string{m.exporterAddress(hostIP)}},
		},
	}
	job.SetBasicAuth(req.AuthUsername, req.AuthPassword)
	doc.AppendJob(job)
	m.Log.Info("added job %s with basic auth", job.Name)
}

func (m *Manager) exporterAddress(hostIP string) string {
	return hostIP + ":" + strconv.Itoa(m.Opts.ProbePort)
}

func (m *Manager) addV4(hostIP, name string, req AddRequest) {
	list := m.V4.LoadOrEmpty(m.Log)
	for _, e := range list {
		if len(e.Targets) > 0 && m.Opts.Match.hasIP(e.FirstTarget(), hostIP) {
			m.Log.Debug("%s already in IPv4 target list", hostIP)
			return
		}
	}

	list = append(list, targetlist.Entry{
		Targets: []string{hostIP},
		Labels: targetlist.Labels{
			Name: name,
			Code: req.Code,
			City: req.City,
			IP:   targetlist.FamilyIPv4,
		},
	})
	if m.saveList(m.V4, list, "IPv4 target list") {
		m.Log.Info("added %s to IPv4 target list", hostIP)
	}
}

func (m *Manager) addV6(name string, req AddRequest) {
	list := m.V6.LoadOrEmpty(m.Log)
	for _, e := range list {
		if e.Labels.Name == name {
			m.Log.Debug("%q already in IPv6 target list", name)
			return
		}
	}

	list = append(list, targetlist.Entry{
		Targets: []string{req.IPv6},
		Labels: targetlist.Labels{
			Name: name,
			Code: req.Code,
			City: req.City,
			IP:   targetlist.FamilyIPv6,
		},
	})
	if m.saveList(m.V6, list, "IPv6 target list") {
		m.Log.Info("added %s to IPv6 target list", req.IPv6)
	}
}
