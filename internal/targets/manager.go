// Package targets adds and removes monitored hosts across the Prometheus
// configuration and the two blackbox target lists, keeping the three files
// consistent with each other.
//
// A host shows up in up to four places:
//
//   - a static config of the "prometheus" job, labelled with its instance name
//   - a per-host probe job named after the instance
//   - an entry of the IPv4 target list, keyed by IP
//   - an entry of the IPv6 target list, keyed by the formatted instance name
//
// The shared "blackbox_exporter" job may also list the host's exporter
// address.
package targets

import (
	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/targetlist"
)

// Defaults for Options fields left empty.
const (
	DefaultNodePort    = 9100
	DefaultProbePort   = 9115
	DefaultProbeModule = "icmp"
	DefaultSDFiles     = "/etc/prometheus/blackbox/*.yml"
)

// ListFile is a target list that can be reloaded and rewritten.
// targetlist.File is the production implementation.
type ListFile interface {
	LoadOrEmpty(log logger.Logger) targetlist.List
	Save(list targetlist.List) (string, error)
}

// Options tune the generated entries.
type Options struct {
	// NodePort is appended to hosts given without a port.
	NodePort int
	// ProbePort is the blackbox exporter port on each host.
	ProbePort int
	// ProbeModule is the blackbox module used by probe jobs.
	ProbeModule string
	// SDFiles is the file_sd glob probe jobs read their targets from.
	SDFiles string
	// Match selects how hosts are compared with stored targets.
	Match MatchMode
}

func (o Options) withDefaults() Options {
	if o.NodePort == 0 {
		o.NodePort = DefaultNodePort
	}
	if o.ProbePort == 0 {
		o.ProbePort = DefaultProbePort
	}
	if o.ProbeModule == "" {
		o.ProbeModule = DefaultProbeModule
	}
	if o.SDFiles == "" {
		o.SDFiles = DefaultSDFiles
	}
	if o.Match == "" {
		o.Match = MatchSubstring
	}
	return o
}

// Manager applies host additions and removals. The Prometheus document is
// passed in by the caller, who owns its load/save lifecycle; the target
// lists are reloaded and written by the Manager during each call.
type Manager struct {
	V4   ListFile
	V6   ListFile
	Opts Options
	Log  logger.Logger

	// DryRun skips writing the target lists.
	DryRun bool
}

// New creates a Manager. A nil log falls back to the standard logger,
// printing debug lines only when PEM_DEBUG is set.
func New(v4, v6 ListFile, opts Options, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewEnvLogger("[targets]")
	}
	return &Manager{
		V4:   v4,
		V6:   v6,
		Opts: opts.withDefaults(),
		Log:  log,
	}
}

// saveList writes a target list. Failures are logged and do not abort the
// surrounding add/remove: the Prometheus document may still be saved.
func (m *Manager) saveList(f ListFile, list targetlist.List, what string) bool {
	if m.DryRun {
		m.Log.Info("dry run: %s not written", what)
		return true
	}
	backup, err := f.Save(list)
	if err != nil {
		m.Log.Error("couldn't save %s: %v", what, err)
		return false
	}
	if backup != "" {
		m.Log.Debug("backed up %s to %s", what, backup)
	}
	return true
}
