package config

import "time"

// Default locations of the managed files on a Grafana/Prometheus docker host.
const (
	DefaultPrometheusConfig = "/root/docker/Grafana/prometheus.yml"
	DefaultTargetsV4        = "/root/docker/Grafana/prometheus-data/blackbox/my_vps.yml"
	DefaultTargetsV6        = "/root/docker/Grafana/prometheus-data/blackbox/my_vps_v6.yml"
)

// Config holds the pem settings: where the managed files live, how hosts are
// matched and how Prometheus is restarted.
type Config struct {
	// PrometheusConfig is the Prometheus configuration file with scrape_configs.
	PrometheusConfig string `yaml:"prometheus_config" mapstructure:"prometheus_config"`

	// TargetsV4 and TargetsV6 are the blackbox file_sd target lists.
	TargetsV4 string `yaml:"targets_v4" mapstructure:"targets_v4"`
	TargetsV6 string `yaml:"targets_v6" mapstructure:"targets_v6"`

	// Match is "substring" or "exact".
	Match string `yaml:"match" mapstructure:"match"`

	// Backup copies each file to <path>.bak.<timestamp> before rewriting it.
	Backup bool `yaml:"backup" mapstructure:"backup"`

	Ports   PortsConfig   `yaml:"ports" mapstructure:"ports"`
	Probe   ProbeConfig   `yaml:"probe" mapstructure:"probe"`
	Restart RestartConfig `yaml:"restart" mapstructure:"restart"`
}

// PortsConfig sets the exporter ports used when generating targets.
type PortsConfig struct {
	// Node is the node exporter port, appended to hosts given without one.
	Node int `yaml:"node" mapstructure:"node"`
	// Probe is the blackbox exporter port on each host.
	Probe int `yaml:"probe" mapstructure:"probe"`
}

// ProbeConfig shapes the generated per-host probe jobs.
type ProbeConfig struct {
	Module  string `yaml:"module" mapstructure:"module"`
	SDFiles string `yaml:"sd_files" mapstructure:"sd_files"`
}

// RestartConfig controls how changes are applied.
type RestartConfig struct {
	// Container is restarted with `docker restart` when Command is empty.
	Container string `yaml:"container" mapstructure:"container"`
	// Command replaces the docker restart, run through $SHELL -c.
	Command string `yaml:"command" mapstructure:"command"`
	// Timeout bounds the restart. Zero waits forever.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		PrometheusConfig: DefaultPrometheusConfig,
		TargetsV4:        DefaultTargetsV4,
		TargetsV6:        DefaultTargetsV6,
		Match:            "substring",
		Backup:           true,
		Ports: PortsConfig{
			Node:  9100,
			Probe: 9115,
		},
		Probe: ProbeConfig{
			Module:  "icmp",
			SDFiles: "/etc/prometheus/blackbox/*.yml",
		},
		Restart: RestartConfig{
			Container: "prometheus",
			Timeout:   60 * time.Second,
		},
	}
}
