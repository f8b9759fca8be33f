package promconfig

// Job names with a fixed meaning in the managed config.
const (
	JobPrometheus       = "prometheus"
	JobBlackboxExporter = "blackbox_exporter"
	JobCAdvisor         = "cadvisor"
)

// Relabeling labels used by probe jobs.
const (
	LabelAddress     = "__address__"
	LabelParamTarget = "__param_target"
	LabelInstance    = "instance"
	LabelIP          = "ip"
)

// Job is one entry of scrape_configs. Keys not modeled here are kept in
// Extra and written back unchanged.
type Job struct {
	Name           string              `yaml:"job_name"`
	MetricsPath    string              `yaml:"metrics_path,omitempty"`
	Params         map[string][]string `yaml:"params,omitempty"`
	StaticConfigs  []StaticConfig      `yaml:"static_configs,omitempty"`
	FileSDConfigs  []FileSDConfig      `yaml:"file_sd_configs,omitempty"`
	RelabelConfigs []RelabelConfig     `yaml:"relabel_configs,omitempty"`
	BasicAuth      *BasicAuth          `yaml:"basic_auth,omitempty"`
	Extra          map[string]any      `yaml:",inline"`
}

// The nested config types below keep unmodeled keys in Extra too.

// StaticConfig is a fixed target group.
type StaticConfig struct {
	Targets []string          `yaml:"targets"`
	Labels  map[string]string `yaml:"labels,omitempty"`
	Extra   map[string]any    `yaml:",inline"`
}

// FileSDConfig points Prometheus at target files on disk.
type FileSDConfig struct {
	Files           []string       `yaml:"files"`
	RefreshInterval string         `yaml:"refresh_interval,omitempty"`
	Extra           map[string]any `yaml:",inline"`
}

// RelabelConfig is one step of a relabel chain.
type RelabelConfig struct {
	SourceLabels []string       `yaml:"source_labels,flow,omitempty"`
	Separator    string         `yaml:"separator,omitempty"`
	Regex        string         `yaml:"regex,omitempty"`
	Modulus      uint64         `yaml:"modulus,omitempty"`
	TargetLabel  string         `yaml:"target_label,omitempty"`
	Replacement  string         `yaml:"replacement,omitempty"`
	Action       string         `yaml:"action,omitempty"`
	Extra        map[string]any `yaml:",inline"`
}

// BasicAuth holds scrape credentials.
type BasicAuth struct {
	Username     string         `yaml:"username,omitempty"`
	UsernameFile string         `yaml:"username_file,omitempty"`
	Password     string         `yaml:"password,omitempty"`
	PasswordFile string         `yaml:"password_file,omitempty"`
	Extra        map[string]any `yaml:",inline"`
}

// Role classifies a job by what host add/remove may do with it.
type Role int

const (
	// RoleOther is any job the tool does not manage.
	RoleOther Role = iota
	// RolePrometheus holds one static config per monitored host, keyed by
	// its instance label.
	RolePrometheus
	// RoleBlackboxExporter aggregates exporter targets for every host and
	// carries the exporter's basic auth.
	RoleBlackboxExporter
	// RoleCAdvisor is never touched by host removal.
	RoleCAdvisor
	// RoleProbe is a per-host job that sends probes to a fixed exporter
	// address through relabeling.
	RoleProbe
)

func (r Role) String() string {
	switch r {
	case RolePrometheus:
		return "prometheus"
	case RoleBlackboxExporter:
		return "blackbox_exporter"
	case RoleCAdvisor:
		return "cadvisor"
	case RoleProbe:
		return "probe"
	default:
		return "other"
	}
}

// Role returns the job's role, decided by its name first and its relabel
// chain second.
func (j *Job) Role() Role {
	switch j.Name {
	case JobPrometheus:
		return RolePrometheus
	case JobBlackboxExporter:
		return RoleBlackboxExporter
	case JobCAdvisor:
		return RoleCAdvisor
	}
	if _, ok := j.AddressReplacement(); ok {
		return RoleProbe
	}
	return RoleOther
}

// AddressReplacement returns the replacement of the first relabel step that
// rewrites __address__ to a fixed value.
func (j *Job) AddressReplacement() (string, bool) {
	for _, rc := range j.RelabelConfigs {
		if rc.TargetLabel == LabelAddress && rc.Replacement != "" {
			return rc.Replacement, true
		}
	}
	return "", false
}

// SetBasicAuth replaces the job's credentials.
func (j *Job) SetBasicAuth(username, password string) {
	j.BasicAuth = &BasicAuth{Username: username, Password: password}
}

// Targets returns every target of every static config in order.
func (j *Job) Targets() []string {
	var out []string
	for _, sc := range j.StaticConfigs {
		out = append(out, sc.Targets...)
	}
	return out
}
