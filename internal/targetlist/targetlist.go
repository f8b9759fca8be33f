// Package targetlist reads and writes the blackbox file_sd target lists
// (one for IPv4 hosts, one for IPv6 hosts) that sit next to the Prometheus
// configuration.
package targetlist

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/logger"
	"github.com/rileyhilliard/pem/internal/store"
	"gopkg.in/yaml.v3"
)

// Address families stored in the ip label.
const (
	FamilyIPv4 = "IPv4"
	FamilyIPv6 = "IPv6"
)

// Entry is one target group in a list file.
type Entry struct {
	Targets []string `yaml:"targets"`
	Labels  Labels   `yaml:"labels,omitempty"`
}

// Labels describe the host behind an entry. Name is the formatted instance
// name and is what links a v6 entry to its host.
type Labels struct {
	Name  string            `yaml:"name,omitempty"`
	Code  string            `yaml:"code,omitempty"`
	City  string            `yaml:"city,omitempty"`
	IP    string            `yaml:"ip,omitempty"`
	Extra map[string]string `yaml:",inline"`
}

// List is the content of a list file.
type List []Entry

// FirstTarget returns the entry's first target, or "".
func (e Entry) FirstTarget() string {
	if len(e.Targets) == 0 {
		return ""
	}
	return e.Targets[0]
}

// FormatName derives the display label of an instance name by splitting on
// the first "-": "HK-Alice" becomes "HK | Alice". Names without "-" are
// returned unchanged.
func FormatName(instance string) string {
	left, right, ok := strings.Cut(instance, "-")
	if !ok {
		return instance
	}
	return left + " | " + right
}

// File is a handle on one list file.
type File struct {
	Path   string
	Writer store.Writer
}

// Load reads the list. A missing file is ErrNotFound, malformed content is
// ErrParse. An empty file is an empty list.
func (f File) Load() (List, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrNotFound,
				fmt.Sprintf("Target list %s doesn't exist", f.Path),
				"It will be created on the next write.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't read %s", f.Path),
			"Check file permissions.")
	}
	return parse(f.Path, data)
}

// LoadOrEmpty is Load with every failure turned into an empty list and a
// warning on log.
func (f File) LoadOrEmpty(log logger.Logger) List {
	list, err := f.Load()
	if err != nil {
		if errors.IsCode(err, errors.ErrNotFound) {
			log.Warn("target list %s not found, a new one will be created", f.Path)
		} else {
			log.Warn("couldn't load target list %s, treating it as empty: %v", f.Path, errCause(err))
		}
		return List{}
	}
	return list
}

// Save writes the list, backing up the previous file.
func (f File) Save(list List) (string, error) {
	if list == nil {
		list = List{}
	}
	data, err := yaml.Marshal(list)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSave,
			fmt.Sprintf("Couldn't generate %s", f.Path),
			"This is unexpected - please report this bug!")
	}
	return f.Writer.Write(f.Path, data)
}

func parse(path string, data []byte) (List, error) {
	if strings.TrimSpace(string(data)) == "" {
		return List{}, nil
	}
	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't parse %s", path),
			"Expected a YAML list of {targets, labels} entries.")
	}
	if list == nil {
		return List{}, nil
	}
	return list, nil
}

func errCause(err error) error {
	if e, ok := err.(*errors.Error); ok && e.Cause != nil {
		return e.Cause
	}
	return err
}
