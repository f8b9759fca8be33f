// Package promconfig models the Prometheus configuration file managed by
// pem. Only scrape_configs is decoded into typed jobs; every other
// top-level section is kept as a YAML node so it is written back with its
// layout and comments intact.
package promconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/rileyhilliard/pem/internal/store"
	"gopkg.in/yaml.v3"
)

const scrapeConfigsKey = "scrape_configs"

// Document is a loaded Prometheus configuration.
type Document struct {
	// ScrapeConfigs is the ordered job list. Mutate it freely; Marshal
	// writes it back under scrape_configs.
	ScrapeConfigs []*Job

	root yaml.Node
	// parsed maps each job decoded by Parse to its source node, so jobs
	// left alone are written back as they were read.
	parsed map[*Job]parsedJob
}

type parsedJob struct {
	node    *yaml.Node
	encoded string
}

// New returns an empty document.
func New() *Document {
	d := &Document{}
	d.root = yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
	return d
}

// Parse decodes a Prometheus configuration.
func Parse(data []byte) (*Document, error) {
	d := &Document{}
	if err := yaml.Unmarshal(data, &d.root); err != nil {
		return nil, err
	}

	if d.root.Kind != yaml.DocumentNode || len(d.root.Content) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	mapping := d.root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("expected mapping at document root")
	}

	jobs := findMapValue(mapping, scrapeConfigsKey)
	if jobs == nil || jobs.Tag == "!!null" {
		return d, nil
	}
	if jobs.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: %s must be a list of jobs", jobs.Line, scrapeConfigsKey)
	}
	if err := jobs.Decode(&d.ScrapeConfigs); err != nil {
		return nil, err
	}

	d.parsed = make(map[*Job]parsedJob, len(d.ScrapeConfigs))
	for i, job := range d.ScrapeConfigs {
		if job == nil {
			return nil, fmt.Errorf("%s entry %d is empty", scrapeConfigsKey, i+1)
		}
		encoded, err := yaml.Marshal(job)
		if err != nil {
			return nil, err
		}
		d.parsed[job] = parsedJob{node: jobs.Content[i], encoded: string(encoded)}
	}

	return d, nil
}

// Marshal encodes the document, replacing the scrape_configs value with the
// current job list. Jobs that still match what Parse read keep their
// original node.
func (d *Document) Marshal() ([]byte, error) {
	jobs, err := d.encodeJobs()
	if err != nil {
		return nil, fmt.Errorf("failed to encode scrape configs: %w", err)
	}

	mapping := d.root.Content[0]
	if !replaceMapValue(mapping, scrapeConfigsKey, jobs) {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: scrapeConfigsKey}
		mapping.Content = append(mapping.Content, key, jobs)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&d.root); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return []byte(buf.String()), nil
}

func (d *Document) encodeJobs() (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, job := range d.ScrapeConfigs {
		encoded, err := yaml.Marshal(job)
		if err != nil {
			return nil, err
		}
		if p, ok := d.parsed[job]; ok && p.encoded == string(encoded) {
			seq.Content = append(seq.Content, p.node)
			continue
		}

		node := &yaml.Node{}
		if err := node.Encode(job); err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, node)
	}
	return seq, nil
}

// Job returns the first job named name, or nil.
func (d *Document) Job(name string) *Job {
	for _, j := range d.ScrapeConfigs {
		if j.Name == name {
			return j
		}
	}
	return nil
}

// AppendJob adds a job at the end of scrape_configs.
func (d *Document) AppendJob(j *Job) {
	d.ScrapeConfigs = append(d.ScrapeConfigs, j)
}

// Load reads the Prometheus configuration at path. A missing file is
// ErrNotFound; anything unreadable or malformed is ErrParse.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrNotFound,
				fmt.Sprintf("Prometheus config %s doesn't exist", path),
				"Set prometheus_config in .pem.yaml or PEM_PROMETHEUS_CONFIG to the right file.")
		}
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't read %s", path),
			"Check file permissions.")
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrParse,
			fmt.Sprintf("Couldn't parse %s", path),
			"Check the YAML syntax, or restore the latest .bak copy.")
	}
	return doc, nil
}

// Save writes doc to path through w, which backs up the previous content.
// Returns the backup path, if any.
func Save(path string, doc *Document, w store.Writer) (string, error) {
	data, err := doc.Marshal()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSave,
			"Couldn't generate the Prometheus config",
			"This is unexpected - please report this bug!")
	}
	return w.Write(path, data)
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

// replaceMapValue swaps the value stored under key. Reports false when the
// key is absent.
func replaceMapValue(node *yaml.Node, key string, value *yaml.Node) bool {
	for i := 0; i < len(node.Content)-1; i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			old := node.Content[i+1]
			value.LineComment = old.LineComment
			node.Content[i+1] = value
			return true
		}
	}
	return false
}
