package opendata

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Sources overrides dataset URLs by dataset key, e.g.
//
//	datasets:
//	  station: https://example.org/stations.json
type Sources struct {
	Datasets map[string]string `yaml:"datasets"`
}

func LoadSources(path string) (Sources, error) {
	var s Sources
	data, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Apply returns jobs with overridden URLs. Keys that match no job are an
// error so that typos do not silently fall back to the defaults.
func (s Sources) Apply(jobs []Job) ([]Job, error) {
	known := make(map[string]bool, len(jobs))
	out := make([]Job, len(jobs))
	for i, j := range jobs {
		known[j.Key()] = true
		out[i] = j
		if url := strings.TrimSpace(s.Datasets[j.Key()]); url != "" {
			out[i] = j.WithURL(url)
		}
	}
	for key := range s.Datasets {
		if !known[key] {
			return nil, fmt.Errorf("sources: unknown dataset %q", key)
		}
	}
	return out, nil
}
