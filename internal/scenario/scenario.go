// Package scenario reads what-if scenarios from YAML files.
//
// A scenario is a forecast request plus a name and an optional path to a
// check-in history file:
//
//	name: four-day week
//	mode: population
//	scale: hundred
//	records: team.jsonl
//	horizon_days: 120
//	interventions:
//	  - type: workload_reduction
//	    value: 20
//	    adherence: 85
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"burnsim/internal/forecast"
	"burnsim/internal/records"

	"gopkg.in/yaml.v3"
)

// Scenario is one named what-if.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// RecordsPath is resolved relative to the scenario file.
	RecordsPath string `yaml:"records,omitempty"`

	forecast.Request `yaml:",inline"`

	dir string
}

// Parse decodes a scenario document. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scenario")
		}
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Mode == "" {
		s.Mode = forecast.ModeIndividual
	}
	return &s, nil
}

// Load reads and parses the scenario at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	return s, nil
}

// Resolve returns the forecast request, reading RecordsPath when set. Records
// already attached to the request are kept and the file's are appended.
func (s *Scenario) Resolve() (forecast.Request, error) {
	req := s.Request
	if s.RecordsPath == "" {
		return req, nil
	}
	path := s.RecordsPath
	if !filepath.IsAbs(path) && s.dir != "" {
		path = filepath.Join(s.dir, path)
	}
	recs, err := records.Read(path)
	if err != nil {
		return forecast.Request{}, err
	}
	req.Records = append(append(req.Records[:0:0], req.Records...), recs...)
	return req, nil
}

// Marshal renders s back to YAML.
func Marshal(s *Scenario) ([]byte, error) {
	return yaml.Marshal(s)
}
