package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"jobmate/ats-ingest/internal/model"
)

type employersFile struct {
	Employers []model.Employer `yaml:"employers"`
}

// LoadEmployers reads the employer seed list from a YAML file of the form
//
//	employers:
//	  - label: Airbnb
//	    platform: structured-api
//	    identifier: airbnb
//
// Every entry must carry a label, an identifier and a known platform.
func LoadEmployers(path string) ([]model.Employer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read employers file: %w", err)
	}

	var f employersFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for i, e := range f.Employers {
		if e.Label == "" || e.Identifier == "" {
			return nil, fmt.Errorf("%s: employer #%d needs both label and identifier", path, i+1)
		}
		if _, err := model.ParsePlatform(string(e.Platform)); err != nil {
			return nil, fmt.Errorf("%s: employer %q: %w", path, e.Label, err)
		}
	}
	return f.Employers, nil
}
