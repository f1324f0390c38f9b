package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML build profile consumed by build and watch.
type Profile struct {
	// Script is the path to the part script to evaluate.
	Script string `yaml:"script"`
	// Output is the directory STL meshes are written to.
	Output string `yaml:"output"`
	// Document is an optional SQLite part-document path; when set,
	// every built part's snapshot is recorded there.
	Document string `yaml:"document"`
}

// loadProfile reads and validates a build profile.
func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if p.Script == "" {
		return nil, fmt.Errorf("profile %s: script is required", path)
	}
	if p.Output == "" {
		p.Output = "."
	}
	return &p, nil
}
