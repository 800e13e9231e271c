package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lianstemp/aws-serverless-comparison/tsp"
)

// instanceFile is the on-disk request. JSON files parse as YAML.
type instanceFile struct {
	Cities        [][]float64 `yaml:"cities"`
	Algorithm     string      `yaml:"algorithm"`
	Shots         int         `yaml:"shots"`
	MaxIterations int         `yaml:"max_iterations"`
	Seed          int64       `yaml:"seed"`
}

// loadInstance reads and checks an instance file.
func loadInstance(path string) (*instanceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instance: %w", err)
	}
	var inst instanceFile
	if err := yaml.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parse instance %s: %w", path, err)
	}
	for i, c := range inst.Cities {
		if len(c) != 2 {
			return nil, fmt.Errorf("parse instance %s: city %d has %d coordinates, want 2", path, i, len(c))
		}
	}
	return &inst, nil
}

// cities converts the coordinate pairs.
func (f *instanceFile) cities() []tsp.City {
	out := make([]tsp.City, len(f.Cities))
	for i, c := range f.Cities {
		out[i] = tsp.City{X: c[0], Y: c[1]}
	}
	return out
}
