// Package manifest loads a program's optional funcad.yaml: per-program
// overrides of the evaluator's geometric tolerance and the default function
// to run. Grounded on bobbyhouse-iguana's settings.go loader, including its
// "return nil, not an error, when the file is absent" convention.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/andrewdelmar/funcad/pkg/solids"
)

// Manifest holds a program's funcad.yaml settings.
type Manifest struct {
	// Tolerance overrides the default geometric fuzz factor ε. Zero means
	// "use the default" (solids.DefaultTolerance).
	Tolerance float64 `yaml:"tolerance"`
	// Entry names the function to run when none is given on the command
	// line.
	Entry string `yaml:"entry"`
}

// EffectiveTolerance returns m's configured tolerance, or the default if m
// is nil or left it unset. Safe to call on a nil receiver.
func (m *Manifest) EffectiveTolerance() float64 {
	if m == nil || m.Tolerance == 0 {
		return solids.DefaultTolerance
	}
	return m.Tolerance
}

// EffectiveEntry returns m's configured entry function, or fallback if m is
// nil or left it unset. Safe to call on a nil receiver.
func (m *Manifest) EffectiveEntry(fallback string) string {
	if m == nil || m.Entry == "" {
		return fallback
	}
	return m.Entry
}

// Load reads funcad.yaml from root. Returns (nil, nil) if the file doesn't
// exist: a program with no manifest just runs with every default.
func Load(root string) (*Manifest, error) {
	path := filepath.Join(root, "funcad.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return &m, nil
}
