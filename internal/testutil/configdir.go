// Package testutil builds machine configuration directories on disk for
// tests. The builder renders the documented YAML format directly rather
// than going through the model's codec, so fixture content stays
// independent of the code under test.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/gantry/internal/model"
)

// Feeder describes a feeder entry for a reference machine fixture.
type Feeder struct {
	Name   string  `yaml:"name"`
	PartID string  `yaml:"part-id,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
}

// Package describes a package catalog entry.
type Package struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// Part describes a part catalog entry.
type Part struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name,omitempty"`
	PackageID   string  `yaml:"package-id,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
	HeightUnits string  `yaml:"height-units,omitempty"`
}

// Placement describes a placement on a board fixture.
type Placement struct {
	PartID   string  `yaml:"part-id,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	Side     string  `yaml:"side"`
}

// BoardLocation describes a board location in a job fixture.
type BoardLocation struct {
	BoardFile string  `yaml:"board-file"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Rotation  float64 `yaml:"rotation"`
	Side      string  `yaml:"side"`
}

type machineDoc struct {
	Machine map[string]any `yaml:"machine"`
}

type packagesDoc struct {
	Packages []Package `yaml:"packages"`
}

type partsDoc struct {
	Parts []Part `yaml:"parts"`
}

type boardDoc struct {
	Board struct {
		Name       string      `yaml:"name"`
		Placements []Placement `yaml:"placements,omitempty"`
	} `yaml:"board"`
}

type jobDoc struct {
	Job struct {
		Name           string          `yaml:"name"`
		BoardLocations []BoardLocation `yaml:"board-locations,omitempty"`
	} `yaml:"job"`
}

type boardFixture struct {
	name       string
	placements []Placement
}

type jobFixture struct {
	name      string
	locations []BoardLocation
}

// ConfigDirBuilder provides a fluent API for assembling a configuration
// directory.
type ConfigDirBuilder struct {
	t        *testing.T
	dir      string
	machine  map[string]any
	packages []Package
	parts    []Part
	boards   map[string]boardFixture
	jobs     map[string]jobFixture
}

// NewConfigDir creates a builder rooted in a fresh temp directory with a
// simulated machine.
func NewConfigDir(t *testing.T) *ConfigDirBuilder {
	t.Helper()
	return &ConfigDirBuilder{
		t:       t,
		dir:     t.TempDir(),
		machine: map[string]any{"type": "simulated"},
		boards:  make(map[string]boardFixture),
		jobs:    make(map[string]jobFixture),
	}
}

// WithSimulatedMachine sets the machine document to a simulated machine.
func (b *ConfigDirBuilder) WithSimulatedMachine() *ConfigDirBuilder {
	b.machine = map[string]any{"type": "simulated"}
	return b
}

// WithReferenceMachine sets the machine document to a reference machine
// with the given feeders.
func (b *ConfigDirBuilder) WithReferenceMachine(feeders ...Feeder) *ConfigDirBuilder {
	b.machine = map[string]any{"type": "reference"}
	if len(feeders) > 0 {
		b.machine["feeders"] = feeders
	}
	return b
}

// WithPackage appends a package catalog entry.
func (b *ConfigDirBuilder) WithPackage(id, name string) *ConfigDirBuilder {
	b.packages = append(b.packages, Package{ID: id, Name: name})
	return b
}

// WithPart appends a part catalog entry referencing a package.
func (b *ConfigDirBuilder) WithPart(id, packageID string) *ConfigDirBuilder {
	b.parts = append(b.parts, Part{ID: id, PackageID: packageID})
	return b
}

// WithBoard adds a board document written under the given file name.
func (b *ConfigDirBuilder) WithBoard(filename, name string, placements ...Placement) *ConfigDirBuilder {
	b.boards[filename] = boardFixture{name: name, placements: placements}
	return b
}

// WithJob adds a job document written under the given file name.
func (b *ConfigDirBuilder) WithJob(filename, name string, locations ...BoardLocation) *ConfigDirBuilder {
	b.jobs[filename] = jobFixture{name: name, locations: locations}
	return b
}

// Build writes every document and returns the directory path.
func (b *ConfigDirBuilder) Build() string {
	b.t.Helper()

	b.write(model.MachineFile, machineDoc{Machine: b.machine})
	b.write(model.PackagesFile, packagesDoc{Packages: b.packages})
	b.write(model.PartsFile, partsDoc{Parts: b.parts})

	for filename, fixture := range b.boards {
		var d boardDoc
		d.Board.Name = fixture.name
		d.Board.Placements = fixture.placements
		b.write(filename, d)
	}
	for filename, fixture := range b.jobs {
		var d jobDoc
		d.Job.Name = fixture.name
		d.Job.BoardLocations = fixture.locations
		b.write(filename, d)
	}

	return b.dir
}

// Dir returns the directory path without writing anything.
func (b *ConfigDirBuilder) Dir() string {
	return b.dir
}

func (b *ConfigDirBuilder) write(filename string, v any) {
	b.t.Helper()

	data, err := yaml.Marshal(v)
	require.NoError(b.t, err, "marshaling fixture %s", filename)

	path := filepath.Join(b.dir, filename)
	require.NoError(b.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(b.t, os.WriteFile(path, data, 0o644), "writing fixture %s", filename)
}
