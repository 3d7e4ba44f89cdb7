package model

import (
	"fmt"
)

// Part is a placeable component in the part catalog. Its identifier is
// the registry key; renames must go through Configuration.RenamePart so
// the key follows the identifier.
type Part struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name,omitempty"`
	PackageID   string  `yaml:"package-id"`
	Height      float64 `yaml:"height,omitempty"`
	HeightUnits string  `yaml:"height-units,omitempty"`

	pkg *Package
}

// GetID and SetID satisfy registry.Entity.
func (p *Part) GetID() string   { return p.ID }
func (p *Part) SetID(id string) { p.ID = id }

// Package returns the resolved package reference, or nil before Resolve
// has run.
func (p *Part) Package() *Package {
	return p.pkg
}

// Resolve binds the part's package reference against the loaded catalog.
// A part with no package-id has nothing to resolve; an unknown package-id
// is an error.
func (p *Part) Resolve(c *Configuration) error {
	if p.PackageID == "" {
		return nil
	}
	pkg, ok := c.Package(p.PackageID)
	if !ok {
		return fmt.Errorf("part %s: %w: %s", p.ID, ErrUnknownPackage, p.PackageID)
	}
	p.pkg = pkg
	return nil
}
