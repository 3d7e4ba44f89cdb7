package model

// Package describes a component footprint in the package catalog. Parts
// reference packages by identifier.
type Package struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// GetID and SetID satisfy registry.Entity.
func (p *Package) GetID() string   { return p.ID }
func (p *Package) SetID(id string) { p.ID = id }
