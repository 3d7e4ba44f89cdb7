package model

import (
	"fmt"
)

// Side identifies which face of a board a placement sits on.
type Side string

const (
	SideTop    Side = "Top"
	SideBottom Side = "Bottom"
)

// Placement positions one part on a board.
type Placement struct {
	PartID   string  `yaml:"part-id,omitempty"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	Side     Side    `yaml:"side,omitempty"`

	part *Part
}

// Part returns the resolved part reference, or nil before the board has
// been resolved. Placements without a part-id (fiducials) stay nil.
func (p *Placement) Part() *Part {
	return p.part
}

// Board is a loaded board document. Its identity is the canonical path of
// its file; the Configuration's board cache owns every loaded instance,
// so two references to the same file share one Board.
type Board struct {
	Name       string       `yaml:"name,omitempty"`
	Placements []*Placement `yaml:"placements,omitempty"`

	file string
}

// File returns the canonical path this board was loaded from.
func (b *Board) File() string {
	return b.file
}

// Resolve binds each placement's part reference against the catalog.
func (b *Board) Resolve(c *Configuration) error {
	for _, placement := range b.Placements {
		if placement.PartID == "" {
			continue
		}
		part, ok := c.Part(placement.PartID)
		if !ok {
			return fmt.Errorf("board %s: %w: %s", b.Name, ErrUnknownPart, placement.PartID)
		}
		placement.part = part
	}
	return nil
}
