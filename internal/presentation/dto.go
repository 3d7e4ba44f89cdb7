package presentation

import (
	"github.com/zjrosen/gantry/internal/model"
)

// SummaryDTO represents a loaded configuration for presentation
type SummaryDTO struct {
	MachineType  string       `json:"machine_type"`
	PackageCount int          `json:"package_count"`
	PartCount    int          `json:"part_count"`
	Packages     []PackageDTO `json:"packages"`
	Parts        []PartDTO    `json:"parts"`
}

// PackageDTO represents a package catalog entry
type PackageDTO struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// PartDTO represents a part catalog entry
type PartDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	PackageID   string  `json:"package_id,omitempty"`
	Height      float64 `json:"height,omitempty"`
	HeightUnits string  `json:"height_units,omitempty"`
}

// PlacementDTO represents a placement on a board
type PlacementDTO struct {
	PartID   string  `json:"part_id,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Side     string  `json:"side"`
}

// BoardDTO represents a board document with its lookup outcome
type BoardDTO struct {
	Name       string         `json:"name"`
	File       string         `json:"file"`
	Outcome    string         `json:"outcome"`
	Placements []PlacementDTO `json:"placements"`
}

// BoardLocationDTO represents a board location within a job
type BoardLocationDTO struct {
	BoardFile string  `json:"board_file"`
	Board     string  `json:"board"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Rotation  float64 `json:"rotation"`
	Side      string  `json:"side"`
}

// JobDTO represents a job document with its resolved boards
type JobDTO struct {
	Name      string             `json:"name"`
	File      string             `json:"file"`
	Locations []BoardLocationDTO `json:"locations"`
}

// FromConfiguration converts a loaded configuration to a summary DTO.
func FromConfiguration(c *model.Configuration) SummaryDTO {
	packages := c.Packages()
	packageDTOs := make([]PackageDTO, len(packages))
	for i, pkg := range packages {
		packageDTOs[i] = PackageDTO{ID: pkg.ID, Name: pkg.Name}
	}

	parts := c.Parts()
	partDTOs := make([]PartDTO, len(parts))
	for i, part := range parts {
		partDTOs[i] = FromPart(part)
	}

	return SummaryDTO{
		MachineType:  c.Machine().Type(),
		PackageCount: len(packages),
		PartCount:    len(parts),
		Packages:     packageDTOs,
		Parts:        partDTOs,
	}
}

// FromPart converts a part to a DTO.
func FromPart(part *model.Part) PartDTO {
	return PartDTO{
		ID:          part.ID,
		Name:        part.Name,
		PackageID:   part.PackageID,
		Height:      part.Height,
		HeightUnits: part.HeightUnits,
	}
}

// FromBoard converts a board and its lookup outcome to a DTO.
func FromBoard(board *model.Board, outcome model.BoardOutcome) BoardDTO {
	placements := make([]PlacementDTO, len(board.Placements))
	for i, placement := range board.Placements {
		placements[i] = PlacementDTO{
			PartID:   placement.PartID,
			X:        placement.X,
			Y:        placement.Y,
			Rotation: placement.Rotation,
			Side:     string(placement.Side),
		}
	}

	return BoardDTO{
		Name:       board.Name,
		File:       board.File(),
		Outcome:    outcome.String(),
		Placements: placements,
	}
}

// FromJob converts a resolved job to a DTO.
func FromJob(job *model.Job) JobDTO {
	locations := make([]BoardLocationDTO, len(job.BoardLocations))
	for i, location := range job.BoardLocations {
		dto := BoardLocationDTO{
			BoardFile: location.BoardFile,
			X:         location.X,
			Y:         location.Y,
			Rotation:  location.Rotation,
			Side:      string(location.Side),
		}
		if board := location.Board(); board != nil {
			dto.Board = board.Name
		}
		locations[i] = dto
	}

	return JobDTO{
		Name:      job.Name,
		File:      job.File(),
		Locations: locations,
	}
}
