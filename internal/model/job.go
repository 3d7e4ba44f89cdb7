package model

// BoardLocation is a job's reference to one board: the board-file path
// string as stored in the job document plus, after resolution, the loaded
// Board itself. The Board is a reference into the Configuration's cache,
// never an independent copy.
type BoardLocation struct {
	BoardFile string  `yaml:"board-file"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Rotation  float64 `yaml:"rotation"`
	Side      Side    `yaml:"side,omitempty"`

	board *Board
}

// Board returns the bound board, or nil before the job has been resolved.
func (bl *BoardLocation) Board() *Board {
	return bl.board
}

// Job is an ordered run of board locations. Jobs are created by LoadJob
// and discarded by the caller when done; they are not cached.
type Job struct {
	Name           string           `yaml:"name,omitempty"`
	BoardLocations []*BoardLocation `yaml:"board-locations"`

	file  string
	dirty bool
}

// File returns the path the job was last loaded from or saved to.
func (j *Job) File() string {
	return j.file
}

// Dirty reports whether the job has unsaved changes.
func (j *Job) Dirty() bool {
	return j.dirty
}

// SetDirty marks or clears the job's unsaved-changes flag.
func (j *Job) SetDirty(dirty bool) {
	j.dirty = dirty
}

// AddBoardLocation appends a location and marks the job dirty.
func (j *Job) AddBoardLocation(bl *BoardLocation) {
	j.BoardLocations = append(j.BoardLocations, bl)
	j.dirty = true
}
