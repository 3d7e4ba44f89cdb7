package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatSummary formats a configuration summary as JSON
func (f *Formatter) FormatSummary(summary SummaryDTO) error {
	return f.encode(summary)
}

// FormatBoard formats a board as JSON
func (f *Formatter) FormatBoard(board BoardDTO) error {
	return f.encode(board)
}

// FormatJob formats a job as JSON
func (f *Formatter) FormatJob(job JobDTO) error {
	return f.encode(job)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
