// Package doc reads and writes the YAML documents that make up a machine
// configuration: the machine document, the package and part catalogs, board
// files, and job files. Callers hand it plain structs; field names on disk
// use hyphenated keys via yaml struct tags.
package doc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for document IO. Both wrap the underlying cause, so
// errors.Is against fs.ErrNotExist still reports a missing file.
var (
	ErrRead  = errors.New("read document")
	ErrWrite = errors.New("write document")
)

// Read unmarshals the YAML document at path into v.
func Read(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w %s: %w", ErrRead, path, err)
	}
	return nil
}

// Write marshals v as YAML and writes it to path atomically: the document
// is encoded to a temp file in the target directory and renamed into
// place, so a crash mid-write never leaves a truncated document behind.
// Parent directories are created as needed.
func Write(path string, v any) error {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w %s: creating directory: %w", ErrWrite, path, err)
	}

	temp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("%w %s: creating temp file: %w", ErrWrite, path, err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w %s: writing temp file: %w", ErrWrite, path, err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w %s: closing temp file: %w", ErrWrite, path, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("%w %s: renaming temp file: %w", ErrWrite, path, err)
	}

	return nil
}
