package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveConfigDir updates the config_dir key in the settings file.
// This preserves comments and formatting in other sections by using yaml.Node.
func SaveConfigDir(configPath, dir string) error {
	return saveScalar(configPath, "config_dir", dir)
}

// SaveAutoReload updates the auto_reload key in the settings file.
func SaveAutoReload(configPath string, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return saveScalar(configPath, "auto_reload", value)
}

// saveScalar replaces or appends a single top-level scalar key, keeping
// every other node of the document untouched.
func saveScalar(configPath, key, value string) error {
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's own settings file
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var root yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Value: value}

	if root.Kind == 0 {
		// Empty or new file - create document structure
		root = yaml.Node{
			Kind: yaml.DocumentNode,
			Content: []*yaml.Node{
				{
					Kind: yaml.MappingNode,
					Content: []*yaml.Node{
						{Kind: yaml.ScalarNode, Value: key},
						valueNode,
					},
				},
			},
		}
	} else if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		mapping := root.Content[0]
		if mapping.Kind == yaml.MappingNode {
			found := false
			for i := 0; i < len(mapping.Content)-1; i += 2 {
				if mapping.Content[i].Value == key {
					mapping.Content[i+1] = valueNode
					found = true
					break
				}
			}
			if !found {
				mapping.Content = append(mapping.Content,
					&yaml.Node{Kind: yaml.ScalarNode, Value: key},
					valueNode,
				)
			}
		}
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	// Write atomically (write to temp, then rename)
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".gantry.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(buf.Bytes()); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
