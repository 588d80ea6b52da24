package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/ugh/fsutil"
)

// Save writes key=value into the config file at path, keeping other keys.
func Save(path, key, value string) error {
	return SaveAll(path, map[string]string{key: value})
}

// SaveAll writes every pair in values into the config file at path.
// Empty values are skipped. The file is created with mode 0600 inside a
// 0700 directory since it holds credentials.
func SaveAll(path string, values map[string]string) error {
	for key := range values {
		if err := validateKey(key); err != nil {
			return err
		}
	}

	existing := loadExisting(path)
	for key, value := range values {
		if value == "" {
			continue
		}
		existing[key] = parseValue(value)
	}
	return writeFile(path, existing)
}

// Delete removes key from the config file at path. A missing file is not
// an error.
func Delete(path, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	existing := loadExisting(path)
	if _, ok := existing[key]; !ok {
		return nil
	}
	delete(existing, key)
	return writeFile(path, existing)
}

func validateKey(key string) error {
	if !slices.Contains(Keys, key) {
		return fmt.Errorf("unknown config key: %s\n\nValid keys: %s",
			key, strings.Join(Keys, ", "))
	}
	return nil
}

// loadExisting returns the file's current contents. A malformed file is
// treated as empty and overwritten.
func loadExisting(path string) map[string]any {
	existing, err := readFile(path)
	if err != nil || existing == nil {
		return make(map[string]any)
	}
	return existing
}

func writeFile(path string, values map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	// Marshal through a yaml.Node so keys come out sorted.
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		var val yaml.Node
		if err := val.Encode(values[key]); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key}, &val)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := fsutil.WriteFileAtomic(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// parseValue converts string values to appropriate types for YAML.
func parseValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
