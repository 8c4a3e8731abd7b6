package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const globalConfigHeader = "# Veritas Global Configuration\n"

// SaveGlobalValue sets a dotted key (for example "api.baseURL") in the global
// config file, creating the file if needed and preserving other settings.
func SaveGlobalValue(key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	path, err := GetGlobalConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !os.IsNotExist(err):
		return err
	}

	if err := setNested(doc, strings.Split(key, "."), parseScalar(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(globalConfigHeader), out...), 0600)
}

// setNested walks (and creates) maps along path and stores value at the leaf.
func setNested(doc map[string]any, path []string, value any) error {
	node := doc
	for i, part := range path {
		if part == "" {
			return fmt.Errorf("empty key segment")
		}
		if i == len(path)-1 {
			node[part] = value
			return nil
		}
		next, ok := node[part].(map[string]any)
		if !ok {
			if _, exists := node[part]; exists {
				return fmt.Errorf("%q is not a section", part)
			}
			next = map[string]any{}
			node[part] = next
		}
		node = next
	}
	return nil
}

// parseScalar keeps numbers and booleans typed in the written YAML.
func parseScalar(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		list := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				list = append(list, p)
			}
		}
		return list
	}
	return value
}
