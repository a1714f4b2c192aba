package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyKeyPath is returned for an empty dotted key.
var ErrEmptyKeyPath = errors.New("empty key path")

// ParseKeyPath splits a dotted key ("generator.preset") into its segments.
func ParseKeyPath(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyKeyPath
	}
	parts := strings.Split(path, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid key path %q: empty segment", path)
		}
	}
	return parts, nil
}

// GetNestedValue returns the value node at keyPath, or nil if any segment is missing.
func GetNestedValue(root *yaml.Node, keyPath []string) *yaml.Node {
	if len(keyPath) == 0 {
		return nil
	}
	node := mappingRoot(root)
	for _, key := range keyPath {
		if node == nil || node.Kind != yaml.MappingNode {
			return nil
		}
		node = lookupKey(node, key)
	}
	return node
}

// SetNestedValue sets keyPath to value inside root, creating intermediate
// mappings as needed. Existing keys, ordering and comments are kept.
func SetNestedValue(root *yaml.Node, keyPath []string, value interface{}) error {
	if len(keyPath) == 0 {
		return ErrEmptyKeyPath
	}

	var valueNode yaml.Node
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}

	if existing := GetNestedValue(root, keyPath); existing != nil {
		valueNode.HeadComment = existing.HeadComment
		valueNode.LineComment = existing.LineComment
		*existing = valueNode
		return nil
	}

	if root.Kind == 0 {
		root.Kind = yaml.DocumentNode
	}
	if root.Kind == yaml.DocumentNode && len(root.Content) == 0 {
		root.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	node := mappingRoot(root)
	if node == nil || node.Kind != yaml.MappingNode {
		return fmt.Errorf("config root is not a mapping")
	}

	for i, key := range keyPath[:len(keyPath)-1] {
		child := lookupKey(node, key)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalarKey(key), child)
		} else if child.Kind != yaml.MappingNode {
			return fmt.Errorf("cannot set %s: %s is not a mapping", strings.Join(keyPath, "."), strings.Join(keyPath[:i+1], "."))
		}
		node = child
	}

	node.Content = append(node.Content, scalarKey(keyPath[len(keyPath)-1]), &valueNode)
	return nil
}

// SetConfigValue validates value against the key schema and writes it to the
// YAML config file at configPath, creating the file and its directory if needed.
func SetConfigValue(configPath, key, value string) error {
	parsed, err := ValidateValue(key, value)
	if err != nil {
		return err
	}
	keyPath, err := ParseKeyPath(key)
	if err != nil {
		return err
	}

	var root yaml.Node
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := ValidateYAMLSyntaxFromBytes(data, configPath); err != nil {
			return err
		}
		if err := yaml.Unmarshal(data, &root); err != nil {
			return fmt.Errorf("parsing %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("reading %s: %w", configPath, err)
	}

	if err := SetNestedValue(&root, keyPath, parsed.Parsed); err != nil {
		return err
	}

	out, err := yaml.Marshal(&root)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", configPath, err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(configPath, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}
	return nil
}

// mappingRoot unwraps a document node to its top-level content.
func mappingRoot(root *yaml.Node) *yaml.Node {
	if root == nil {
		return nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		return root.Content[0]
	}
	return root
}

func lookupKey(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func scalarKey(key string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
}
