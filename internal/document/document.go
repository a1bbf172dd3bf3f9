// Package document provides the tree model shared by the forward and
// reverse transforms: nested maps, slices, and scalars as produced by
// decoding JSON theme documents and TOML binding documents.
//
// Keys addressing into a tree are "full keys": dot-separated segments
// where a segment wrapped in brackets ("[terminal.ansi.red]") names a
// single map key that itself contains dots, and a bare numeric segment
// indexes into a slice.
package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Tree is a decoded document: values are map[string]any, []any, or scalars.
type Tree = map[string]any

// LoadJSON reads and decodes a JSON document from disk.
func LoadJSON(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document: failed to read %s: %w", path, err)
	}

	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("document: failed to parse %s: %w", path, err)
	}
	return tree, nil
}

// SaveJSON writes a tree as indented JSON, creating the parent directory
// if needed.
func SaveJSON(path string, tree Tree) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("document: failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("document: failed to marshal: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("document: failed to write %s: %w", path, err)
	}
	return nil
}

// LoadTOML reads and decodes a TOML document from disk.
func LoadTOML(path string) (Tree, error) {
	var tree Tree
	if _, err := toml.DecodeFile(path, &tree); err != nil {
		return nil, fmt.Errorf("document: failed to parse %s: %w", path, err)
	}
	return tree, nil
}

// DeepCopy returns a copy of v sharing no containers with the original.
// Scalars are returned as-is.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return v
	}
}

// Get walks root along the parsed key and reports whether every segment
// resolved against a container of the matching kind.
func Get(root any, key []Segment) (any, bool) {
	current := root
	for _, seg := range key {
		switch c := current.(type) {
		case map[string]any:
			if seg.IsIndex {
				return nil, false
			}
			v, ok := c[seg.Key]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			if !seg.IsIndex || seg.Index < 0 || seg.Index >= len(c) {
				return nil, false
			}
			current = c[seg.Index]
		default:
			return nil, false
		}
	}
	return current, true
}

// Delete removes the value at the parsed key. Missing intermediate
// containers or a missing final segment are silently ignored.
func Delete(root Tree, key []Segment) {
	if len(key) == 0 {
		return
	}
	parent, ok := Get(root, key[:len(key)-1])
	if !ok {
		return
	}
	last := key[len(key)-1]
	if m, ok := parent.(map[string]any); ok && !last.IsIndex {
		delete(m, last.Key)
	}
}
