// Package theme holds the on-disk conventions around template and theme
// documents and drives the forward and reverse pipelines.
//
// A template document carries a top-level "themes" collection of
// variants. Binding documents are the TOML files sitting next to the
// template; each one produces one materialized variant.
package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blaqat/theme-generation/internal/document"
)

// ErrNoBindings reports that no binding documents were found next to a
// template. Materialization cannot proceed without at least one.
var ErrNoBindings = errors.New("theme: no binding files found")

// installDirOverride, when non-empty, replaces the default install
// directory. Intended for testing. Use SetInstallDir / ResetInstallDir.
var installDirOverride string

// SetInstallDir overrides the theme install directory. Intended for testing.
func SetInstallDir(dir string) { installDirOverride = dir }

// ResetInstallDir clears the install directory override. Intended for testing.
func ResetInstallDir() { installDirOverride = "" }

// InstallDir returns the editor's theme directory, ~/.config/zed/themes.
func InstallDir() (string, error) {
	if installDirOverride != "" {
		return installDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("theme: unable to determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "zed", "themes"), nil
}

// InstallPath returns the install location for a theme of the given name.
func InstallPath(name string) (string, error) {
	dir, err := InstallDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// TemplateName derives a theme name from a template path: the file name
// up to its first dot, so "nord.json.template" names "nord".
func TemplateName(templatePath string) string {
	base := filepath.Base(templatePath)
	if name, _, found := strings.Cut(base, "."); found {
		return name
	}
	return base
}

// DiscoverBindings returns the binding documents in dir, sorted by name.
// An empty result is ErrNoBindings: a template without bindings cannot
// produce any variant.
func DiscoverBindings(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, fmt.Errorf("theme: failed to scan %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoBindings, dir)
	}
	sort.Strings(matches)
	return matches, nil
}

// Variants returns the template's variant collection.
func Variants(tree document.Tree) ([]map[string]any, error) {
	raw, ok := tree["themes"].([]any)
	if !ok || len(raw) == 0 {
		return nil, errors.New("theme: document has no themes collection")
	}
	out := make([]map[string]any, 0, len(raw))
	for i, item := range raw {
		variant, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("theme: variant %d is not a table", i)
		}
		out = append(out, variant)
	}
	return out, nil
}
