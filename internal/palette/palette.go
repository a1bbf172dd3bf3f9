// Package palette factors recurring colors out of reverse-extracted
// variables and overrides into named, shared palette entries.
//
// Colors are compared by canonical base (alpha stripped, upper-cased);
// a color whose total frequency exceeds the caller's threshold receives
// a sequential palette name, and every variable or override value using
// it is rewritten to the palette reference.
package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blaqat/theme-generation/internal/reverse"
)

// RefPrefix is the binding path under which palette entries live.
const RefPrefix = "colors.color"

// Entry is one named palette color.
type Entry struct {
	// Base is the canonical 6-digit color.
	Base string

	// Ref is the variable reference assigned to it, e.g.
	// "$colors.color1".
	Ref string

	// Count is the color's total observed frequency.
	Count int
}

// Result holds the factored palette and the rewritten variable and
// override values.
type Result struct {
	// Palette lists named colors in descending frequency, ties broken
	// by first-seen order.
	Palette []Entry

	// ByBase maps canonical base colors to their palette reference.
	ByBase map[string]string

	// Variables maps each variable to its final representative value:
	// a palette reference, a literal, or the original non-color value.
	Variables map[string]any

	// VarOrder mirrors the extraction's first-seen variable order.
	VarOrder []string

	// Overrides holds the rewritten override values, with alpha
	// suffixes reattached where unambiguous.
	Overrides map[string]any
}

// Factor canonicalizes the extraction's colors, assigns palette names to
// those above threshold, and rewrites variable and override values to
// reference them. The extraction's override map and variable map are
// updated in place by the cleanup pass; paths whose observed value
// disagrees with a variable's representative are demoted to overrides.
func Factor(ext *reverse.Extraction, threshold int) (*Result, error) {
	counts := make(map[string]int)
	var countOrder []string
	add := func(base string, n int) {
		if _, ok := counts[base]; !ok {
			countOrder = append(countOrder, base)
		}
		counts[base] += n
	}

	// Frequency across every histogram entry.
	for _, name := range ext.VarOrder {
		for _, entry := range ext.Variables[name].Entries() {
			if base, ok := BaseColor(entry.Value); ok {
				add(base, entry.Count)
			}
		}
	}

	// Representative value per variable: highest count, first seen.
	reps := make(map[string]any, len(ext.VarOrder))
	for _, name := range ext.VarOrder {
		reps[name] = ext.Variables[name].Representative()
	}

	if err := cleanup(ext, reps); err != nil {
		return nil, err
	}

	// Each literal-color override counts once, demotions included.
	for _, key := range sortedKeys(ext.Overrides) {
		if base, ok := BaseColor(ext.Overrides[key]); ok {
			add(base, 1)
		}
	}

	result := &Result{
		ByBase:    make(map[string]string),
		Variables: make(map[string]any, len(reps)),
		VarOrder:  append([]string(nil), ext.VarOrder...),
		Overrides: make(map[string]any, len(ext.Overrides)),
	}

	// Name colors above threshold in descending frequency.
	seen := make(map[string]int, len(countOrder))
	for i, base := range countOrder {
		seen[base] = i
	}
	var named []string
	for _, base := range countOrder {
		if counts[base] > threshold {
			named = append(named, base)
		}
	}
	sort.SliceStable(named, func(i, j int) bool {
		if counts[named[i]] != counts[named[j]] {
			return counts[named[i]] > counts[named[j]]
		}
		return seen[named[i]] < seen[named[j]]
	})
	for i, base := range named {
		ref := fmt.Sprintf("$%s%d", RefPrefix, i+1)
		result.Palette = append(result.Palette, Entry{Base: base, Ref: ref, Count: counts[base]})
		result.ByBase[base] = ref
	}

	// Rewrite representatives. Alpha recovery for variables happens at
	// emission time, cross-referenced through the variable map.
	for _, name := range result.VarOrder {
		rep := reps[name]
		if base, ok := BaseColor(rep); ok {
			if ref, named := result.ByBase[base]; named {
				result.Variables[name] = ref
				continue
			}
		}
		result.Variables[name] = rep
	}

	// Rewrite overrides, reattaching alpha where unambiguous.
	for _, key := range sortedKeys(ext.Overrides) {
		value := ext.Overrides[key]
		base, ok := BaseColor(value)
		if !ok {
			result.Overrides[key] = value
			continue
		}
		color := value.(string)
		if ref, named := result.ByBase[base]; named {
			color = ref
		}
		result.Overrides[key] = WithAlpha(color, Alpha(value))
	}

	return result, nil
}

// WithAlpha reattaches an alpha suffix to a rewritten color value, but
// only when doing so is unambiguous: a palette reference not already
// alpha-suffixed, or a literal hex string short enough to take one.
func WithAlpha(color, alpha string) string {
	if alpha == "" {
		return color
	}
	if strings.HasPrefix(color, "$") {
		if strings.Contains(color, "..") {
			return color
		}
		return color + ".." + alpha
	}
	if len(color) < 9 {
		return color + alpha
	}
	return color
}

// cleanup re-examines every path that referenced a variable. Paths whose
// canonical color disagrees with the representative are demoted to
// overrides; among agreeing paths with differing alpha, only the
// majority alpha stays bound to the variable.
func cleanup(ext *reverse.Extraction, reps map[string]any) error {
	for _, name := range ext.VarOrder {
		paths := ext.VarMap[name]
		if len(paths) == 0 {
			continue
		}
		rep := reps[name]
		repKey := compareKey(rep)

		type pathValue struct {
			path  string
			value any
		}
		groups := make(map[string][]pathValue)
		var groupOrder []string

		for _, path := range sortedKeys(paths) {
			value := paths[path]

			if _, isList := value.([]any); isList {
				if reverse.EncodeValue(value) != reverse.EncodeValue(rep) {
					return fmt.Errorf("%w: list at %s diverges from representative of %s",
						reverse.ErrVarMapConflict, path, name)
				}
				continue
			}

			key := compareKey(value)
			if key != repKey {
				if base, ok := BaseColor(value); ok {
					ext.Overrides[path] = WithAlpha(base, Alpha(value))
				} else {
					ext.Overrides[path] = value
				}
				continue
			}
			if _, ok := groups[key]; !ok {
				groupOrder = append(groupOrder, key)
			}
			groups[key] = append(groups[key], pathValue{path, value})
		}

		for _, key := range groupOrder {
			group := groups[key]
			if len(group) < 2 {
				continue
			}
			var alphas []string
			for _, pv := range group {
				if IsHex(pv.value) {
					alphas = append(alphas, Alpha(pv.value))
				}
			}
			if len(distinct(alphas)) < 2 {
				continue
			}
			majority := majorityAlpha(alphas)
			for _, pv := range group {
				if Alpha(pv.value) != majority {
					ext.Overrides[pv.path] = pv.value
					delete(paths, pv.path)
				}
			}
		}
	}
	return nil
}

// compareKey normalizes a value for representative comparison: colors
// collapse to their canonical base, everything else to its encoded form.
func compareKey(v any) string {
	if base, ok := BaseColor(v); ok {
		return base
	}
	return reverse.EncodeValue(v)
}

// majorityAlpha returns the most frequent alpha; ties go to the one
// listed first.
func majorityAlpha(alphas []string) string {
	counts := make(map[string]int, len(alphas))
	for _, a := range alphas {
		counts[a]++
	}
	best := ""
	bestCount := 0
	for _, a := range alphas {
		if counts[a] > bestCount {
			best = a
			bestCount = counts[a]
		}
	}
	return best
}

func distinct(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
