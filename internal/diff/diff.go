// Package diff compares two theme documents key by key, reporting the
// differing paths and an overall similarity percentage. It exists to
// debug the generation pipeline: template + bindings should reproduce
// the original theme, and any drift shows up here.
package diff

import (
	"fmt"
	"sort"

	"github.com/blaqat/theme-generation/internal/document"
)

// Result holds the outcome of a tree comparison.
type Result struct {
	// Paths lists the slash-joined paths whose values differ, sorted
	// and deduplicated.
	Paths []string

	// Total is the number of keys visited across both directions.
	Total int
}

// Similarity returns the percentage of compared keys that matched.
func (r Result) Similarity() float64 {
	if r.Total == 0 {
		return 100
	}
	return 100 - float64(len(r.Paths))/float64(r.Total)*100
}

// Trees deep-compares a and b in both directions, so keys present on
// either side only are reported.
func Trees(a, b document.Tree) Result {
	var r Result
	r.walk(a, b, "")
	r.walk(b, a, "")

	sort.Strings(r.Paths)
	r.Paths = dedupe(r.Paths)
	return r
}

func (r *Result) walk(a, b any, prefix string) {
	switch av := a.(type) {
	case map[string]any:
		bm, _ := b.(map[string]any)
		for _, key := range sortedKeys(av) {
			r.Total++
			var bv any
			if bm != nil {
				bv = bm[key]
			}
			r.walk(av[key], bv, prefix+"/"+key)
		}
	case []any:
		bl, _ := b.([]any)
		for i, item := range av {
			r.Total++
			var bv any
			if i < len(bl) {
				bv = bl[i]
			}
			r.walk(item, bv, fmt.Sprintf("%s/%d", prefix, i))
		}
	default:
		if !equalLeaf(a, b) {
			r.Paths = append(r.Paths, prefix)
		}
	}
}

// equalLeaf compares scalars with numeric types unified, since the two
// documents may come from decoders with different number handling.
func equalLeaf(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || sorted[i-1] != s {
			out = append(out, s)
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
