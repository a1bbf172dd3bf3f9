// Package override applies post-materialization patches to a concrete
// theme tree: an explicit deletion list, direct full-key overrides,
// wildcard-pattern overrides matched against sibling keys, and
// regex-pattern overrides.
//
// Override application is best-effort: a malformed key, an unsupported
// value shape, or a type mismatch skips that override and records a
// diagnostic instead of failing the run.
package override

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blaqat/theme-generation/internal/document"
	"github.com/blaqat/theme-generation/internal/resolver"
)

// Kind classifies a non-fatal problem encountered while applying
// overrides.
type Kind string

const (
	KindTypeMismatch     Kind = "type-mismatch"
	KindUnsupportedShape Kind = "unsupported-shape"
	KindMalformedKey     Kind = "malformed-key"
	KindBadPattern       Kind = "bad-pattern"
)

// Diagnostic records one skipped override.
type Diagnostic struct {
	Kind   Kind
	Key    string
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Key, d.Detail)
}

// Report accumulates diagnostics for one variant's override pass.
type Report struct {
	Diagnostics []Diagnostic
}

func (r *Report) add(kind Kind, key, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Kind:   kind,
		Key:    key,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Apply runs the full override pass over a materialized theme, mutating
// it in place: deletions first, then direct and regex overrides at top
// level, then wildcard and regex overrides inside the style.syntax
// sub-tree.
func Apply(theme document.Tree, b *resolver.Bindings) *Report {
	r := &Report{}

	ApplyDeletions(theme, b.Deletions(), r)
	ApplyDirect(theme, b, b.Overrides(), r)
	ApplyRegex(theme, b, b.RegexOverrides(), r)

	if syntax := syntaxTree(theme); syntax != nil {
		ApplyWildcard(syntax, b, b.SyntaxOverrides(), r)
		ApplyRegex(syntax, b, b.SyntaxRegexOverrides(), r)
	}

	return r
}

// syntaxTree returns the style.syntax sub-tree if present.
func syntaxTree(theme document.Tree) map[string]any {
	style, _ := theme["style"].(map[string]any)
	if style == nil {
		return nil
	}
	syntax, _ := style["syntax"].(map[string]any)
	return syntax
}

// ApplyDeletions removes each full key from the theme. Missing
// intermediate containers are skipped silently; only unparseable keys
// are reported.
func ApplyDeletions(theme document.Tree, keys []string, r *Report) {
	for _, fullKey := range keys {
		segments, err := document.ParseKey(fullKey)
		if err != nil {
			r.add(KindMalformedKey, fullKey, "%v", err)
			continue
		}
		document.Delete(theme, segments)
	}
}

// ApplyDirect applies full-key overrides, creating intermediate
// containers as needed. Whether a created container is a table or a
// sequence follows from the next segment's kind. A false value is
// normalized to null ("delete/blank this key").
func ApplyDirect(theme document.Tree, b *resolver.Bindings, overrides map[string]any, r *Report) {
	for _, key := range sortedKeys(overrides) {
		value := resolveValue(b, overrides[key])
		if value == false {
			value = nil
		}

		if !strings.Contains(key, ".") {
			theme[key] = value
			continue
		}

		segments, err := document.ParseKey(key)
		if err != nil {
			r.add(KindMalformedKey, key, "%v", err)
			continue
		}
		if _, err := setPath(theme, segments, value); err != nil {
			r.add(KindMalformedKey, key, "%v", err)
		}
	}
}

// setPath descends into container along segments and sets the final one,
// growing sequences and replacing non-container intermediates as it
// goes. It returns the (possibly reallocated) container.
func setPath(container any, segments []document.Segment, value any) (any, error) {
	seg := segments[0]
	last := len(segments) == 1

	switch c := container.(type) {
	case map[string]any:
		if seg.IsIndex {
			return c, fmt.Errorf("index %d into table", seg.Index)
		}
		if last {
			c[seg.Key] = value
			return c, nil
		}
		child := c[seg.Key]
		if !isContainer(child) {
			child = newContainer(segments[1])
		}
		child, err := setPath(child, segments[1:], value)
		if err != nil {
			return c, err
		}
		c[seg.Key] = child
		return c, nil

	case []any:
		if !seg.IsIndex {
			return c, fmt.Errorf("key %q into sequence", seg.Key)
		}
		for len(c) <= seg.Index {
			if last {
				c = append(c, nil)
			} else {
				c = append(c, newContainer(segments[1]))
			}
		}
		if last {
			c[seg.Index] = value
			return c, nil
		}
		child := c[seg.Index]
		if !isContainer(child) {
			child = newContainer(segments[1])
		}
		child, err := setPath(child, segments[1:], value)
		if err != nil {
			return c, err
		}
		c[seg.Index] = child
		return c, nil

	default:
		return container, fmt.Errorf("cannot descend into %T", container)
	}
}

// ApplyWildcard applies glob-like overrides to every sibling key of tree
// matching the pattern. Table values merge shallowly into existing
// tables; sequence values are unsupported; scalars require the existing
// value to be of the same kind or null.
func ApplyWildcard(tree map[string]any, b *resolver.Bindings, overrides map[string]any, r *Report) {
	for _, pattern := range sortedKeys(overrides) {
		value := resolveValue(b, overrides[pattern])

		re, err := compileWildcard(pattern)
		if err != nil {
			r.add(KindBadPattern, pattern, "%v", err)
			continue
		}

		for _, key := range sortedKeys(tree) {
			if !re.MatchString(key) {
				continue
			}
			applyToSibling(tree, key, value, r)
		}
	}
}

func applyToSibling(tree map[string]any, key string, value any, r *Report) {
	switch v := value.(type) {
	case map[string]any:
		existing, ok := tree[key].(map[string]any)
		if !ok {
			r.add(KindTypeMismatch, key, "table override onto %T", tree[key])
			return
		}
		for k, item := range v {
			existing[k] = item
		}
	case []any:
		r.add(KindUnsupportedShape, key, "sequence overrides are not supported")
	default:
		existing := tree[key]
		switch {
		case existing == nil || sameKind(existing, value):
			tree[key] = value
		case isFalsy(value):
			tree[key] = nil
		default:
			r.add(KindTypeMismatch, key, "override %T onto %T", value, existing)
		}
	}
}

// ApplyRegex applies overrides whose keys are regular expressions matched
// against sibling keys of tree. Matching keys are replaced wholesale; a
// falsy value is normalized to null.
func ApplyRegex(tree map[string]any, b *resolver.Bindings, overrides map[string]any, r *Report) {
	for _, pattern := range sortedKeys(overrides) {
		value := resolveValue(b, overrides[pattern])
		if isFalsy(value) {
			value = nil
		}

		// Anchored at the start only, like a prefix match.
		re, err := regexp.Compile("^(?:" + pattern + ")")
		if err != nil {
			r.add(KindBadPattern, pattern, "%v", err)
			continue
		}

		for _, key := range sortedKeys(tree) {
			if re.MatchString(key) {
				tree[key] = value
			}
		}
	}
}

// compileWildcard translates a wildcard pattern to an anchored regular
// expression: "*" matches within one path segment, "**" and "***" cross
// segment boundaries.
func compileWildcard(pattern string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\*\*\*`, `.*`)
	quoted = strings.ReplaceAll(quoted, `\.\*\*`, `\..*`)
	quoted = strings.ReplaceAll(quoted, `\*\*\.`, `.*\.`)
	quoted = strings.ReplaceAll(quoted, `\*`, `\w*`)
	return regexp.Compile("^" + quoted + "$")
}

// resolveValue resolves override values that are themselves variable
// references.
func resolveValue(b *resolver.Bindings, value any) any {
	if s, ok := value.(string); ok && strings.HasPrefix(s, "$") {
		return b.Resolve(s)
	}
	return value
}

func isContainer(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func newContainer(next document.Segment) any {
	if next.IsIndex {
		return []any{}
	}
	return map[string]any{}
}

// sameKind reports whether two values are interchangeable for override
// purposes. All numeric types count as one kind, since JSON decodes to
// float64 and TOML to int64.
func sameKind(a, b any) bool {
	return kindOf(a) == kindOf(b)
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64, float64:
		return "number"
	case []any:
		return "sequence"
	case map[string]any:
		return "table"
	default:
		return "null"
	}
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
