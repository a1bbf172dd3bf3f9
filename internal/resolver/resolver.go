// Package resolver loads per-variant binding documents and resolves
// placeholder expressions against them.
//
// A placeholder expression is one or more comma-separated dotted variable
// references, each prefixed with '$', optionally carrying a two-character
// alpha token ("$accent..7f"). Candidates are tried left to right; the
// first to resolve to a non-nil, non-boolean value wins.
package resolver

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blaqat/theme-generation/internal/document"
)

var (
	// exprPattern matches a scalar that is exactly one placeholder
	// expression (possibly a fallback chain).
	exprPattern = regexp.MustCompile(`^\$[a-zA-Z0-9._]+(?:\s*,\s*\$[a-zA-Z0-9._]+)*$`)

	// embeddedPattern finds placeholder expressions inside a larger
	// string during recursive re-expansion.
	embeddedPattern = regexp.MustCompile(`\$[a-zA-Z0-9._]+(?:\s*,\s*\$[a-zA-Z0-9._]+)*`)

	// alphaPattern matches the "..XX" alpha-channel token.
	alphaPattern = regexp.MustCompile(`\.\.([a-zA-Z0-9][a-zA-Z0-9])`)
)

// Reserved top-level sections of a binding document. Everything else is
// an ordinary variable binding.
const (
	sectionDeletions           = "deletions"
	sectionOverrides           = "overrides"
	sectionRegexOverrides      = "overrides-regex"
	sectionSyntaxOverrides     = "syntax-overrides"
	sectionSyntaxRegexOverride = "syntax-overrides-regex"
)

// Bindings is one variant's binding document: a tree of nested tables
// mapping names to scalars or lists.
type Bindings struct {
	data document.Tree
	path string
}

// Load reads a TOML binding document from disk.
func Load(path string) (*Bindings, error) {
	data, err := document.LoadTOML(path)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	return &Bindings{data: data, path: path}, nil
}

// New wraps an already-decoded tree as a binding set.
func New(data document.Tree) *Bindings {
	return &Bindings{data: data}
}

// Path returns the file the bindings were loaded from, if any.
func (b *Bindings) Path() string { return b.path }

// IsPlaceholder reports whether s is exactly one placeholder expression.
func IsPlaceholder(s string) bool { return exprPattern.MatchString(s) }

// HasPlaceholder reports whether s contains a placeholder expression
// anywhere.
func HasPlaceholder(s string) bool { return embeddedPattern.MatchString(s) }

// Lookup walks the raw binding tree by dotted path, with no fallback or
// alpha handling. It returns false if any segment is missing or the
// container at that point is not a table.
func (b *Bindings) Lookup(path string) (any, bool) {
	current := any(b.data)
	for part := range strings.SplitSeq(path, ".") {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = table[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Resolve resolves a full placeholder expression to a concrete value:
// a string, a number, a list, or nil when no candidate resolves.
// Booleans never propagate; they are treated as absent. Resolved strings
// that themselves contain placeholders are expanded recursively.
func (b *Bindings) Resolve(expr string) any {
	candidates := strings.Split(expr, ",")
	for i, candidate := range candidates {
		name := strings.TrimPrefix(strings.TrimSpace(candidate), "$")
		if name == "" {
			continue
		}

		value := b.resolveVar(name, false)
		if value == nil && i == len(candidates)-1 {
			// Last resort: the chain's final candidate falls back to
			// its top-level segment.
			if head, _, found := strings.Cut(name, "."); found {
				value = b.resolveVar(head, false)
			}
		}

		switch v := value.(type) {
		case nil, bool:
			continue
		case []any:
			return b.resolveList(v)
		case string:
			if strings.Contains(v, "$") {
				return b.Expand(v)
			}
			return v
		case int, int64, float64:
			return v
		default:
			// Tables and anything else are not substitutable.
			continue
		}
	}
	return nil
}

// resolveVar resolves a single dotted variable name. When the name
// carries an alpha token, the token is stripped, the remaining name is
// resolved (chasing any chain of $-references), and the token appended
// to the result. If the result reintroduces an alpha token of its own,
// the outer append is skipped to avoid doubling.
func (b *Bindings) resolveVar(name string, hadAlpha bool) any {
	if !hadAlpha {
		if m := alphaPattern.FindStringSubmatch(name); m != nil {
			alpha := m[1]
			base := strings.Replace(name, ".."+alpha, "", 1)
			value := b.resolveVar(base, true)
			for {
				s, ok := value.(string)
				if !ok || !strings.HasPrefix(s, "$") {
					break
				}
				value = b.resolveVar(strings.TrimPrefix(s, "$"), true)
			}
			s, ok := value.(string)
			if !ok || s == "" {
				return nil
			}
			if alphaPattern.MatchString(s) {
				return s
			}
			return s + alpha
		}
	}

	v, ok := b.Lookup(name)
	if !ok {
		return nil
	}
	return v
}

// resolveList substitutes placeholders inside each string element.
func (b *Bindings) resolveList(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		if s, ok := item.(string); ok && strings.Contains(s, "$") {
			out[i] = b.Expand(s)
			continue
		}
		out[i] = item
	}
	return out
}

// Expand handles a string that contains placeholders. When the whole
// string is a single expression the typed value is returned; otherwise
// each embedded expression is replaced textually, with unresolved ones
// degrading to "null".
func (b *Bindings) Expand(s string) any {
	if IsPlaceholder(s) {
		return b.Resolve(s)
	}
	return embeddedPattern.ReplaceAllStringFunc(s, func(match string) string {
		return formatValue(b.Resolve(match))
	})
}

// formatValue renders a resolved value for embedding inside a larger
// string.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "null"
		}
		return string(data)
	}
}

// Overrides returns the direct-override section, or nil.
func (b *Bindings) Overrides() map[string]any { return b.section(sectionOverrides) }

// RegexOverrides returns the regex-override section, or nil.
func (b *Bindings) RegexOverrides() map[string]any { return b.section(sectionRegexOverrides) }

// SyntaxOverrides returns the syntax-subtree wildcard-override section,
// or nil.
func (b *Bindings) SyntaxOverrides() map[string]any { return b.section(sectionSyntaxOverrides) }

// SyntaxRegexOverrides returns the syntax-subtree regex-override
// section, or nil.
func (b *Bindings) SyntaxRegexOverrides() map[string]any {
	return b.section(sectionSyntaxRegexOverride)
}

// Deletions returns the list of full keys to remove from the
// materialized theme.
func (b *Bindings) Deletions() []string {
	section := b.section(sectionDeletions)
	if section == nil {
		return nil
	}
	raw, _ := section["keys"].([]any)
	keys := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			keys = append(keys, s)
		}
	}
	return keys
}

func (b *Bindings) section(name string) map[string]any {
	section, _ := b.data[name].(map[string]any)
	return section
}
