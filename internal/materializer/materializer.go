// Package materializer performs the forward transform: it walks a
// template tree and replaces every placeholder scalar with its resolved
// value, producing a concrete theme tree of the same shape.
//
// Materialization is best-effort by design: an unresolved placeholder
// degrades to null and is reported in the result rather than aborting
// the whole theme.
package materializer

import (
	"github.com/blaqat/theme-generation/internal/document"
	"github.com/blaqat/theme-generation/internal/resolver"
)

// Result is a materialized variant plus its diagnostic trail.
type Result struct {
	// Theme is the concrete tree. It never shares containers with the
	// template.
	Theme document.Tree

	// Unresolved lists placeholder expressions that degraded to null,
	// in walk order.
	Unresolved []string
}

// Materialize resolves every placeholder in the template against the
// bindings. The template itself is never mutated.
func Materialize(template document.Tree, b *resolver.Bindings) Result {
	r := Result{}
	r.Theme, _ = r.walk(template, b).(document.Tree)
	return r
}

func (r *Result) walk(node any, b *resolver.Bindings) any {
	switch v := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = r.walk(child, b)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = r.walk(child, b)
		}
		return out
	case string:
		return r.scalar(v, b)
	default:
		return v
	}
}

// scalar handles a template leaf. A leaf that is exactly one placeholder
// expression takes the resolved value's type (scalar, list, or null); a
// leaf that merely contains placeholders is expanded textually.
func (r *Result) scalar(s string, b *resolver.Bindings) any {
	if resolver.IsPlaceholder(s) {
		value := b.Resolve(s)
		if value == nil {
			r.Unresolved = append(r.Unresolved, s)
		}
		return value
	}
	if resolver.HasPlaceholder(s) {
		return b.Expand(s)
	}
	return s
}
