// Package emitter serializes a reverse-extraction result back into a
// TOML binding document: variables grouped into sub-tables, the shared
// color palette, overrides, and deletions.
//
// Before emitting a palette-referencing value, the emitter tries to
// recover the original alpha-suffixed literal by cross-referencing the
// variable map; when more than one distinct alpha was observed for the
// same palette color, the bare reference is emitted instead and the
// alpha information is lost. This is a known lossy case.
package emitter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blaqat/theme-generation/internal/palette"
	"github.com/blaqat/theme-generation/internal/reverse"
)

// Emit renders the factored variables, palette, overrides, and deletions
// as a TOML binding document.
func Emit(res *palette.Result, ext *reverse.Extraction) string {
	var b strings.Builder

	subSections := make(map[string][]string)
	var sectionOrder []string

	// Top-level variables come first; TOML requires bare keys to appear
	// before any table header.
	for _, name := range res.VarOrder {
		dot := strings.LastIndex(name, ".")
		if dot < 0 {
			writeEntry(&b, name, topLevelValue(res, ext, name))
			continue
		}
		section := name[:dot]
		if _, ok := subSections[section]; !ok {
			sectionOrder = append(sectionOrder, section)
		}
		subSections[section] = append(subSections[section], name[dot+1:])
	}

	if len(res.Palette) > 0 {
		writeHeader(&b, "colors")
		for _, entry := range res.Palette {
			writeEntry(&b, strings.TrimPrefix(entry.Ref, "$colors."), entry.Base)
		}
	}

	sort.Strings(sectionOrder)
	for _, section := range sectionOrder {
		writeHeader(&b, section)
		for _, key := range subSections[section] {
			name := section + "." + key
			writeEntry(&b, key, originalColor(res, ext, name, res.Variables[name]))
		}
	}

	if len(res.Overrides) > 0 {
		writeHeader(&b, "overrides")
		for _, key := range sortedKeys(res.Overrides) {
			writeEntry(&b, strconv.Quote(key), originalColor(res, ext, key, res.Overrides[key]))
		}
	}

	if len(ext.Deletions) > 0 {
		writeHeader(&b, "deletions")
		items := make([]any, len(ext.Deletions))
		for i, key := range ext.Deletions {
			items[i] = key
		}
		writeEntry(&b, "keys", items)
	}

	return b.String()
}

// topLevelValue resolves a top-level variable's emission value: alpha
// recovery for palette references, element-wise palette mapping for
// lists.
func topLevelValue(res *palette.Result, ext *reverse.Extraction, name string) any {
	value := originalColor(res, ext, name, res.Variables[name])
	items, ok := value.([]any)
	if !ok {
		return value
	}
	mapped := make([]any, len(items))
	for i, item := range items {
		if base, isColor := palette.BaseColor(item); isColor {
			if ref, named := res.ByBase[base]; named {
				mapped[i] = ref
				continue
			}
		}
		mapped[i] = item
	}
	return mapped
}

// originalColor recovers the alpha-suffixed literal behind a palette
// reference when the variable map pins it down to exactly one observed
// color. Ambiguous or non-reference values pass through unchanged.
func originalColor(res *palette.Result, ext *reverse.Extraction, varName string, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	paths := ext.VarMap[varName]
	if len(paths) == 0 {
		return value
	}

	seen := make(map[string]bool)
	var match string
	for _, path := range sortedKeys(paths) {
		c, ok := paths[path].(string)
		if !ok || !palette.IsHex(c) {
			continue
		}
		base, _ := palette.BaseColor(c)
		if res.ByBase[base] != s || seen[c] {
			continue
		}
		seen[c] = true
		match = c
	}
	if len(seen) != 1 {
		return value
	}

	alpha := palette.Alpha(match)
	if alpha == "" {
		return value
	}
	return palette.WithAlpha(s, alpha)
}

func writeHeader(b *strings.Builder, name string) {
	fmt.Fprintf(b, "\n[%s]\n", name)
}

func writeEntry(b *strings.Builder, key string, value any) {
	fmt.Fprintf(b, "%s = %s\n", key, renderValue(value))
}

// renderValue formats a binding value as TOML. Nil renders as false,
// the binding document's "delete/blank" marker.
func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "false"
	case bool:
		return strconv.FormatBool(val)
	case string:
		return strconv.Quote(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = "\n\t" + renderValue(item)
		}
		return "[" + strings.Join(parts, ",") + "\n]"
	default:
		return strconv.Quote(fmt.Sprint(val))
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
