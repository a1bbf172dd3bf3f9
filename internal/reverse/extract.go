// Package reverse infers a binding set from a template and an
// already-concrete theme.
//
// Extraction runs in two phases. The first walks template and theme in
// lockstep, crediting every concrete value to the variables its
// placeholder could have referred to and queueing unexplained leaves as
// trash. The second reconciles the trash against the finalized
// histograms: values that match a known variable join its histogram,
// everything else becomes an override. A single-pass design cannot work
// here because a placeholder's representative value is a frequency
// decision that is only knowable once the whole tree has been scanned.
package reverse

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/blaqat/theme-generation/internal/document"
)

// ErrVarMapConflict reports two different observations for what should
// be a single variable-map entry. This inconsistency is unrecoverable.
var ErrVarMapConflict = errors.New("reverse: variable map conflict")

// varPattern finds dotted variable references inside a template leaf.
// The alpha token and fallback separators fall outside a match, so a
// chain yields one name per candidate and an alpha-suffixed reference
// yields its bare name.
var varPattern = regexp.MustCompile(`\$\w+(?:\.\w+)*`)

// Options configures an extraction run.
type Options struct {
	// Verbose enables progress diagnostics through Logf.
	Verbose bool

	// Logf receives diagnostics when Verbose is set. Defaults to a
	// no-op.
	Logf func(format string, args ...any)
}

func (o Options) logf(format string, args ...any) {
	if o.Verbose && o.Logf != nil {
		o.Logf(format, args...)
	}
}

// Extraction is the result of walking one template variant against one
// concrete theme.
type Extraction struct {
	// Name is the variant's declared name, if any.
	Name string

	// Variables maps each variable name (no sigil) to the histogram of
	// concrete values observed for it.
	Variables map[string]*Histogram

	// VarOrder lists variable names in first-seen order.
	VarOrder []string

	// Overrides maps full keys to concrete values not explained by any
	// variable binding.
	Overrides map[string]any

	// VarMap records, per variable, every concrete path and value that
	// referenced it. The palette factorer needs this to recover
	// per-color alpha suffixes.
	VarMap map[string]map[string]any

	// Deletions lists template keys absent from the theme.
	Deletions []string
}

type trashEntry struct {
	value  any
	varRef string
	hasVar bool
}

type leafPair struct {
	value any
	templ any
}

type extractor struct {
	opts Options

	vars     map[string]*Histogram
	varOrder []string

	overrides map[string]any

	trash      map[string]trashEntry
	trashOrder []string

	fullName map[string]leafPair

	varMap map[string]map[string]any
}

// Extract walks template and theme trees in lockstep and classifies
// every leaf, then reconciles unexplained leaves against the gathered
// histograms.
func Extract(template, theme document.Tree, opts Options) (*Extraction, error) {
	e := &extractor{
		opts:      opts,
		vars:      make(map[string]*Histogram),
		overrides: make(map[string]any),
		trash:     make(map[string]trashEntry),
		fullName:  make(map[string]leafPair),
		varMap:    make(map[string]map[string]any),
	}

	if err := e.walk(template, theme, ""); err != nil {
		return nil, err
	}
	opts.logf("reverse: collected %d variables, %d trash entries", len(e.vars), len(e.trash))
	e.reconcile()

	name, _ := theme["name"].(string)

	return &Extraction{
		Name:      name,
		Variables: e.vars,
		VarOrder:  e.varOrder,
		Overrides: e.overrides,
		VarMap:    e.varMap,
		Deletions: deleteKeys(template, theme, ""),
	}, nil
}

// walk visits one map level: first classifying each theme entry, then
// recording the variable-map association for placeholder leaves.
func (e *extractor) walk(templ, final map[string]any, prefix string) error {
	for _, key := range sortedKeys(final) {
		value := final[key]
		fullKey := document.JoinKey(prefix, key)
		tval, hasT := templ[key]

		switch fv := value.(type) {
		case map[string]any:
			if tm, ok := tval.(map[string]any); ok {
				if err := e.walk(tm, fv, fullKey); err != nil {
					return err
				}
				continue
			}
			e.leaf(fullKey, value, tval, hasT)
		case []any:
			if tl, ok := tval.([]any); ok {
				if err := e.walkList(tl, fv, fullKey); err != nil {
					return err
				}
				continue
			}
			if ts, ok := tval.(string); ok && strings.HasPrefix(ts, "$") {
				for _, name := range parseVars(ts) {
					e.observe(name, value)
				}
				continue
			}
			e.leaf(fullKey, value, tval, hasT)
		default:
			e.leaf(fullKey, value, tval, hasT)
		}
	}

	// Second pass at this level: associate each placeholder leaf's
	// concrete value with the first of its candidate variables that
	// actually collected observations.
	for _, key := range sortedKeys(final) {
		ts, ok := templ[key].(string)
		if !ok || !strings.HasPrefix(ts, "$") {
			continue
		}
		fullKey := document.JoinKey(prefix, key)

		first := ""
		for _, name := range parseVars(ts) {
			if _, ok := e.vars[name]; ok {
				first = name
				break
			}
		}
		if first == "" {
			continue
		}

		paths := e.varMap[first]
		if paths == nil {
			paths = make(map[string]any)
			e.varMap[first] = paths
		}
		if existing, ok := paths[fullKey]; ok && EncodeValue(existing) != EncodeValue(final[key]) {
			return fmt.Errorf("%w: %s observed as both %v and %v for %s",
				ErrVarMapConflict, fullKey, existing, final[key], first)
		}
		paths[fullKey] = final[key]
	}

	return nil
}

// walkList visits matching sequence values element by element.
func (e *extractor) walkList(templ, final []any, prefix string) error {
	for i, item := range final {
		fullKey := document.JoinIndex(prefix, i)
		if i >= len(templ) {
			// Extra elements have no template counterpart.
			e.fullName[fullKey] = leafPair{value: item}
			e.queueTrash(fullKey, item, "", false)
			continue
		}

		titem := templ[i]
		if m, ok := item.(map[string]any); ok {
			if tm, ok := titem.(map[string]any); ok {
				if err := e.walk(tm, m, fullKey); err != nil {
					return err
				}
				continue
			}
		}
		e.leaf(fullKey, item, titem, true)
	}
	return nil
}

// leaf classifies one template/theme leaf pair.
func (e *extractor) leaf(fullKey string, value, tval any, hasT bool) {
	e.fullName[fullKey] = leafPair{value: value, templ: tval}

	vars := parseVars(tval)
	if len(vars) > 0 {
		// Placeholder leaf: every candidate in the fallback chain
		// receives credit; reconciliation sorts out the winner.
		if observable(value) {
			for _, name := range vars {
				e.observe(name, value)
			}
			return
		}
		for _, name := range vars {
			e.queueTrash(fullKey, value, name, true)
		}
		return
	}

	if !hasT {
		e.queueTrash(fullKey, value, "", false)
		return
	}

	// Literal template leaf: a differing concrete value needs an
	// override to reproduce.
	if EncodeValue(value) != EncodeValue(tval) {
		e.overrides[fullKey] = value
	}
}

func (e *extractor) observe(name string, value any) {
	hist, ok := e.vars[name]
	if !ok {
		hist = NewHistogram()
		e.vars[name] = hist
		e.varOrder = append(e.varOrder, name)
	}
	hist.Observe(value)
}

func (e *extractor) queueTrash(fullKey string, value any, varRef string, hasVar bool) {
	if _, ok := e.trash[fullKey]; !ok {
		e.trashOrder = append(e.trashOrder, fullKey)
	}
	e.trash[fullKey] = trashEntry{value: value, varRef: varRef, hasVar: hasVar}
}

// reconcile resolves trash entries against the finalized histograms. A
// value now matching a known variable's observations joins that
// histogram; structured leftovers flatten into per-path overrides.
func (e *extractor) reconcile() {
	var bin []string
	for _, key := range e.trashOrder {
		entry := e.trash[key]
		if entry.hasVar {
			if hist, ok := e.vars[entry.varRef]; ok {
				if hist.Has(entry.value) {
					hist.Observe(entry.value)
				} else {
					e.overrides[key] = entry.value
				}
				continue
			}
		}
		bin = append(bin, key)
	}

	for _, key := range bin {
		pair, ok := e.fullName[key]
		if !ok {
			continue
		}
		switch v := pair.value.(type) {
		case nil:
			continue
		case map[string]any:
			for _, k := range sortedKeys(v) {
				if v[k] == nil {
					continue
				}
				e.overrides[document.JoinKey(key, k)] = v[k]
			}
		case []any:
			for i, item := range v {
				if item == nil {
					continue
				}
				e.overrides[document.JoinIndex(key, i)] = item
			}
		default:
			if pair.templ != nil {
				continue
			}
			e.overrides[key] = v
		}
	}
}

// deleteKeys collects template keys with no theme counterpart; these
// become the variant's deletions list.
func deleteKeys(templ, final map[string]any, prefix string) []string {
	var out []string
	for _, key := range sortedKeys(templ) {
		fullKey := document.JoinKey(prefix, key)
		fv, ok := final[key]
		if !ok {
			out = append(out, fullKey)
			continue
		}
		switch tv := templ[key].(type) {
		case map[string]any:
			if fm, ok := fv.(map[string]any); ok {
				out = append(out, deleteKeys(tv, fm, fullKey)...)
			}
		case []any:
			fl, _ := fv.([]any)
			for i, item := range tv {
				if i >= len(fl) {
					continue
				}
				tm, ok := item.(map[string]any)
				if !ok {
					continue
				}
				if fm, ok := fl[i].(map[string]any); ok {
					out = append(out, deleteKeys(tm, fm, document.JoinIndex(fullKey, i))...)
				}
			}
		}
	}
	return out
}

// parseVars extracts the candidate variable names (sigil stripped) from
// a template leaf. Non-string leaves have none.
func parseVars(templ any) []string {
	s, ok := templ.(string)
	if !ok {
		return nil
	}
	matches := varPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = strings.TrimPrefix(m, "$")
	}
	return out
}

// observable reports whether a concrete value can join a histogram
// directly; everything else defers to the trash pass.
func observable(v any) bool {
	switch v.(type) {
	case string, int, int64, float64, []any:
		return true
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
