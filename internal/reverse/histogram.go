package reverse

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Histogram counts the distinct concrete values observed for one
// variable, preserving first-seen order for deterministic tie-breaks.
type Histogram struct {
	entries map[string]*histEntry
	order   []string
}

type histEntry struct {
	value any
	count int
}

// Entry is one observed value and its occurrence count.
type Entry struct {
	Value any
	Count int
}

// NewHistogram returns an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{entries: make(map[string]*histEntry)}
}

// Observe records one occurrence of value.
func (h *Histogram) Observe(value any) {
	key := EncodeValue(value)
	if e, ok := h.entries[key]; ok {
		e.count++
		return
	}
	h.entries[key] = &histEntry{value: value, count: 1}
	h.order = append(h.order, key)
}

// Has reports whether value has been observed at least once.
func (h *Histogram) Has(value any) bool {
	_, ok := h.entries[EncodeValue(value)]
	return ok
}

// Count returns the occurrence count for value.
func (h *Histogram) Count(value any) int {
	if e, ok := h.entries[EncodeValue(value)]; ok {
		return e.count
	}
	return 0
}

// Len returns the number of distinct observed values.
func (h *Histogram) Len() int { return len(h.entries) }

// Representative returns the most frequently observed value; ties go to
// the value seen first.
func (h *Histogram) Representative() any {
	var best any
	bestCount := 0
	for _, key := range h.order {
		if e := h.entries[key]; e.count > bestCount {
			best = e.value
			bestCount = e.count
		}
	}
	return best
}

// Entries returns all observed values with counts, in first-seen order.
func (h *Histogram) Entries() []Entry {
	out := make([]Entry, 0, len(h.order))
	for _, key := range h.order {
		e := h.entries[key]
		out = append(out, Entry{Value: e.value, Count: e.count})
	}
	return out
}

// EncodeValue renders an observed value as a histogram key. Scalars keep
// their natural text form; lists are encoded structurally so that two
// equal lists collide.
func EncodeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = EncodeValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return "null"
		}
		return string(data)
	}
}
