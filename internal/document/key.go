package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedKey reports a full key that cannot be split into segments,
// e.g. an unterminated bracketed segment.
var ErrMalformedKey = errors.New("document: malformed full key")

// Segment is one step of a parsed full key: either a map key or a
// slice index.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

// String renders the segment the way it appears in a full key.
func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	if strings.Contains(s.Key, ".") {
		return "[" + s.Key + "]"
	}
	return s.Key
}

// ParseKey splits a full key into segments. Bracketed parts become a
// single key segment with the brackets stripped; all-digit parts become
// index segments.
func ParseKey(fullKey string) ([]Segment, error) {
	if fullKey == "" {
		return nil, fmt.Errorf("%w: empty key", ErrMalformedKey)
	}

	parts := strings.Split(fullKey, ".")
	var segments []Segment
	for i := 0; i < len(parts); i++ {
		part := parts[i]
		switch {
		case strings.HasPrefix(part, "["):
			for !strings.HasSuffix(part, "]") {
				i++
				if i >= len(parts) {
					return nil, fmt.Errorf("%w: unterminated bracket in %q", ErrMalformedKey, fullKey)
				}
				part += "." + parts[i]
			}
			segments = append(segments, Segment{Key: part[1 : len(part)-1]})
		case isDigits(part):
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q in %q", ErrMalformedKey, part, fullKey)
			}
			segments = append(segments, Segment{Index: n, IsIndex: true})
		case part == "":
			return nil, fmt.Errorf("%w: empty segment in %q", ErrMalformedKey, fullKey)
		default:
			segments = append(segments, Segment{Key: part})
		}
	}
	return segments, nil
}

// JoinKey appends a child key to a prefix, bracketing the child when it
// contains literal dots. An empty prefix yields the child alone.
func JoinKey(prefix, key string) string {
	if strings.Contains(key, ".") {
		key = "[" + key + "]"
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// JoinIndex appends a slice index to a prefix.
func JoinIndex(prefix string, i int) string {
	if prefix == "" {
		return strconv.Itoa(i)
	}
	return prefix + "." + strconv.Itoa(i)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
