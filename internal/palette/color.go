package palette

import (
	"regexp"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// hexPattern is the strict color grammar: 3, 6, or 8 hex digits after
// '#'. The 8-digit form carries a trailing alpha pair.
var hexPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{8}|[0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// IsHex reports whether v is a hex color string.
func IsHex(v any) bool {
	s, ok := v.(string)
	return ok && hexPattern.MatchString(s)
}

// BaseColor canonicalizes a hex color to its upper-case 6-digit form:
// 3-digit colors expand by digit doubling, 8-digit colors drop the
// alpha pair. The second return is false for non-colors.
func BaseColor(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !hexPattern.MatchString(s) {
		return "", false
	}
	if len(s) == 9 {
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return "", false
	}
	return strings.ToUpper(c.Hex()), true
}

// Alpha returns the two-character alpha suffix of an 8-digit hex color,
// or "" when the color has none.
func Alpha(v any) string {
	s, ok := v.(string)
	if !ok || !hexPattern.MatchString(s) || len(s) != 9 {
		return ""
	}
	return s[7:]
}
