package schema

import (
	"strings"
	"unicode"
)

// shortHashLen is the abbreviated revision hash width used in output.
const shortHashLen = 7

// ShortHash abbreviates a revision hash for display.
func ShortHash(hash string) string {
	if len(hash) <= shortHashLen {
		return hash
	}
	return hash[:shortHashLen]
}

// NormalizeHandle canonicalizes an actor handle for node identity:
// surrounding whitespace is dropped and inner runs collapse to one
// space. Bot suffixes like "[bot]" are kept since they are part of the
// platform identity.
func NormalizeHandle(handle string) string {
	fields := strings.Fields(handle)
	return strings.Join(fields, " ")
}

// Truncate shortens free text for table display, appending an ellipsis
// when anything was cut. Multi-byte text is cut on rune boundaries.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// TitleWord uppercases the first rune of a word for display labels.
func TitleWord(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// ComponentLabel renders a component enum as a display label.
func ComponentLabel(c Component) string {
	switch c {
	case SignalComponent:
		return "Signal Alignment"
	case FeedbackComponent:
		return "Feedback Responsiveness"
	case BoundedComponent:
		return "Bounded Integrity"
	case ElasticComponent:
		return "Elastic Tolerance"
	default:
		return TitleWord(string(c))
	}
}

// ClassLabel renders a residue class enum as a display label.
func ClassLabel(c ResidueClass) string {
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		parts[i] = TitleWord(p)
	}
	return strings.Join(parts, " ")
}
