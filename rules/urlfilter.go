package rules

import "strings"

// RegexConfig controls how rule pattern anchors are rendered when a pattern
// is turned into a regex. Callers pass the configuration explicitly; there
// is no process-wide state to save and restore around a conversion.
type RegexConfig struct {
	StartURL  string // replaces the leading "||" domain anchor
	Separator string // replaces the "^" separator mask
}

// DefaultRegexConfig matches the behavior of the general-purpose rule
// engine. Consumers with a restricted regex dialect supply their own.
var DefaultRegexConfig = RegexConfig{
	StartURL:  `^(http|https|ws|wss)://([a-z0-9-_.]+\.)?`,
	Separator: `([^ a-zA-Z0-9.%]|$)`,
}

// PatternToRegex converts a rule pattern into a regex source string.
// Anchors: leading "||" becomes cfg.StartURL, leading "|" becomes "^",
// trailing "|" becomes "$". The "^" separator mask becomes cfg.Separator
// and "*" becomes ".*"; everything else is matched literally.
func PatternToRegex(pattern string, cfg RegexConfig) string {
	var b strings.Builder

	if strings.HasPrefix(pattern, "||") {
		b.WriteString(cfg.StartURL)
		pattern = pattern[2:]
	} else if strings.HasPrefix(pattern, "|") {
		b.WriteString("^")
		pattern = pattern[1:]
	}

	endAnchor := false
	if strings.HasSuffix(pattern, "|") {
		endAnchor = true
		pattern = pattern[:len(pattern)-1]
	}

	for _, c := range pattern {
		switch c {
		case '*':
			b.WriteString(".*")
		case '^':
			b.WriteString(cfg.Separator)
		case '.', '+', '?', '$', '(', ')', '[', ']', '{', '}', '\\', '/', '|':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}

	if endAnchor {
		b.WriteString("$")
	}
	return b.String()
}
