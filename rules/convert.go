package rules

import "strings"

// Option aliases used by uBlock Origin lists. Rewritten to the canonical
// names before option parsing.
var optionAliases = map[string]string{
	"1p":          "~third-party",
	"first-party": "~third-party",
	"3p":          "third-party",
	"css":         "stylesheet",
	"xhr":         "xmlhttprequest",
	"frame":       "subdocument",
	"doc":         "document",
	"ghide":       "generichide",
	"ehide":       "elemhide",
}

const (
	uboScriptletMarker          = "##+js("
	uboScriptletExceptionMarker = "#@#+js("
	agScriptletMarker           = "#%#//scriptlet("
)

// convertRuleText normalizes foreign rule dialects into the syntax the
// parser understands. Returns the rewritten text; equal to the input when
// nothing needed rewriting.
func convertRuleText(text string) string {
	if isScriptletRule(text) {
		return text
	}
	if idx := findOptionsIndex(text); idx != -1 {
		opts := strings.Split(text[idx+1:], ",")
		changed := false
		for i, o := range opts {
			if repl, ok := optionAliases[o]; ok {
				opts[i] = repl
				changed = true
			}
		}
		if changed {
			return text[:idx+1] + strings.Join(opts, ",")
		}
	}
	return text
}

func isScriptletRule(text string) bool {
	return strings.Contains(text, uboScriptletMarker) ||
		strings.Contains(text, uboScriptletExceptionMarker) ||
		strings.Contains(text, agScriptletMarker)
}

// findOptionsIndex locates the "$" separating a network rule pattern from
// its options list. Returns -1 for cosmetic rules and for regex rules with
// no options part.
func findOptionsIndex(text string) int {
	if idx, _ := findCosmeticMarker(text); idx != -1 {
		return -1
	}
	t := strings.TrimPrefix(text, "@@")
	if strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/") && len(t) > 2 {
		return -1
	}
	return strings.LastIndex(text, "$")
}
