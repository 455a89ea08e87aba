package converter

import (
	"fmt"
	"regexp"

	"safariconverter/rules"
)

// URL filter constants. The any-URL regex is intentionally simple: Safari
// compiles every trigger regex, so shorter is cheaper.
const (
	urlFilterAnyURL          = `^[htpsw]+:\/\/`
	urlFilterWSAnyURL        = `^wss?:\/\/`
	urlFilterCSSRules        = `.*`
	urlFilterURLRulesRegexp  = `^[htpsw]+:\/\/([a-z0-9-]+\.)?`
	urlFilterRegexpSeparator = `[/:&?]?`
)

// safariRegexConfig renders rule pattern anchors in the restricted dialect
// Safari's content blocker accepts.
var safariRegexConfig = rules.RegexConfig{
	StartURL:  urlFilterURLRulesRegexp,
	Separator: urlFilterRegexpSeparator,
}

// Regex constructs Safari rejects in trigger url-filters.
var (
	reQuantifiers = regexp.MustCompile(`\{[0-9,]+\}`)
	reAlternation = regexp.MustCompile(`[^\\]+\|+\S*`)
	reNonASCII    = regexp.MustCompile(`[^\x00-\x7F]`)
	reLookahead   = regexp.MustCompile(`\(\?!.*\)`)
	reMetachars   = regexp.MustCompile(`[^\\]\\[bBdDfnrsStvwW]`)
)

func validateURLFilter(filter string) error {
	switch {
	case reQuantifiers.MatchString(filter):
		return fmt.Errorf("Safari doesn't support '{digit}' in regex: %s", filter)
	case reAlternation.MatchString(filter):
		return fmt.Errorf("Safari doesn't support '|' in regex: %s", filter)
	case reNonASCII.MatchString(filter):
		return fmt.Errorf("Safari doesn't support non-ASCII characters in regex: %s", filter)
	case reLookahead.MatchString(filter):
		return fmt.Errorf("Safari doesn't support negative lookahead in regex: %s", filter)
	case reMetachars.MatchString(filter):
		return fmt.Errorf("Safari doesn't support metacharacters in regex: %s", filter)
	}
	return nil
}

func isAnyURLPattern(pattern string) bool {
	switch pattern {
	case "||*", "", "*", "|*":
		return true
	}
	return false
}

// buildURLFilter produces the trigger url-filter for a network rule.
func buildURLFilter(u *rules.URLRule) string {
	if isAnyURLPattern(u.PatternText) {
		if u.PermittedTypes == rules.TypeWebSocket {
			return urlFilterWSAnyURL
		}
		return urlFilterAnyURL
	}

	if u.IsRegex && u.RegexSource != "" {
		return u.RegexSource
	}

	source := rules.PatternToRegex(u.PatternText, safariRegexConfig)
	if source == "" {
		return urlFilterAnyURL
	}
	if u.PermittedTypes == rules.TypeWebSocket &&
		source[0] != '^' && !hasWSPrefix(source) {
		return urlFilterWSAnyURL + ".*" + source
	}
	return source
}

func hasWSPrefix(s string) bool {
	return len(s) >= 2 && s[0] == 'w' && s[1] == 's'
}

// Resource type mapping, in emission order. XMLHttpRequest, other and
// WebSocket all collapse into "raw".
func addResourceType(rule *rules.Rule, entry *Entry) {
	u := rule.URL
	if u.PermittedTypes == rules.TypeAll && u.RestrictedTypes == 0 {
		// Safari's default set, no key emitted.
		return
	}

	var types []string
	if u.PermittedTypes&rules.TypeImage != 0 {
		types = append(types, ResourceImage)
	}
	if u.PermittedTypes&rules.TypeStylesheet != 0 {
		types = append(types, ResourceStyleSheet)
	}
	if u.PermittedTypes&rules.TypeScript != 0 {
		types = append(types, ResourceScript)
	}
	if u.PermittedTypes&rules.TypeMedia != 0 {
		types = append(types, ResourceMedia)
	}
	if u.PermittedTypes&(rules.TypeXMLHTTPRequest|rules.TypeOther|rules.TypeWebSocket) != 0 {
		types = append(types, ResourceRaw)
	}
	if u.PermittedTypes&rules.TypeFont != 0 {
		types = append(types, ResourceFont)
	}
	if u.PermittedTypes&rules.TypeSubdocument != 0 {
		types = append(types, ResourceDocument)
	}
	if u.BlockPopups {
		types = []string{ResourcePopup}
	}

	if len(types) > 0 {
		entry.Trigger.ResourceType = types
	}
}

func addThirdParty(u *rules.URLRule, entry *Entry) {
	if !u.CheckThirdParty {
		return
	}
	if u.ThirdParty {
		entry.Trigger.LoadType = []string{LoadThirdParty}
	} else {
		entry.Trigger.LoadType = []string{LoadFirstParty}
	}
}

func addMatchCase(u *rules.URLRule, entry *Entry) {
	if u.MatchCase {
		entry.Trigger.URLFilterIsCaseSensitive = true
	}
}

// addDomainOptions scopes the trigger by the rule's domain lists. Safari
// cannot express a rule that is both limited to and excluded from domains.
func addDomainOptions(permitted, restricted []string, entry *Entry) error {
	included := collectDomains(permitted)
	excluded := collectDomains(restricted)

	if len(included) > 0 && len(excluded) > 0 {
		return fmt.Errorf("both permitted and restricted domains not supported")
	}
	if len(included) > 0 {
		entry.Trigger.IfDomain = included
	}
	if len(excluded) > 0 {
		entry.Trigger.UnlessDomain = excluded
	}
	return nil
}
