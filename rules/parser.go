package rules

import (
	"fmt"
	"strings"
)

const (
	maskWhitelist        = "@@"
	maskHTMLFilter       = "##^"
	maskScriptInjection  = "#%#"
	maskScriptException  = "#@%#"
	maskContentRule      = "$$"
	maskContentException = "$@$"
)

// Cosmetic markers, longest first so that "#@#" is not mistaken for "##".
var cosmeticMarkers = []string{"#@$#", "#@?#", "#$#", "#?#", "#@#", "##"}

// CreateRule parses a single line of filter-list text.
// Returns (nil, nil) for lines that carry no rule: blanks, comments
// (leading "!"), lines starting with a space and hosts-file residue
// containing " - ", and likewise for rule forms the builder does not handle:
// HTML filters ("##^"), script injection ("#%#", "#@%#") and content rules
// ("$$", "$@$"). Returns an error for malformed rules such as unknown
// options or empty selectors.
func CreateRule(text string) (*Rule, error) {
	if text == "" || strings.HasPrefix(text, "!") || strings.HasPrefix(text, " ") {
		return nil, nil
	}
	if strings.Contains(text, " - ") {
		return nil, nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	converted := convertRuleText(text)

	if isScriptletRule(converted) {
		return &Rule{
			Kind:          KindScriptlet,
			Text:          text,
			ConvertedText: converted,
			Whitelist:     strings.Contains(converted, "#@"),
		}, nil
	}

	switch {
	case strings.Contains(converted, maskHTMLFilter),
		strings.Contains(converted, maskScriptInjection),
		strings.Contains(converted, maskScriptException),
		strings.Contains(converted, maskContentException),
		strings.Contains(converted, maskContentRule):
		return nil, nil
	}

	if idx, marker := findCosmeticMarker(converted); idx != -1 {
		return parseCosmeticRule(text, converted, idx, marker)
	}
	return parseNetworkRule(text, converted)
}

func findCosmeticMarker(text string) (int, string) {
	for i := 0; i < len(text); i++ {
		if text[i] != '#' {
			continue
		}
		for _, m := range cosmeticMarkers {
			if strings.HasPrefix(text[i:], m) {
				return i, m
			}
		}
	}
	return -1, ""
}

func parseCosmeticRule(text, converted string, idx int, marker string) (*Rule, error) {
	selector := strings.TrimSpace(converted[idx+len(marker):])
	if selector == "" {
		return nil, fmt.Errorf("empty selector in cosmetic rule: %s", text)
	}

	css := &CSSRule{
		Selector:    selector,
		Inject:      strings.Contains(marker, "$"),
		ExtendedCSS: strings.Contains(marker, "?"),
	}
	for _, d := range strings.Split(converted[:idx], ",") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if strings.HasPrefix(d, "~") {
			css.RestrictedDomains = append(css.RestrictedDomains, d[1:])
		} else {
			css.PermittedDomains = append(css.PermittedDomains, d)
		}
	}

	return &Rule{
		Kind:          KindCSS,
		Text:          text,
		ConvertedText: converted,
		Whitelist:     strings.Contains(marker, "@"),
		CSS:           css,
	}, nil
}

func parseNetworkRule(text, converted string) (*Rule, error) {
	rule := &Rule{
		Kind:          KindURL,
		Text:          text,
		ConvertedText: converted,
		URL:           &URLRule{PermittedTypes: TypeAll},
	}

	t := converted
	if strings.HasPrefix(t, maskWhitelist) {
		rule.Whitelist = true
		t = t[2:]
	}

	// Rules shaped /.../ with no options part are regex rules; the body is
	// kept verbatim (see URLRule.RegexSource).
	if strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/") && len(t) > 2 {
		rule.URL.IsRegex = true
		rule.URL.RegexSource = t[1 : len(t)-1]
		rule.URL.PatternText = t
		return rule, nil
	}

	if idx := strings.LastIndex(t, "$"); idx != -1 {
		if err := parseOptions(t[idx+1:], rule); err != nil {
			return nil, fmt.Errorf("%w: %s", err, text)
		}
		t = t[:idx]
	}

	if strings.HasPrefix(t, "/") && strings.HasSuffix(t, "/") && len(t) > 2 {
		rule.URL.IsRegex = true
		rule.URL.RegexSource = t[1 : len(t)-1]
	}
	if strings.ContainsAny(t, " \t") {
		return nil, fmt.Errorf("unexpected whitespace in rule: %s", text)
	}
	rule.URL.PatternText = t

	if rule.BadFilter {
		rule.BadFilterText = badFilterText(text)
	}
	return rule, nil
}

// Content-type options. The "~" negated forms feed the restricted mask.
var typeOptions = map[string]ContentType{
	"other":             TypeOther,
	"image":             TypeImage,
	"stylesheet":        TypeStylesheet,
	"script":            TypeScript,
	"media":             TypeMedia,
	"xmlhttprequest":    TypeXMLHTTPRequest,
	"websocket":         TypeWebSocket,
	"font":              TypeFont,
	"subdocument":       TypeSubdocument,
	"object":            TypeObject,
	"object-subrequest": TypeObjectSubrequest,
	"webrtc":            TypeWebRTC,
}

var behaviorOptions = map[string]Option{
	"jsinject":     OptionJSInject,
	"urlblock":     OptionURLBlock,
	"genericblock": OptionGenericBlock,
	"generichide":  OptionGenericHide,
	"elemhide":     OptionElemhide,
	"content":      OptionContent,
}

func parseOptions(optionsText string, rule *Rule) error {
	u := rule.URL
	permittedSet := false
	narrow := func(ct ContentType) {
		if !permittedSet {
			u.PermittedTypes = 0
			permittedSet = true
		}
		u.PermittedTypes |= ct
	}

	for _, part := range strings.Split(optionsText, ",") {
		name, value, _ := strings.Cut(part, "=")
		base := strings.TrimPrefix(name, "~")

		if ct, ok := typeOptions[base]; ok {
			if strings.HasPrefix(name, "~") {
				u.RestrictedTypes |= ct
			} else {
				narrow(ct)
			}
			continue
		}
		if opt, ok := behaviorOptions[name]; ok {
			u.Options |= opt
			continue
		}

		switch name {
		case "third-party":
			u.CheckThirdParty = true
			u.ThirdParty = true
		case "~third-party":
			u.CheckThirdParty = true
			u.ThirdParty = false
		case "match-case":
			u.MatchCase = true
		case "~match-case":
			// default behavior, nothing to record
		case "important":
			rule.Important = true
		case "badfilter":
			rule.BadFilter = true
		case "popup":
			u.BlockPopups = true
			narrow(TypeSubdocument)
		case "csp":
			u.CSP = true
		case "replace":
			u.Replace = true
		case "all":
			// every request type, which is already the default
		case "document":
			if rule.Whitelist {
				u.DocumentWhitelist = true
				u.Options |= OptionDocumentLevel
			} else {
				narrow(TypeSubdocument)
			}
		case "domain":
			if value == "" {
				return fmt.Errorf("empty $domain option")
			}
			for _, d := range strings.Split(value, "|") {
				d = strings.TrimSpace(d)
				if d == "" {
					continue
				}
				if strings.HasPrefix(d, "~") {
					u.RestrictedDomains = append(u.RestrictedDomains, d[1:])
				} else {
					u.PermittedDomains = append(u.PermittedDomains, d)
				}
			}
		default:
			return fmt.Errorf("unknown rule option %q", name)
		}
	}
	return nil
}

// badFilterText derives the rule text a $badfilter rule cancels: the same
// rule with the badfilter option removed.
func badFilterText(text string) string {
	idx := strings.LastIndex(text, "$")
	if idx == -1 {
		return text
	}
	var rest []string
	for _, o := range strings.Split(text[idx+1:], ",") {
		if o != "badfilter" {
			rest = append(rest, o)
		}
	}
	if len(rest) == 0 {
		return text[:idx]
	}
	return text[:idx+1] + strings.Join(rest, ",")
}
