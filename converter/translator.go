package converter

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"safariconverter/rules"
)

// translateRule converts one parsed rule into a content blocker entry.
// Only network and cosmetic rules translate; everything else is
// unsupported in Safari's declarative format.
func translateRule(rule *rules.Rule) (*Entry, error) {
	switch rule.Kind {
	case rules.KindURL:
		return translateURL(rule)
	case rules.KindCSS:
		return translateCSS(rule)
	case rules.KindScript, rules.KindScriptlet:
		return nil, fmt.Errorf("scripting rules are not supported: %s", rule.Text)
	case rules.KindComposite:
		return nil, fmt.Errorf("composite rules are not supported: %s", rule.Text)
	}
	return nil, fmt.Errorf("unexpected rule kind: %s", rule.Text)
}

// translateCSS converts an element-hiding rule.
func translateCSS(rule *rules.Rule) (*Entry, error) {
	css := rule.CSS
	if css.Inject {
		return nil, fmt.Errorf("CSS injection rules are not supported: %s", rule.Text)
	}
	if css.ExtendedCSS {
		return nil, fmt.Errorf("extended CSS rules are not supported: %s", rule.Text)
	}

	entry := &Entry{
		Trigger: Trigger{URLFilter: urlFilterCSSRules},
		Action: Action{
			Type:     ActionCSSDisplayNone,
			Selector: css.Selector,
		},
	}
	if rule.Whitelist {
		entry.Action.Type = ActionIgnorePreviousRules
	}
	if err := addDomainOptions(css.PermittedDomains, css.RestrictedDomains, entry); err != nil {
		return nil, fmt.Errorf("%w: %s", err, rule.Text)
	}
	return entry, nil
}

// translateURL converts a network rule.
func translateURL(rule *rules.Rule) (*Entry, error) {
	u := rule.URL

	if u.CSP {
		return nil, fmt.Errorf("CSP rules are not supported: %s", rule.Text)
	}
	if u.Replace {
		return nil, fmt.Errorf("$replace rules are not supported: %s", rule.Text)
	}
	switch u.PermittedTypes {
	case rules.TypeObject, rules.TypeObjectSubrequest, rules.TypeWebRTC:
		return nil, fmt.Errorf("content type is not supported: %s", rule.Text)
	}
	if u.Options == rules.OptionJSInject {
		return nil, fmt.Errorf("$jsinject rules are not supported: %s", rule.Text)
	}

	filter := buildURLFilter(u)
	if err := validateURLFilter(filter); err != nil {
		return nil, err
	}

	entry := &Entry{
		Trigger: Trigger{URLFilter: filter},
		Action:  Action{Type: ActionBlock},
	}
	if rule.Whitelist {
		entry.Action.Type = ActionIgnorePreviousRules
	}

	addResourceType(rule, entry)
	addThirdParty(u, entry)
	addMatchCase(u, entry)
	if err := addDomainOptions(u.PermittedDomains, u.RestrictedDomains, entry); err != nil {
		return nil, fmt.Errorf("%w: %s", err, rule.Text)
	}

	checkWhiteListExceptions(rule, entry)

	if err := validateURLBlockingRule(rule, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// checkWhiteListExceptions rewrites document-level and option-only
// exception rules into domain-scoped any-URL triggers. Safari has no
// notion of "disable filtering on this site"; the closest expressible form
// is an ignore-previous-rules entry scoped by if-domain.
func checkWhiteListExceptions(rule *rules.Rule, entry *Entry) {
	if !rule.Whitelist {
		return
	}

	documentWhitelist := rule.IsDocumentWhiteList()
	urlBlockException := rule.IsSingleOption(rules.OptionURLBlock) ||
		rule.IsSingleOption(rules.OptionGenericBlock)
	cssException := rule.IsSingleOption(rules.OptionGenericHide) ||
		rule.IsSingleOption(rules.OptionElemhide)

	if !documentWhitelist && !urlBlockException && !cssException {
		return
	}

	if documentWhitelist {
		entry.Trigger.ResourceType = nil
	}

	parsed := parseRuleDomain(rule.URL.PatternText)
	if parsed == nil {
		log.Debug().Str("rule", rule.Text).
			Msg("whitelist exception has no parseable domain, keeping original filter")
		return
	}
	if parsed.hasPath && parsed.path != "^" && parsed.path != "/" {
		log.Debug().Str("rule", rule.Text).Str("path", parsed.path).
			Msg("whitelist exception has a path, keeping original filter")
		return
	}

	entry.Trigger.IfDomain = []string{parsed.domain}
	entry.Trigger.UnlessDomain = nil
	entry.Trigger.URLFilter = urlFilterAnyURL
	entry.Trigger.ResourceType = nil
}

// validateURLBlockingRule enforces the document blocking policy: a block
// entry whose resource-type includes document must carry if-domain or a
// third-party load-type.
func validateURLBlockingRule(rule *rules.Rule, entry *Entry) error {
	if entry.Action.Type != ActionBlock {
		return nil
	}
	if !containsString(entry.Trigger.ResourceType, ResourceDocument) {
		return nil
	}
	if len(entry.Trigger.IfDomain) > 0 {
		return nil
	}
	if containsString(entry.Trigger.LoadType, LoadThirdParty) {
		return nil
	}
	return fmt.Errorf("document blocking requires if-domain or third-party: %s", rule.Text)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
