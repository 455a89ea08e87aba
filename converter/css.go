package converter

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxSelectorsPerWideRule caps how many selectors a compacted generic
// hiding entry may carry. Safari compiles each selector list; very long
// lists get expensive.
const MaxSelectorsPerWideRule = 250

// applyCSSExceptions joins hiding entries with exception entries sharing
// the same selector: the exception's if-domain hosts become unless-domain
// hosts on the hiding entry. Entries left with both if-domain and
// unless-domain cannot be expressed and are dropped.
func applyCSSExceptions(cssBlocking, cssExceptions []*Entry, errors *[]string) []*Entry {
	rulesMap := groupBySelector(cssBlocking)

	for _, exc := range cssExceptions {
		for _, hide := range rulesMap[exc.Action.Selector] {
			for _, domain := range exc.Trigger.IfDomain {
				pushExceptionDomain(domain, hide)
			}
		}
	}

	var out []*Entry
	for _, entry := range cssBlocking {
		if len(entry.Trigger.IfDomain) > 0 && len(entry.Trigger.UnlessDomain) > 0 {
			log.Error().Str("selector", entry.Action.Selector).
				Msg("dropping hiding rule with both if-domain and unless-domain")
			*errors = append(*errors,
				"element hiding rule has both permitted and restricted domains after exceptions: "+entry.Action.Selector)
			continue
		}
		out = append(out, entry)
	}
	return out
}

func groupBySelector(entries []*Entry) map[string][]*Entry {
	m := make(map[string][]*Entry, len(entries))
	for _, e := range entries {
		m[e.Action.Selector] = append(m[e.Action.Selector], e)
	}
	return m
}

// pushExceptionDomain appends an exception domain to a hiding entry's
// unless-domain list. A domain-scoped hiding entry only takes the
// exception when one of its permitted domains occurs inside the exception
// domain; the substring test approximates subdomain containment.
func pushExceptionDomain(domain string, entry *Entry) {
	if domain == "" {
		return
	}
	if len(entry.Trigger.IfDomain) > 0 {
		applicable := false
		for _, permitted := range entry.Trigger.IfDomain {
			if strings.Contains(domain, permitted) {
				applicable = true
				break
			}
		}
		if !applicable {
			return
		}
	}
	entry.Trigger.UnlessDomain = append(entry.Trigger.UnlessDomain, domain)
}

// compacted holds the three domain-scoping classes of hiding entries.
type compacted struct {
	wide                   []*Entry
	genericDomainSensitive []*Entry
	domainSensitive        []*Entry
}

// compactCSSRules splits hiding entries by domain scope and batches the
// wide (unscoped) ones, comma-joining their selectors.
func compactCSSRules(cssBlocking []*Entry) *compacted {
	c := &compacted{}
	var wideSelectors []string

	flush := func() {
		if len(wideSelectors) == 0 {
			return
		}
		c.wide = append(c.wide, &Entry{
			Trigger: Trigger{URLFilter: urlFilterCSSRules},
			Action: Action{
				Type:     ActionCSSDisplayNone,
				Selector: strings.Join(wideSelectors, ", "),
			},
		})
		wideSelectors = nil
	}

	for _, entry := range cssBlocking {
		switch {
		case len(entry.Trigger.IfDomain) > 0:
			c.domainSensitive = append(c.domainSensitive, entry)
		case len(entry.Trigger.UnlessDomain) > 0:
			c.genericDomainSensitive = append(c.genericDomainSensitive, entry)
		default:
			wideSelectors = append(wideSelectors, entry.Action.Selector)
			if len(wideSelectors) >= MaxSelectorsPerWideRule {
				flush()
			}
		}
	}
	flush()
	return c
}
