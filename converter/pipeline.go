package converter

import (
	"github.com/rs/zerolog/log"

	"safariconverter/rules"
)

// buckets holds translated entries grouped by category. Safari applies
// rules in order, so the category order in finalize is the precedence
// order of the output.
type buckets struct {
	cssBlockingWide                   []*Entry
	cssBlockingGenericDomainSensitive []*Entry
	cssBlockingGenericHideExceptions  []*Entry
	cssBlockingDomainSensitive        []*Entry
	cssElemhide                       []*Entry
	urlBlocking                       []*Entry
	other                             []*Entry
	important                         []*Entry
	importantExceptions               []*Entry
	documentExceptions                []*Entry

	errors []string
}

func (b *buckets) addError(msg string) {
	log.Error().Msg(msg)
	b.errors = append(b.errors, msg)
}

// convert runs the rule set through translation, categorization and CSS
// post-processing. extraErrors carries parse failures from the caller so
// they count toward the result like translation failures do.
func convert(list []*rules.Rule, extraErrors []string, optimize bool) *buckets {
	b := &buckets{}
	for _, msg := range extraErrors {
		b.addError(msg)
	}

	// $badfilter rules are not translated; they cancel rules by text.
	badFilterExceptions := make(map[string]struct{})
	agRules := make([]*rules.Rule, 0, len(list))
	for _, r := range list {
		if r == nil {
			continue
		}
		if r.BadFilter {
			badFilterExceptions[r.BadFilterText] = struct{}{}
			continue
		}
		agRules = append(agRules, r)
	}

	var cssBlocking, cssExceptions []*Entry

	for _, r := range agRules {
		if _, ok := badFilterExceptions[r.Text]; ok {
			log.Info().Str("rule", r.Text).Msg("rule suppressed by $badfilter")
			continue
		}

		entry, err := translateRule(r)
		if err != nil {
			b.addError(err.Error())
			continue
		}

		switch {
		case entry.Action.Type == ActionBlock:
			if r.Important {
				b.important = append(b.important, entry)
			} else {
				b.urlBlocking = append(b.urlBlocking, entry)
			}
		case entry.Action.Type == ActionCSSDisplayNone:
			cssBlocking = append(cssBlocking, entry)
		case entry.Action.Selector != "":
			cssExceptions = append(cssExceptions, entry)
		case r.IsSingleOption(rules.OptionGenericHide):
			b.cssBlockingGenericHideExceptions = append(b.cssBlockingGenericHideExceptions, entry)
		case r.IsSingleOption(rules.OptionElemhide):
			b.cssElemhide = append(b.cssElemhide, entry)
		case r.Important:
			b.importantExceptions = append(b.importantExceptions, entry)
		case r.IsDocumentWhiteList():
			b.documentExceptions = append(b.documentExceptions, entry)
		default:
			b.other = append(b.other, entry)
		}
	}

	cssBlocking = applyCSSExceptions(cssBlocking, cssExceptions, &b.errors)
	c := compactCSSRules(cssBlocking)
	if optimize {
		log.Debug().Int("discarded", len(c.wide)).Msg("discarding wide generic CSS rules")
	} else {
		b.cssBlockingWide = c.wide
	}
	b.cssBlockingGenericDomainSensitive = c.genericDomainSensitive
	b.cssBlockingDomainSensitive = c.domainSensitive

	return b
}
