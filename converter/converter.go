// Package converter turns AdGuard-style filter rules into the JSON rule
// format consumed by Safari content blockers.
package converter

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"safariconverter/rules"
)

// Result is the outcome of one conversion.
type Result struct {
	// TotalConvertedCount is the number of entries produced before the
	// limit was applied; ConvertedCount the number after. They differ only
	// when OverLimit is set.
	TotalConvertedCount int
	ConvertedCount      int
	ErrorsCount         int
	OverLimit           bool

	// Converted is the serialized JSON array, tab-indented.
	Converted string
	Errors    []string
}

// ConvertLines converts raw filter-list lines. limit caps the emitted rule
// count (0 disables the cap); optimize discards wide generic CSS rules.
func ConvertLines(lines []string, limit int, optimize bool) *Result {
	var parsed []*rules.Rule
	var parseErrors []string
	for _, line := range lines {
		r, err := rules.CreateRule(line)
		if err != nil {
			parseErrors = append(parseErrors, err.Error())
			continue
		}
		if r != nil {
			parsed = append(parsed, r)
		}
	}
	return finalize(convert(parsed, parseErrors, optimize), limit)
}

// ConvertRules converts already-parsed rules.
func ConvertRules(list []*rules.Rule, limit int, optimize bool) *Result {
	return finalize(convert(list, nil, optimize), limit)
}

// ConvertLine converts a single rule, bypassing categorization and CSS
// post-processing. Errors are appended to errs when it is non-nil.
func ConvertLine(line string, errs *[]string) *Entry {
	record := func(msg string) {
		log.Error().Msg(msg)
		if errs != nil {
			*errs = append(*errs, msg)
		}
	}

	rule, err := rules.CreateRule(line)
	if err != nil {
		record(err.Error())
		return nil
	}
	if rule == nil {
		return nil
	}
	entry, err := translateRule(rule)
	if err != nil {
		record(err.Error())
		return nil
	}
	return entry
}

// finalize concatenates the category buckets in precedence order, applies
// domain wildcards, enforces the rule limit and serializes to JSON.
func finalize(b *buckets, limit int) *Result {
	entries := make([]*Entry, 0,
		len(b.cssBlockingWide)+len(b.cssBlockingGenericDomainSensitive)+
			len(b.cssBlockingGenericHideExceptions)+len(b.cssBlockingDomainSensitive)+
			len(b.cssElemhide)+len(b.urlBlocking)+len(b.other)+
			len(b.important)+len(b.importantExceptions)+len(b.documentExceptions))

	for _, bucket := range [][]*Entry{
		b.cssBlockingWide,
		b.cssBlockingGenericDomainSensitive,
		b.cssBlockingGenericHideExceptions,
		b.cssBlockingDomainSensitive,
		b.cssElemhide,
		b.urlBlocking,
		b.other,
		b.important,
		b.importantExceptions,
		b.documentExceptions,
	} {
		for _, entry := range bucket {
			if len(entry.Trigger.IfDomain) > 0 && len(entry.Trigger.UnlessDomain) > 0 {
				b.addError(fmt.Sprintf(
					"entry has both if-domain and unless-domain, skipping: %s",
					entry.Trigger.URLFilter))
				continue
			}
			entries = append(entries, entry)
		}
	}

	applyDomainWildcards(entries)

	total := len(entries)
	overLimit := false
	if limit > 0 && len(entries) > limit {
		overLimit = true
		b.addError(fmt.Sprintf("%d limit is achieved. Next rules will be ignored.", limit))
		entries = entries[:limit]
	}

	data, err := json.MarshalIndent(entries, "", "\t")
	if err != nil {
		// Entries are plain structs; this cannot fail on real input.
		b.addError(fmt.Sprintf("failed to serialize entries: %v", err))
		data = []byte("[]")
	}

	log.Info().
		Int("total", total).
		Int("converted", len(entries)).
		Int("errors", len(b.errors)).
		Bool("overLimit", overLimit).
		Msg("conversion finished")

	return &Result{
		TotalConvertedCount: total,
		ConvertedCount:      len(entries),
		ErrorsCount:         len(b.errors),
		OverLimit:           overLimit,
		Converted:           string(data),
		Errors:              b.errors,
	}
}

// applyDomainWildcards prefixes every scoped domain with "*" so that
// subdomains match. Safari treats a leading "*" as "this domain and any
// subdomain".
func applyDomainWildcards(entries []*Entry) {
	prefix := func(domains []string) {
		for i, d := range domains {
			domains[i] = "*" + d
		}
	}
	for _, entry := range entries {
		prefix(entry.Trigger.IfDomain)
		prefix(entry.Trigger.UnlessDomain)
	}
}
