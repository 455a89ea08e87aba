package converter

import (
	"regexp"
	"strings"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"
)

var domainValidation = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-.]*[a-zA-Z0-9]\.[a-zA-Z-]{2,}$`)

// toPunycode lowercases a domain and encodes it to its ASCII-compatible
// form. IDNA failures keep the lowercased original; a bad domain surfaces
// as a non-matching trigger rather than a dropped rule.
func toPunycode(domain string) string {
	domain = strings.ToLower(domain)
	if ascii, err := idna.ToASCII(domain); err == nil {
		return ascii
	}
	return domain
}

// collectDomains normalizes a rule's domain list: empty strings are
// skipped, the rest lowercased and punycoded.
func collectDomains(domains []string) []string {
	var out []string
	for _, d := range domains {
		if d == "" {
			continue
		}
		out = append(out, toPunycode(d))
	}
	return out
}

// parsedDomain is the result of extracting a domain from raw rule text.
type parsedDomain struct {
	domain string
	// path is what follows the domain terminator, including the
	// terminator itself. hasPath distinguishes "no terminator" from an
	// empty remainder.
	path    string
	hasPath bool
}

var ruleDomainPrefixes = []string{"http://www.", "https://www.", "http://", "https://", "||", "//"}

// parseRuleDomain extracts the domain a whitelist rule applies to from its
// options-stripped pattern text. Returns nil when no well-formed domain is
// present. Rules that scope by $domain= instead of the pattern keep the
// if-domain list addDomainOptions already produced.
func parseRuleDomain(text string) *parsedDomain {
	start := 0
	for _, p := range ruleDomainPrefixes {
		if strings.HasPrefix(text, p) {
			start = len(p)
			break
		}
	}

	rest := text[start:]
	end := strings.Index(rest, "/")
	if end == -1 {
		end = strings.Index(rest, "^")
	}

	d := &parsedDomain{}
	if end == -1 {
		d.domain = rest
	} else {
		d.domain = rest[:end]
		d.path = rest[end:]
		d.hasPath = true
	}

	if !domainValidation.MatchString(d.domain) {
		return nil
	}
	// The shape check above does not bound label or name length; the DNS
	// wire-format check does.
	if _, ok := dns.IsDomainName(d.domain); !ok {
		return nil
	}

	d.domain = toPunycode(d.domain)
	return d
}
