package rules

// Kind distinguishes the translation path required for a rule.
type Kind int

const (
	KindURL       Kind = iota // network rule: ||example.com^$script
	KindCSS                   // cosmetic rule: example.com##.ad
	KindScript                // javascript injection
	KindScriptlet             // scriptlet injection: ##+js(...)
	KindComposite             // wrapper around several sub-rules
)

// ContentType is a bitmask of request types a network rule applies to.
type ContentType uint32

const (
	TypeOther ContentType = 1 << iota
	TypeImage
	TypeStylesheet
	TypeScript
	TypeMedia
	TypeXMLHTTPRequest
	TypeWebSocket
	TypeFont
	TypeSubdocument
	TypeObject
	TypeObjectSubrequest
	TypeWebRTC

	// TypeAll is the default mask: every request type is permitted.
	TypeAll = TypeOther | TypeImage | TypeStylesheet | TypeScript |
		TypeMedia | TypeXMLHTTPRequest | TypeWebSocket | TypeFont |
		TypeSubdocument | TypeObject | TypeObjectSubrequest | TypeWebRTC
)

// Option is a bitmask of rule behavior options.
type Option uint32

const (
	OptionJSInject Option = 1 << iota
	OptionURLBlock
	OptionGenericBlock
	OptionGenericHide
	OptionElemhide
	OptionContent

	// OptionDocumentLevel is what $document expands to on exception rules.
	OptionDocumentLevel = OptionJSInject | OptionURLBlock | OptionElemhide |
		OptionGenericHide | OptionGenericBlock | OptionContent
)

// URLRule holds the network-rule specific fields.
type URLRule struct {
	// PatternText is the rule pattern with the whitelist prefix and the
	// options suffix stripped. May be empty or one of the any-URL forms
	// ("*", "|*", "||*").
	PatternText string

	// RegexSource is the body of a /regex/ rule, verbatim. Regex rules are
	// passed through to the content blocker as-is, so the source is kept as
	// a string instead of being compiled by Go's regexp engine (the target
	// dialect accepts constructs RE2 does not).
	RegexSource string
	IsRegex     bool

	PermittedTypes  ContentType
	RestrictedTypes ContentType
	Options         Option

	// CheckThirdParty is set when the rule carries $third-party or
	// $~third-party; ThirdParty holds the polarity.
	ThirdParty      bool
	CheckThirdParty bool

	MatchCase         bool
	BlockPopups       bool
	CSP               bool
	Replace           bool
	DocumentWhitelist bool

	PermittedDomains  []string
	RestrictedDomains []string
}

// CSSRule holds the cosmetic-rule specific fields.
type CSSRule struct {
	Selector    string
	Inject      bool // #$# style injection
	ExtendedCSS bool // #?# procedural selectors

	PermittedDomains  []string
	RestrictedDomains []string
}

// Rule is a parsed filter rule. At most one of URL, CSS or Sub is set,
// depending on Kind; scriptlet rules carry none of them.
type Rule struct {
	Kind Kind

	// Text is the rule as it appeared in the filter list. ConvertedText is
	// the rule after dialect normalization; equal to Text when no rewrite
	// was needed.
	Text          string
	ConvertedText string

	Whitelist bool
	Important bool

	// BadFilter marks a $badfilter rule; BadFilterText is the rule text it
	// cancels (the rule with the $badfilter option removed).
	BadFilter     bool
	BadFilterText string

	URL *URLRule
	CSS *CSSRule
	Sub []*Rule
}

// IsSingleOption reports whether opt is the only enabled option on the rule.
// Exact equality, not intersection: $generichide,elemhide is not a single
// generichide rule.
func (r *Rule) IsSingleOption(opt Option) bool {
	return r.URL != nil && r.URL.Options == opt
}

// IsDocumentWhiteList reports whether the rule is a $document exception.
func (r *Rule) IsDocumentWhiteList() bool {
	return r.URL != nil && r.URL.DocumentWhitelist
}
