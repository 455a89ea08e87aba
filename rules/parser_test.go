package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRuleSkipsNonRules(t *testing.T) {
	for _, line := range []string{
		"",
		"! comment",
		"!#include something",
		" leading space",
		"127.0.0.1 - localhost",
	} {
		rule, err := CreateRule(line)
		assert.NoError(t, err, line)
		assert.Nil(t, rule, line)
	}
}

func TestCreateRuleRejectsUnsupported(t *testing.T) {
	for _, line := range []string{
		"example.com##^script:has-text(ads)",
		"example.com#%#window.ads = false;",
		"example.com$$script[data-src=\"banner\"]",
		"example.com$@$script[data-src=\"banner\"]",
	} {
		rule, err := CreateRule(line)
		assert.NoError(t, err, line)
		assert.Nil(t, rule, line)
	}
}

func TestCreateRuleNetwork(t *testing.T) {
	rule, err := CreateRule("||example.com^")
	require.NoError(t, err)
	require.NotNil(t, rule)

	assert.Equal(t, KindURL, rule.Kind)
	assert.Equal(t, "||example.com^", rule.Text)
	assert.Equal(t, "||example.com^", rule.URL.PatternText)
	assert.False(t, rule.Whitelist)
	assert.Equal(t, TypeAll, rule.URL.PermittedTypes)
}

func TestCreateRuleWhitelist(t *testing.T) {
	rule, err := CreateRule("@@||example.com^$document")
	require.NoError(t, err)
	require.NotNil(t, rule)

	assert.True(t, rule.Whitelist)
	assert.True(t, rule.IsDocumentWhiteList())
	assert.Equal(t, "||example.com^", rule.URL.PatternText)
}

func TestCreateRuleContentTypes(t *testing.T) {
	rule, err := CreateRule("||example.com^$script,image")
	require.NoError(t, err)

	assert.Equal(t, TypeScript|TypeImage, rule.URL.PermittedTypes)
	assert.Zero(t, rule.URL.RestrictedTypes)

	rule, err = CreateRule("||example.com^$~script")
	require.NoError(t, err)
	assert.Equal(t, TypeAll, rule.URL.PermittedTypes)
	assert.Equal(t, TypeScript, rule.URL.RestrictedTypes)
}

func TestCreateRuleOptions(t *testing.T) {
	rule, err := CreateRule("||example.com^$third-party,match-case,important")
	require.NoError(t, err)

	assert.True(t, rule.URL.CheckThirdParty)
	assert.True(t, rule.URL.ThirdParty)
	assert.True(t, rule.URL.MatchCase)
	assert.True(t, rule.Important)

	rule, err = CreateRule("||example.com^$~third-party")
	require.NoError(t, err)
	assert.True(t, rule.URL.CheckThirdParty)
	assert.False(t, rule.URL.ThirdParty)
}

func TestCreateRuleUnknownOption(t *testing.T) {
	rule, err := CreateRule("||example.com^$nosuchoption")
	assert.Error(t, err)
	assert.Nil(t, rule)
}

func TestCreateRuleDomainOption(t *testing.T) {
	rule, err := CreateRule("||example.com^$domain=a.com|b.com|~c.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.com", "b.com"}, rule.URL.PermittedDomains)
	assert.Equal(t, []string{"c.com"}, rule.URL.RestrictedDomains)
}

func TestCreateRuleRegex(t *testing.T) {
	rule, err := CreateRule("/banner[0-9]+/")
	require.NoError(t, err)

	assert.True(t, rule.URL.IsRegex)
	assert.Equal(t, "banner[0-9]+", rule.URL.RegexSource)

	// Regex rule with options after the closing slash.
	rule, err = CreateRule("/adv/$script")
	require.NoError(t, err)
	assert.True(t, rule.URL.IsRegex)
	assert.Equal(t, "adv", rule.URL.RegexSource)
	assert.Equal(t, TypeScript, rule.URL.PermittedTypes)
}

func TestCreateRuleBadFilter(t *testing.T) {
	rule, err := CreateRule("||example.com^$badfilter")
	require.NoError(t, err)
	assert.True(t, rule.BadFilter)
	assert.Equal(t, "||example.com^", rule.BadFilterText)

	rule, err = CreateRule("||example.com^$script,badfilter")
	require.NoError(t, err)
	assert.Equal(t, "||example.com^$script", rule.BadFilterText)
}

func TestCreateRuleCosmetic(t *testing.T) {
	rule, err := CreateRule("example.com,~sub.example.com##.ad")
	require.NoError(t, err)

	assert.Equal(t, KindCSS, rule.Kind)
	assert.Equal(t, ".ad", rule.CSS.Selector)
	assert.Equal(t, []string{"example.com"}, rule.CSS.PermittedDomains)
	assert.Equal(t, []string{"sub.example.com"}, rule.CSS.RestrictedDomains)
	assert.False(t, rule.Whitelist)
}

func TestCreateRuleCosmeticException(t *testing.T) {
	rule, err := CreateRule("example.com#@#.ad")
	require.NoError(t, err)

	assert.Equal(t, KindCSS, rule.Kind)
	assert.True(t, rule.Whitelist)
	assert.Equal(t, ".ad", rule.CSS.Selector)
	assert.Equal(t, []string{"example.com"}, rule.CSS.PermittedDomains)
}

func TestCreateRuleCosmeticMarkers(t *testing.T) {
	rule, err := CreateRule("example.com#$#body { overflow: hidden }")
	require.NoError(t, err)
	assert.True(t, rule.CSS.Inject)

	rule, err = CreateRule("example.com#?#div:has(> .ad)")
	require.NoError(t, err)
	assert.True(t, rule.CSS.ExtendedCSS)

	rule, err = CreateRule("example.com#@?#div:has(> .ad)")
	require.NoError(t, err)
	assert.True(t, rule.CSS.ExtendedCSS)
	assert.True(t, rule.Whitelist)
}

func TestCreateRuleCosmeticSelectorWithDollar(t *testing.T) {
	rule, err := CreateRule(`##a[href$="banner.jpg"]`)
	require.NoError(t, err)
	assert.Equal(t, `a[href$="banner.jpg"]`, rule.CSS.Selector)
	assert.Empty(t, rule.CSS.PermittedDomains)
}

func TestCreateRuleEmptySelector(t *testing.T) {
	rule, err := CreateRule("example.com##")
	assert.Error(t, err)
	assert.Nil(t, rule)
}

func TestCreateRuleScriptlet(t *testing.T) {
	rule, err := CreateRule("example.com##+js(abort-on-property-read, ads)")
	require.NoError(t, err)
	assert.Equal(t, KindScriptlet, rule.Kind)
}

func TestConvertRuleTextAliases(t *testing.T) {
	rule, err := CreateRule("||example.com^$3p,xhr")
	require.NoError(t, err)

	assert.Equal(t, "||example.com^$third-party,xmlhttprequest", rule.ConvertedText)
	assert.True(t, rule.URL.ThirdParty)
	assert.Equal(t, TypeXMLHTTPRequest, rule.URL.PermittedTypes)

	rule, err = CreateRule("@@||example.com^$ghide")
	require.NoError(t, err)
	assert.True(t, rule.IsSingleOption(OptionGenericHide))
}

func TestIsSingleOption(t *testing.T) {
	rule, err := CreateRule("@@||example.com^$elemhide")
	require.NoError(t, err)
	assert.True(t, rule.IsSingleOption(OptionElemhide))

	rule, err = CreateRule("@@||example.com^$elemhide,jsinject")
	require.NoError(t, err)
	assert.False(t, rule.IsSingleOption(OptionElemhide))
}
