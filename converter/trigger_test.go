package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safariconverter/rules"
)

func mustRule(t *testing.T, text string) *rules.Rule {
	t.Helper()
	rule, err := rules.CreateRule(text)
	require.NoError(t, err)
	require.NotNil(t, rule)
	return rule
}

func TestBuildURLFilter(t *testing.T) {
	rule := mustRule(t, "||example.com^")
	assert.Equal(t,
		`^[htpsw]+:\/\/([a-z0-9-]+\.)?example\.com[/:&?]?`,
		buildURLFilter(rule.URL))
}

func TestBuildURLFilterAnyURL(t *testing.T) {
	for _, text := range []string{"*$image", "|*$image", "||*$image"} {
		rule := mustRule(t, text)
		assert.Equal(t, urlFilterAnyURL, buildURLFilter(rule.URL), text)
	}
}

func TestBuildURLFilterWebSocket(t *testing.T) {
	rule := mustRule(t, "*$websocket")
	assert.Equal(t, urlFilterWSAnyURL, buildURLFilter(rule.URL))

	// Non-anchored pattern gets the ws prefix.
	rule = mustRule(t, "example.com$websocket")
	assert.Equal(t, `^wss?:\/\/.*example\.com`, buildURLFilter(rule.URL))

	// Anchored patterns are left alone.
	rule = mustRule(t, "||example.com^$websocket")
	assert.Equal(t,
		`^[htpsw]+:\/\/([a-z0-9-]+\.)?example\.com[/:&?]?`,
		buildURLFilter(rule.URL))
}

func TestBuildURLFilterRegexRule(t *testing.T) {
	rule := mustRule(t, "/banner[0-9]+/")
	assert.Equal(t, "banner[0-9]+", buildURLFilter(rule.URL))
}

func TestValidateURLFilter(t *testing.T) {
	assert.NoError(t, validateURLFilter(`^[htpsw]+:\/\/example\.com`))
	assert.NoError(t, validateURLFilter(urlFilterCSSRules))

	assert.Error(t, validateURLFilter(`foo{1,3}bar`))
	assert.Error(t, validateURLFilter(`foo|bar`))
	assert.Error(t, validateURLFilter(`пример`))
	assert.Error(t, validateURLFilter(`foo(?!bar)`))
	assert.Error(t, validateURLFilter(`foo\dbar`))
}

func TestValidateURLFilterEscapedMetachars(t *testing.T) {
	// A metacharacter letter after an escaped character is a literal: `\/b`
	// is an escaped slash followed by "b", not `\b`.
	assert.NoError(t, validateURLFilter(`example\.com\/b`))
}

func TestAddResourceType(t *testing.T) {
	entry := &Entry{}
	addResourceType(mustRule(t, "||example.com^$script,image"), entry)
	assert.Equal(t, []string{ResourceImage, ResourceScript}, entry.Trigger.ResourceType)

	// Default mask emits no resource-type key.
	entry = &Entry{}
	addResourceType(mustRule(t, "||example.com^"), entry)
	assert.Nil(t, entry.Trigger.ResourceType)

	// XMLHttpRequest, other and websocket collapse into one raw entry.
	entry = &Entry{}
	addResourceType(mustRule(t, "||example.com^$xmlhttprequest,websocket,other"), entry)
	assert.Equal(t, []string{ResourceRaw}, entry.Trigger.ResourceType)

	entry = &Entry{}
	addResourceType(mustRule(t, "||example.com^$popup"), entry)
	assert.Equal(t, []string{ResourcePopup}, entry.Trigger.ResourceType)
}

func TestAddThirdParty(t *testing.T) {
	entry := &Entry{}
	addThirdParty(mustRule(t, "||example.com^$third-party").URL, entry)
	assert.Equal(t, []string{LoadThirdParty}, entry.Trigger.LoadType)

	entry = &Entry{}
	addThirdParty(mustRule(t, "||example.com^$~third-party").URL, entry)
	assert.Equal(t, []string{LoadFirstParty}, entry.Trigger.LoadType)

	entry = &Entry{}
	addThirdParty(mustRule(t, "||example.com^").URL, entry)
	assert.Nil(t, entry.Trigger.LoadType)
}

func TestAddDomainOptions(t *testing.T) {
	entry := &Entry{}
	err := addDomainOptions([]string{"a.com"}, nil, entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.com"}, entry.Trigger.IfDomain)

	entry = &Entry{}
	err = addDomainOptions([]string{"a.com"}, []string{"b.com"}, entry)
	assert.Error(t, err)
}
