package robots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowedNoRulesAllowsEverything(t *testing.T) {
	assert.True(t, AllowAll.Allowed("AnyBot/1.0", "/anything"))
}

func TestParseBasicDisallow(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /private\n")
	assert.False(t, r.Allowed("TestAgent/1.0", "/private/page"))
	assert.True(t, r.Allowed("TestAgent/1.0", "/public"))
}

func TestParseSkipsEmptyDisallow(t *testing.T) {
	r := Parse("User-agent: *\nDisallow:\n")
	assert.True(t, r.Allowed("TestAgent/1.0", "/anything"))
}

func TestParseIgnoresCommentsAndMalformedLines(t *testing.T) {
	r := Parse("# comment\nUser-agent: *\nnotadirective\nDisallow: /x # trailing comment\n")
	assert.False(t, r.Allowed("Bot", "/x/y"))
	assert.True(t, r.Allowed("Bot", "/y"))
}

func TestMatchGroupPrefersSpecificOverWildcard(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /all\n\nUser-agent: TestAgent\nDisallow: /specific\n")
	assert.True(t, r.Allowed("TestAgent/1.0", "/all"))
	assert.False(t, r.Allowed("TestAgent/1.0", "/specific"))
	assert.False(t, r.Allowed("OtherBot/1.0", "/all"))
}

func TestLongestMatchWinsOverAllowTie(t *testing.T) {
	r := Parse("User-agent: *\nAllow: /foo\nDisallow: /foo/bar\n")
	assert.True(t, r.Allowed("Bot", "/foo"))
	assert.False(t, r.Allowed("Bot", "/foo/bar"))
	assert.False(t, r.Allowed("Bot", "/foo/bar/baz"))
}

func TestEqualLengthTieFavorsAllow(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /foo\nAllow: /foo\n")
	assert.True(t, r.Allowed("Bot", "/foo"))
}

func TestWildcardPattern(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: */test\n")
	assert.False(t, r.Allowed("Bot", "/foo/bar/test"))
	assert.True(t, r.Allowed("Bot", "/foo/bar/testing"))
}

func TestEndAnchorPattern(t *testing.T) {
	r := Parse("User-agent: *\nDisallow: /foo$\n")
	assert.False(t, r.Allowed("Bot", "/foo"))
	assert.True(t, r.Allowed("Bot", "/foobar"))
}

func TestCrawlDelay(t *testing.T) {
	r := Parse("User-agent: *\nCrawl-delay: 2.5\n")
	d := r.CrawlDelay("Bot")
	require.NotNil(t, d)
	assert.Equal(t, 2500*time.Millisecond, *d)
}

func TestCrawlDelayAbsentWhenNoGroupMatches(t *testing.T) {
	r := Parse("User-agent: SpecificBot\nCrawl-delay: 1\n")
	assert.Nil(t, r.CrawlDelay("OtherBot"))
}

func TestUserAgentMatchIsCaseInsensitivePrefix(t *testing.T) {
	r := Parse("User-agent: TestAgent\nDisallow: /x\n")
	assert.False(t, r.Allowed("testagent/2.0", "/x"))
}

func TestNewUserAgentAfterDirectiveStartsFreshGroup(t *testing.T) {
	r := Parse("User-agent: a\nDisallow: /a\nUser-agent: b\nDisallow: /b\n")
	require.Len(t, r.Groups, 2)
	assert.Equal(t, []string{"a"}, r.Groups[0].Agents)
	assert.Equal(t, []string{"b"}, r.Groups[1].Agents)
}

func TestConsecutiveUserAgentLinesShareAGroup(t *testing.T) {
	r := Parse("User-agent: a\nUser-agent: b\nDisallow: /shared\n")
	require.Len(t, r.Groups, 1)
	assert.ElementsMatch(t, []string{"a", "b"}, r.Groups[0].Agents)
}
