package sites_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtlprog/ampserve/internal/domain"
	"github.com/mtlprog/ampserve/internal/sites"
)

const base = "https://example.org/"

type fixedPicker int

func (p fixedPicker) IntN(n int) int { return int(p) % n }

func TestParse_TrimsAndSkipsBlankLines(t *testing.T) {
	l := sites.Parse("  alpha \n\n\tbeta\r\n   \ngamma\nalpha\n", base)

	assert.Equal(t, []string{"alpha", "beta", "gamma"}, l.Names())
	assert.Equal(t, 3, l.Len())
}

func TestLookup_NormalisedKeys(t *testing.T) {
	l := sites.Parse("live chat\nSiakad\nperpustakaan", base)

	cases := map[string]string{
		"live-chat":     "live chat",
		"livechat":      "live chat",
		"LIVE-CHAT":     "live chat",
		"siakad":        "Siakad",
		"perpustakaan":  "perpustakaan",
		"perpus-takaan": "perpustakaan",
	}
	for segment, want := range cases {
		got, ok := l.Lookup(segment)
		require.True(t, ok, "segment %q", segment)
		assert.Equal(t, want, got, "segment %q", segment)
	}

	_, ok := l.Lookup("nonexistent-site")
	assert.False(t, ok)
	_, ok = l.Lookup("")
	assert.False(t, ok)
}

func TestLookup_FirstRegisteredWins(t *testing.T) {
	l := sites.Parse("live chat\nlive-chat\nlivechat", base)

	got, ok := l.Lookup("live-chat")
	require.True(t, ok)
	assert.Equal(t, "live chat", got)

	got, ok = l.Lookup("livechat")
	require.True(t, ok)
	assert.Equal(t, "live chat", got)
}

func TestResolve_PathMatch(t *testing.T) {
	l := sites.Parse("live chat", base)

	site, err := l.Resolve("live-chat", fixedPicker(0))
	require.NoError(t, err)

	assert.Equal(t, domain.Site{
		Name:         "live chat",
		Slug:         "live-chat",
		CanonicalURL: "https://example.org/live-chat",
	}, site)
}

func TestResolve_UnmatchedSegment(t *testing.T) {
	l := sites.Parse("portal\nsiakad\nperpustakaan", base)

	_, err := l.Resolve("nonexistent-site", fixedPicker(0))

	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestResolve_EmptySegmentPicksRandomly(t *testing.T) {
	l := sites.Parse("portal\nsiakad\nperpustakaan", base)

	for i, want := range []string{"portal", "siakad", "perpustakaan"} {
		site, err := l.Resolve("", fixedPicker(i))
		require.NoError(t, err)
		assert.Equal(t, want, site.Name)
	}
}

func TestResolve_EverySiteReachableWithSeededPicker(t *testing.T) {
	l := sites.Parse("portal\nsiakad\nperpustakaan", base)
	picker := sites.NewPicker(1, 2)

	seen := map[string]int{}
	for i := 0; i < 300; i++ {
		site, err := l.Resolve("", picker)
		require.NoError(t, err)
		seen[site.Name]++
	}

	assert.Len(t, seen, 3)
	for name, n := range seen {
		assert.Positive(t, n, name)
	}
}

func TestResolve_EmptyList(t *testing.T) {
	l := sites.Parse("\n \n", base)

	_, err := l.Resolve("", fixedPicker(0))
	assert.ErrorIs(t, err, domain.ErrEmptySiteList)

	_, err = l.Resolve("anything", fixedPicker(0))
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestCanonicalURL(t *testing.T) {
	assert.Equal(t, "https://example.org/a-b", sites.CanonicalURL("https://example.org", "a-b"))
	assert.Equal(t, "https://example.org/a-b", sites.CanonicalURL("https://example.org///", "a-b"))
	assert.Equal(t, "live-chat", sites.Slug("live chat"))
}

func TestFirstSegment(t *testing.T) {
	assert.Equal(t, "", sites.FirstSegment("/"))
	assert.Equal(t, "", sites.FirstSegment(""))
	assert.Equal(t, "siakad", sites.FirstSegment("/siakad"))
	assert.Equal(t, "siakad", sites.FirstSegment("/siakad/login"))
	assert.Equal(t, "siakad", sites.FirstSegment("//siakad/"))
}
