package feeds_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"vndbrss/feeds"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

func newGenerator(source *fakeSource, clk *clock) *feeds.Generator {
	return feeds.NewGenerator(source, feeds.GeneratorConfig{
		Results:  20,
		CacheTTL: 5 * time.Minute,
		Language: "zh",
		BaseURL:  "https://rss.example.org",
		Images:   feeds.ImageConfig{Display: true},
		Now:      clk.Now,
	})
}

func offiEn(t *testing.T) *feeds.Feed {
	t.Helper()
	feed, ok := defaultFeeds(t, feeds.CustomFilters{}).Get("offi-en")
	require.True(t, ok)
	return feed
}

func TestGenerateRendersRSS(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	gen := newGenerator(source, newClock())
	feed := offiEn(t)

	xml, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(xml)
	require.NoError(t, err)

	assert.Equal(t, "Official TL", parsed.Title)
	assert.Equal(t, "Official English visual novels", parsed.Description)
	assert.Equal(t, "https://vndb.org", parsed.Link)
	assert.Equal(t, "zh", parsed.Language)
	assert.Equal(t, "https://rss.example.org/offi-en", parsed.FeedLink)
	assert.Contains(t, xml, `xmlns:atom="http://www.w3.org/2005/Atom"`)
	assert.Contains(t, xml, `<atom:link href="https://rss.example.org/offi-en" rel="self" type="application/rss+xml"></atom:link>`)

	require.Len(t, parsed.Items, 2)
	first := parsed.Items[0]
	assert.Equal(t, "Hoshi no Uta", first.Title, "official english feed uses the main title")
	assert.Equal(t, "https://vndb.org/r101", first.Link)
	assert.Equal(t, "https://vndb.org/r101", first.GUID)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Equal(*first.PublishedParsed))
	assert.Contains(t, first.Description, "[Official TL]")

	second := parsed.Items[1]
	assert.Equal(t, "Kaze no Michi", second.Title)
	require.NotNil(t, second.PublishedParsed)
	assert.True(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC).Equal(*second.PublishedParsed))

	require.Equal(t, 1, source.Calls())
	query := source.queries[0]
	assert.Equal(t, 20, query.Results)
	assert.Equal(t, "released", query.Sort)
	assert.True(t, query.Reverse)
	assert.Equal(t, feed.Filter, query.Filters)
}

func TestGenerateServesFromCache(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	clk := newClock()
	gen := newGenerator(source, clk)
	feed := offiEn(t)

	first, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)

	clk.Advance(4 * time.Minute)
	second, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.Calls(), "fresh cache must not hit the api")
}

func TestGenerateRefetchesAfterExpiry(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	clk := newClock()
	gen := newGenerator(source, clk)
	feed := offiEn(t)

	_, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)

	source.Serve(sampleReleases()[:1])
	clk.Advance(5 * time.Minute)

	xml, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)
	assert.Equal(t, 2, source.Calls())

	parsed, err := gofeed.NewParser().ParseString(xml)
	require.NoError(t, err)
	assert.Len(t, parsed.Items, 1)
}

func TestGenerateFallsBackToStaleCache(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	clk := newClock()
	gen := newGenerator(source, clk)
	feed := offiEn(t)

	original, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)

	source.Fail(errUpstream)
	clk.Advance(time.Hour)

	stale, err := gen.Generate(context.Background(), feed)
	require.NoError(t, err)
	assert.Equal(t, original, stale)
	assert.Equal(t, 2, source.Calls(), "expired entry still triggers a refresh attempt")
}

func TestGenerateErrorWithoutCache(t *testing.T) {
	source := &fakeSource{err: errUpstream}
	gen := newGenerator(source, newClock())

	_, err := gen.Generate(context.Background(), offiEn(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, errUpstream)
}

func TestGenerateKeepsFeedsApart(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	gen := newGenerator(source, newClock())
	list := defaultFeeds(t, feeds.CustomFilters{})

	for _, feed := range list {
		_, err := gen.Generate(context.Background(), feed)
		require.NoError(t, err)
	}

	assert.Equal(t, len(list), source.Calls())
	assert.Equal(t, len(list), gen.Cache().Len())
}

func TestGenerateSurvivesCancelledCaller(t *testing.T) {
	source := &fakeSource{releases: sampleReleases()}
	gen := newGenerator(source, newClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Generate(ctx, offiEn(t))
	assert.NoError(t, err)
}

func TestResultsAreClamped(t *testing.T) {
	tests := []struct {
		name     string
		results  int
		expected int
	}{
		{name: "zero uses default", results: 0, expected: 20},
		{name: "negative uses default", results: -5, expected: 20},
		{name: "above api limit is clamped", results: 500, expected: 100},
		{name: "just above api limit is clamped", results: 101, expected: 100},
		{name: "within range", results: 50, expected: 50},
		{name: "api limit", results: 100, expected: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{}
			gen := feeds.NewGenerator(source, feeds.GeneratorConfig{Results: tt.results})

			_, err := gen.Generate(context.Background(), offiEn(t))
			require.NoError(t, err)
			require.Equal(t, 1, source.Calls())
			assert.Equal(t, tt.expected, source.queries[0].Results)
		})
	}
}

func TestRenderEmptyFeed(t *testing.T) {
	gen := newGenerator(&fakeSource{}, newClock())

	xml, err := gen.Render(offiEn(t), nil)
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().ParseString(xml)
	require.NoError(t, err)
	assert.Equal(t, "Official TL", parsed.Title)
	assert.Empty(t, parsed.Items)
}

func TestRenderWithoutBaseURLOmitsSelfLink(t *testing.T) {
	gen := feeds.NewGenerator(&fakeSource{}, feeds.GeneratorConfig{})

	xml, err := gen.Render(offiEn(t), nil)
	require.NoError(t, err)
	assert.NotContains(t, xml, "<atom:link")

	parsed, err := gofeed.NewParser().ParseString(xml)
	require.NoError(t, err)
	assert.Empty(t, parsed.FeedLink)
}
