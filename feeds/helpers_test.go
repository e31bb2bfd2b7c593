package feeds_test

import (
	"context"
	"sync"
	"time"

	"vndbrss/vndb"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSource records queries and answers with canned releases or an error
type fakeSource struct {
	mu       sync.Mutex
	releases []vndb.Release
	err      error
	queries  []*vndb.ReleaseQuery
}

func (s *fakeSource) Releases(ctx context.Context, query *vndb.ReleaseQuery) (*vndb.ReleaseResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return &vndb.ReleaseResponse{Results: s.releases}, nil
}

func (s *fakeSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func (s *fakeSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *fakeSource) Serve(releases []vndb.Release) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
	s.releases = releases
}

func sampleReleases() []vndb.Release {
	notes := "Translation patch [b]v1.0[/b]\nSee v17"
	return []vndb.Release{
		{
			ID:        "r101",
			Title:     "Hoshi no Uta",
			AltTitle:  "星之歌",
			Released:  "2026-10-01",
			ExtLinks:  []vndb.ExtLink{{URL: "https://patch.example/hoshi", Label: "Patch"}},
			Platforms: []string{"win"},
			Notes:     &notes,
			Images: []vndb.Image{
				{URL: "https://t.vndb.org/sf/01/101.jpg", Sexual: 0, Violence: 0, VoteCount: 5},
				{URL: "https://t.vndb.org/sf/02/102.jpg", Sexual: 2, Violence: 0, VoteCount: 5},
			},
		},
		{
			ID:       "r102",
			Title:    "Kaze no Michi",
			Released: "2026-09",
		},
	}
}
