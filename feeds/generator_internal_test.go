package feeds

import (
	"context"
	"sync"
	"testing"
	"time"

	"vndbrss/vndb"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// heldSource answers only after release is closed
type heldSource struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (s *heldSource) Releases(ctx context.Context, query *vndb.ReleaseQuery) (*vndb.ReleaseResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	<-s.release
	return &vndb.ReleaseResponse{Results: []vndb.Release{{ID: "r1", Title: "One", Released: "2026-10-01"}}}, nil
}

func (s *heldSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestGenerateCoalescesConcurrentMisses(t *testing.T) {
	const readers = 10

	source := &heldSource{release: make(chan struct{})}
	gen := NewGenerator(source, GeneratorConfig{})
	feed := &Feed{Id: "coalesce", Title: "Coalesce"}

	misses := cacheLookups.WithLabelValues(feed.Id, "miss")
	before := testutil.ToFloat64(misses)

	var wg sync.WaitGroup
	results := make([]string, readers)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			xml, err := gen.Generate(context.Background(), feed)
			assert.NoError(t, err)
			results[i] = xml
		}(i)
	}

	// Every reader has missed the cache while the first upstream call is held
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(misses)-before == readers
	}, 5*time.Second, time.Millisecond)

	close(source.release)
	wg.Wait()

	assert.Equal(t, 1, source.Calls())
	for _, xml := range results {
		assert.Equal(t, results[0], xml)
	}
}
