package feeds

import (
	"vndbrss/query"
	"vndbrss/vndb"
)

// FilterBuilder builds a feed's release filter out of filter strategies.
// All conditions are joined with "and" in the order the strategies were added.
type FilterBuilder struct {
	filters []query.FilterStrategy
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{
		filters: make([]query.FilterStrategy, 0),
	}
}

func (b *FilterBuilder) AddFilter(filter query.FilterStrategy) {
	b.filters = append(b.filters, filter)
}

func (b *FilterBuilder) Build() vndb.Filter {
	conditions := make([]vndb.Filter, 0, len(b.filters))
	for _, filter := range b.filters {
		conditions = filter.ApplyFilter(conditions)
	}
	return vndb.And(conditions...)
}

var _ query.Builder = (*FilterBuilder)(nil)
