package query

import "vndbrss/vndb"

// Builder builds the release filter of a feed
type Builder interface {
	Build() vndb.Filter
}

// FilterStrategy contributes conditions to a release filter
type FilterStrategy interface {
	// ApplyFilter appends this strategy's conditions, if any, to conditions
	ApplyFilter(conditions []vndb.Filter) []vndb.Filter
}
