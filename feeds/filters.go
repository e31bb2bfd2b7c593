package feeds

import (
	"strings"

	"vndbrss/query"
	"vndbrss/vndb"

	"github.com/samber/lo"
)

// LanguageFilter filters releases by language
type LanguageFilter struct {
	Languages        []string
	ExcludeLanguages []string
}

func (f *LanguageFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	for _, lang := range f.ExcludeLanguages {
		conditions = append(conditions, vndb.Neq("lang", lang))
	}

	switch len(f.Languages) {
	case 0:
	case 1:
		conditions = append(conditions, vndb.Eq("lang", f.Languages[0]))
	default:
		conditions = append(conditions, vndb.Or(lo.Map(f.Languages, func(lang string, _ int) vndb.Filter {
			return vndb.Eq("lang", lang)
		})...))
	}
	return conditions
}

// OriginalLanguageFilter only keeps releases of visual novels originally written in Language
type OriginalLanguageFilter struct {
	Language string
}

func (f *OriginalLanguageFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	if f.Language == "" {
		return conditions
	}
	return append(conditions, vndb.VN(vndb.Eq("olang", f.Language)))
}

type FreewareFilter struct{}

func (f *FreewareFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	return append(conditions, vndb.Eq("freeware", 1))
}

// OfficialFilter keeps either official releases or unofficial ones (fan translations)
type OfficialFilter struct {
	Official bool
}

func (f *OfficialFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	if f.Official {
		return append(conditions, vndb.Eq("official", 1))
	}
	return append(conditions, vndb.Neq("official", 1))
}

// ReleasedFilter drops announced releases that are not out yet
type ReleasedFilter struct{}

func (f *ReleasedFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	return append(conditions, vndb.Pred("released", "<=", "today"))
}

// ListFilter turns a user supplied list into one predicate per value, joined
// by Logical ("and" or "or"). With OnVN the group applies to the linked
// visual novel instead of the release, which is needed for tags.
type ListFilter struct {
	Field   string
	Op      string
	Logical string
	Values  []string
	OnVN    bool
}

func (f *ListFilter) ApplyFilter(conditions []vndb.Filter) []vndb.Filter {
	values := cleanValues(f.Values)
	if len(values) == 0 {
		return conditions
	}

	predicates := lo.Map(values, func(value string, _ int) vndb.Filter {
		return vndb.Pred(f.Field, f.Op, value)
	})

	var group vndb.Filter
	if f.Logical == "and" {
		group = vndb.And(predicates...)
	} else {
		group = vndb.Or(predicates...)
	}

	if f.OnVN {
		group = vndb.VN(group)
	}
	return append(conditions, group)
}

// CustomFilters holds the deployment wide list filters, e.g. INCLUDE_MEDIA=in,dvd
type CustomFilters struct {
	IncludeMedia     []string // release medium must be one of these
	ExcludeTags      []string // VN must carry none of these tags, matched with dtag
	ExcludeVersions  []string // release type (rtype) must be none of these, official feeds only
	IncludePlatforms []string // release platform must be one of these
}

// SplitList splits a comma separated setting, trimming values and dropping empty ones
func SplitList(value string) []string {
	return cleanValues(strings.Split(value, ","))
}

func cleanValues(values []string) []string {
	return lo.Compact(lo.Map(values, func(value string, _ int) string {
		return strings.TrimSpace(value)
	}))
}

var _ query.FilterStrategy = (*LanguageFilter)(nil)
var _ query.FilterStrategy = (*OriginalLanguageFilter)(nil)
var _ query.FilterStrategy = (*FreewareFilter)(nil)
var _ query.FilterStrategy = (*OfficialFilter)(nil)
var _ query.FilterStrategy = (*ReleasedFilter)(nil)
var _ query.FilterStrategy = (*ListFilter)(nil)
