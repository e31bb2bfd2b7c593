package vndb

// Filter is a VNDB filter expression. It encodes to the nested JSON arrays
// the API expects, e.g. ["and", ["lang", "=", "en"], ["official", "=", 1]].
type Filter []interface{}

// Pred builds a single predicate such as ["lang", "=", "en"].
func Pred(name, op string, value interface{}) Filter {
	return Filter{name, op, value}
}

func Eq(name string, value interface{}) Filter {
	return Pred(name, "=", value)
}

func Neq(name string, value interface{}) Filter {
	return Pred(name, "!=", value)
}

// And combines filters so that all of them must match.
func And(filters ...Filter) Filter {
	return combine("and", filters)
}

// Or combines filters so that any of them may match.
func Or(filters ...Filter) Filter {
	return combine("or", filters)
}

// VN applies a visual novel filter to the release's linked visual novels.
func VN(filter Filter) Filter {
	return Filter{"vn", "=", filter}
}

func combine(op string, filters []Filter) Filter {
	f := make(Filter, 0, len(filters)+1)
	f = append(f, op)
	for _, sub := range filters {
		f = append(f, sub)
	}
	return f
}
