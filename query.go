package schemadex

import "strings"

// Mode is the matching strategy selected by a query prefix.
type Mode int

// Query modes.
const (
	ModeAll Mode = iota
	ModeClass
	ModeOffset
	ModeEnum
)

// String returns the prefix keyword of the mode, or "all".
func (m Mode) String() string {
	switch m {
	case ModeClass:
		return "class"
	case ModeOffset:
		return "offset"
	case ModeEnum:
		return "enum"
	}
	return "all"
}

// Query is a normalized search request.
type Query struct {
	Mode Mode
	Term string // lower-case, trimmed
}

// queryPrefixes are checked in order; the first match selects the mode.
var queryPrefixes = []struct {
	prefix string
	mode   Mode
}{
	{"class:", ModeClass},
	{"offset:", ModeOffset},
	{"enum:", ModeEnum},
}

// ParseQuery trims and lower-cases raw, then strips a recognized mode prefix.
// Anything without a known prefix, including the empty string, is ModeAll.
func ParseQuery(raw string) Query {
	q := strings.ToLower(strings.TrimSpace(raw))
	for _, p := range queryPrefixes {
		if rest, ok := strings.CutPrefix(q, p.prefix); ok {
			return Query{Mode: p.mode, Term: strings.TrimSpace(rest)}
		}
	}
	return Query{Mode: ModeAll, Term: q}
}

// Key returns the cache key of the query.
func (q Query) Key() string {
	return q.Mode.String() + ":" + q.Term
}
