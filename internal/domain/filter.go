package domain

// CombineMode controls how a filter group combines its members.
type CombineMode string

const (
	CombineAnd CombineMode = "and"
	CombineOr  CombineMode = "or"
)

// Filterable field names understood by the query compiler.
const (
	FieldTitle     = "title"
	FieldDeveloper = "developer"
	FieldPublisher = "publisher"
	FieldSeries    = "series"
	FieldPlatform  = "platform"
	FieldLibrary   = "library"
	FieldPlayMode  = "playMode"
	FieldTag       = "tag"
)

// FieldMatch is a single field condition inside a filter group.
type FieldMatch struct {
	Field string // One of the Field* constants
	Value string // Value to match against
	Exact bool   // Whole-value match instead of substring
}

// Filter is a structured filter tree. The browse core treats it as opaque
// state on a view; only the query compiler interprets it.
type Filter struct {
	Mode       CombineMode
	Negate     bool // Blacklist: invert the whole group
	Matches    []FieldMatch
	Subfilters []*Filter
}

// Empty reports whether the filter constrains nothing.
func (f *Filter) Empty() bool {
	if f == nil {
		return true
	}
	if len(f.Matches) > 0 {
		return false
	}
	for _, sub := range f.Subfilters {
		if !sub.Empty() {
			return false
		}
	}
	return true
}

// Clone deep-copies the filter tree. Views must not share filter nodes.
func (f *Filter) Clone() *Filter {
	if f == nil {
		return nil
	}
	dup := &Filter{
		Mode:    f.Mode,
		Negate:  f.Negate,
		Matches: append([]FieldMatch(nil), f.Matches...),
	}
	for _, sub := range f.Subfilters {
		dup.Subfilters = append(dup.Subfilters, sub.Clone())
	}
	return dup
}
