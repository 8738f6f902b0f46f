package browse

import (
	"sort"
)

// DefaultPageSize is the number of records per fetched page.
const DefaultPageSize = 60

// DefaultGeneralKey names the distinguished view that always exists.
const DefaultGeneralKey = "general"

// State owns every view and the counters behind them. It is a plain value
// with no locking of its own: all writes go through Apply on a single
// goroutine (or under an external lock), and reads happen on the same terms.
// Apply returns the side effects the caller must run; State itself never
// touches the network or the disk.
type State struct {
	pageSize   int
	generalKey string
	views      map[string]*View
	seq        *Sequencer
}

// NewState builds a registry containing only the general view. A pageSize
// of zero or less selects DefaultPageSize; an empty generalKey selects
// DefaultGeneralKey.
func NewState(generalKey string, pageSize int) *State {
	if generalKey == "" {
		generalKey = DefaultGeneralKey
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	s := &State{
		pageSize:   pageSize,
		generalKey: generalKey,
		views:      make(map[string]*View),
		seq:        newSequencer(),
	}
	s.views[generalKey] = newView(generalKey)
	return s
}

// PageSize returns the fixed records-per-page for this registry.
func (s *State) PageSize() int {
	return s.pageSize
}

// GeneralKey returns the key of the indestructible general view.
func (s *State) GeneralKey() string {
	return s.generalKey
}

// View looks up a view by key.
func (s *State) View(key string) (*View, bool) {
	v, ok := s.views[key]
	return v, ok
}

// General returns the distinguished general view.
func (s *State) General() *View {
	return s.views[s.generalKey]
}

// ViewKeys returns every view key in sorted order.
func (s *State) ViewKeys() []string {
	keys := make([]string, 0, len(s.views))
	for k := range s.views {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NextSearchID issues a fresh search generation for the view. The caller
// records the intent with a SetSearchID mutation and stamps the generation
// onto the compile it launches.
func (s *State) NextSearchID(viewKey string) int64 {
	return s.seq.Next(viewKey)
}

// StoredViews extracts the persistable configuration of every view, keyed by
// view key.
func (s *State) StoredViews() map[string]StoredView {
	out := make(map[string]StoredView, len(s.views))
	for k, v := range s.views {
		out[k] = v.stored()
	}
	return out
}
