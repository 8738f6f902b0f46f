package browse

import (
	"github.com/pgeary/marquee/internal/domain"
)

// View is one independently configured browsing context: its query inputs,
// its selection and scroll state, and the results cache those inputs produced.
// Views are identified by key and owned exclusively by a State.
type View struct {
	Key string

	// Query inputs. Text is the free-text search box, Filter the structured
	// filter tree. Together with the ordering they define what the view shows.
	Text           string
	Filter         *domain.Filter
	OrderBy        domain.OrderBy
	OrderDirection domain.OrderDirection

	// SearchID is the latest search generation issued for this view. Compile
	// results and fetch responses carrying an older generation are discarded.
	SearchID int64

	// Query is the active compiled query, replaced atomically when a fresh
	// compile for the current generation lands. Nil until the first search.
	Query *domain.CompiledQuery

	// Dirty is set when the query inputs changed and the cache has not yet
	// merged a response for the new generation.
	Dirty bool

	SelectedGameID string
	ExpandedGameID string

	// SelectedPlaylist is the playlist this view is browsing, or nil when the
	// view shows the full catalog. PlaylistDirty is set while an optimistic
	// reorder awaits persistence confirmation.
	SelectedPlaylist *domain.Playlist
	PlaylistDirty    bool

	// Scroll positions are opaque UI hints. They are stored and cleared but
	// never validated against the result set.
	GridScrollTop int
	ListScrollRow int

	Cache *ResultsCache
}

// StoredView is the persistable slice of a view's configuration: the query
// inputs that survive a restart. Caches, selections and generation counters
// are never stored.
type StoredView struct {
	Text           string                `json:"text"`
	Filter         *domain.Filter        `json:"filter,omitempty"`
	OrderBy        domain.OrderBy        `json:"orderBy"`
	OrderDirection domain.OrderDirection `json:"orderDirection"`
}

func newView(key string) *View {
	return &View{
		Key:            key,
		OrderBy:        domain.OrderByTitle,
		OrderDirection: domain.OrderAscending,
		Cache:          newResultsCache(),
	}
}

// applyStored restores persisted configuration onto the view. Invalid order
// values are ignored so a stale or hand-edited snapshot cannot wedge the view.
func (v *View) applyStored(sv StoredView) {
	v.Text = sv.Text
	if sv.Filter != nil {
		v.Filter = sv.Filter.Clone()
	} else {
		v.Filter = nil
	}
	if sv.OrderBy.Valid() {
		v.OrderBy = sv.OrderBy
	}
	if sv.OrderDirection.Valid() {
		v.OrderDirection = sv.OrderDirection
	}
}

// stored extracts the persistable configuration of the view.
func (v *View) stored() StoredView {
	sv := StoredView{
		Text:           v.Text,
		OrderBy:        v.OrderBy,
		OrderDirection: v.OrderDirection,
	}
	if v.Filter != nil {
		sv.Filter = v.Filter.Clone()
	}
	return sv
}

// clone produces an independent copy under a new key. Query inputs, selection
// and scroll state carry over; the cache, the compiled query and the search
// generation start fresh so the copy fetches its own results.
func (v *View) clone(key string) *View {
	dst := newView(key)
	dst.Text = v.Text
	if v.Filter != nil {
		dst.Filter = v.Filter.Clone()
	}
	dst.OrderBy = v.OrderBy
	dst.OrderDirection = v.OrderDirection
	dst.SelectedGameID = v.SelectedGameID
	dst.ExpandedGameID = v.ExpandedGameID
	if v.SelectedPlaylist != nil {
		dst.SelectedPlaylist = v.SelectedPlaylist.Clone()
	}
	dst.GridScrollTop = v.GridScrollTop
	dst.ListScrollRow = v.ListScrollRow
	dst.Dirty = true
	return dst
}
