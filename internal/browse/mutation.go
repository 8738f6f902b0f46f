package browse

import (
	"github.com/pgeary/marquee/internal/domain"
)

// Mutation is one state transition request. The set of mutations is closed:
// every variant lives in this package and Apply handles each one explicitly,
// so a new variant without a handler is caught at review rather than silently
// ignored at runtime. Mutations targeting a view that does not exist are
// absorbed as no-ops.
type Mutation interface {
	mutation()
}

// CreateViews ensures a view exists for every key, optionally restoring
// persisted configuration. Existing views keep their identity and caches.
type CreateViews struct {
	Keys   []string
	Stored map[string]StoredView
}

// ReplaceViews rebuilds the registry around the given keys, dropping every
// view not named. The general view always survives.
type ReplaceViews struct {
	Keys   []string
	Stored map[string]StoredView
}

// RenameView changes a view's key atomically, keeping cache and counters.
type RenameView struct {
	OldKey string
	NewKey string
}

// DuplicateView copies a view's configuration under a new key with a fresh
// cache and a fresh search generation.
type DuplicateView struct {
	SrcKey string
	DstKey string
}

// DeleteView removes a view. Deleting the general view is a no-op; deleting
// the last remaining non-general view recreates an empty default under the
// same key.
type DeleteView struct {
	Key string
}

// SetText updates a view's free-text query input.
type SetText struct {
	View string
	Text string
}

// SetOrderBy updates the field results are ordered by.
type SetOrderBy struct {
	View    string
	OrderBy domain.OrderBy
}

// SetOrderReverse updates the order direction.
type SetOrderReverse struct {
	View      string
	Direction domain.OrderDirection
}

// SetAdvancedFilter replaces a view's structured filter tree. A nil filter
// clears it.
type SetAdvancedFilter struct {
	View   string
	Filter *domain.Filter
}

// SetSearchID records the latest search generation issued for a view. The
// generation only ever moves forward.
type SetSearchID struct {
	View     string
	SearchID int64
}

// SetFilter installs a freshly compiled query and launches its fetch cycle:
// the cache resets to the new generation and the keyset and first page are
// requested together. Compiles stamped with a superseded generation are
// dropped.
type SetFilter struct {
	View     string
	SearchID int64
	Query    *domain.CompiledQuery
}

// RequestRange asks that every record in [Start, Start+Count) become
// available, fetching whichever pages are still waiting and unlocked by the
// keyset. Requests stamped with a stale generation are dropped.
type RequestRange struct {
	View     string
	Start    int
	Count    int
	SearchID int64
}

// AddData merges a query source response into a view's cache.
type AddData struct {
	View     string
	Response Response
}

// MoveGame reorders the view's selected playlist, placing the source game
// directly after the destination game, and patches the cached records to
// match when both endpoints are materialized.
type MoveGame struct {
	View         string
	SourceGameID string
	DestGameID   string
}

// SetExpanded records which game's detail pane is open. Empty collapses.
type SetExpanded struct {
	View   string
	GameID string
}

// SetSelectedGame records the view's selected game. Empty clears.
type SetSelectedGame struct {
	View   string
	GameID string
}

// SetSelectedPlaylist binds a playlist to the view, or nil for the full
// catalog. The caller launches a new search afterwards; selecting a playlist
// does not itself touch the cache.
type SetSelectedPlaylist struct {
	View     string
	Playlist *domain.Playlist
}

// SetGridScroll stores an opaque grid scroll hint.
type SetGridScroll struct {
	View string
	Top  int
}

// SetListScroll stores an opaque list scroll hint.
type SetListScroll struct {
	View string
	Row  int
}

// PersistConfirmed clears the playlist-dirty flag after a successful
// write-through of an optimistic reorder.
type PersistConfirmed struct {
	View string
}

func (CreateViews) mutation()         {}
func (ReplaceViews) mutation()        {}
func (RenameView) mutation()          {}
func (DuplicateView) mutation()       {}
func (DeleteView) mutation()          {}
func (SetText) mutation()             {}
func (SetOrderBy) mutation()          {}
func (SetOrderReverse) mutation()     {}
func (SetAdvancedFilter) mutation()   {}
func (SetSearchID) mutation()         {}
func (SetFilter) mutation()           {}
func (RequestRange) mutation()        {}
func (AddData) mutation()             {}
func (MoveGame) mutation()            {}
func (SetExpanded) mutation()         {}
func (SetSelectedGame) mutation()     {}
func (SetSelectedPlaylist) mutation() {}
func (SetGridScroll) mutation()       {}
func (SetListScroll) mutation()       {}
func (PersistConfirmed) mutation()    {}

// Effect is asynchronous work a mutation asks its caller to run. Effects
// carry everything the runner needs so it never reads State concurrently.
type Effect interface {
	effect()
}

// FetchKeysetEffect asks the runner to fetch the keyset and total for a
// freshly compiled query.
type FetchKeysetEffect struct {
	View     string
	SearchID int64
	Query    *domain.CompiledQuery
}

// FetchPageEffect asks the runner to fetch one page of records. Page zero
// carries an empty cursor.
type FetchPageEffect struct {
	View     string
	SearchID int64
	Page     int
	Cursor   domain.Cursor
	Query    *domain.CompiledQuery
}

// PersistPlaylistEffect asks the runner to write a reordered playlist
// through to storage. The playlist is a snapshot, safe to read off-thread.
type PersistPlaylistEffect struct {
	View     string
	Playlist *domain.Playlist
}

func (FetchKeysetEffect) effect()     {}
func (FetchPageEffect) effect()       {}
func (PersistPlaylistEffect) effect() {}

// Apply executes one mutation against the state and returns the effects the
// caller must run. It is the only write path; every branch either mutates
// owned state or deliberately drops the request.
func (s *State) Apply(m Mutation) []Effect {
	switch m := m.(type) {
	case CreateViews:
		s.createViews(m.Keys, m.Stored)
	case ReplaceViews:
		s.replaceViews(m.Keys, m.Stored)
	case RenameView:
		s.renameView(m.OldKey, m.NewKey)
	case DuplicateView:
		s.duplicateView(m.SrcKey, m.DstKey)
	case DeleteView:
		s.deleteView(m.Key)
	case SetText:
		if v, ok := s.views[m.View]; ok {
			v.Text = m.Text
		}
	case SetOrderBy:
		if v, ok := s.views[m.View]; ok && m.OrderBy.Valid() {
			v.OrderBy = m.OrderBy
		}
	case SetOrderReverse:
		if v, ok := s.views[m.View]; ok && m.Direction.Valid() {
			v.OrderDirection = m.Direction
		}
	case SetAdvancedFilter:
		if v, ok := s.views[m.View]; ok {
			v.Filter = m.Filter
		}
	case SetSearchID:
		if v, ok := s.views[m.View]; ok && m.SearchID > v.SearchID {
			v.SearchID = m.SearchID
		}
	case SetFilter:
		if v, ok := s.views[m.View]; ok {
			return s.setFilter(v, m.SearchID, m.Query)
		}
	case RequestRange:
		if v, ok := s.views[m.View]; ok {
			return s.requestRange(v, m.Start, m.Count, m.SearchID)
		}
	case AddData:
		if v, ok := s.views[m.View]; ok {
			s.mergeResponse(v, m.Response)
		}
	case MoveGame:
		if v, ok := s.views[m.View]; ok {
			return s.moveGame(v, m.SourceGameID, m.DestGameID)
		}
	case SetExpanded:
		if v, ok := s.views[m.View]; ok {
			v.ExpandedGameID = m.GameID
		}
	case SetSelectedGame:
		if v, ok := s.views[m.View]; ok {
			v.SelectedGameID = m.GameID
		}
	case SetSelectedPlaylist:
		if v, ok := s.views[m.View]; ok {
			v.SelectedPlaylist = m.Playlist
			v.PlaylistDirty = false
		}
	case SetGridScroll:
		if v, ok := s.views[m.View]; ok {
			v.GridScrollTop = m.Top
		}
	case SetListScroll:
		if v, ok := s.views[m.View]; ok {
			v.ListScrollRow = m.Row
		}
	case PersistConfirmed:
		if v, ok := s.views[m.View]; ok {
			v.PlaylistDirty = false
		}
	}
	return nil
}

// setFilter installs a compiled query and kicks off its fetch cycle. The
// keyset and the first page are requested together, so page zero is marked
// Requested before any response can arrive.
func (s *State) setFilter(v *View, searchID int64, query *domain.CompiledQuery) []Effect {
	if searchID < v.SearchID {
		// A newer search was issued while this compile was in flight.
		return nil
	}
	if searchID > v.SearchID {
		v.SearchID = searchID
	}
	v.Query = query
	v.Dirty = true

	c := v.Cache
	c.resetFor(searchID)
	c.Pages[0] = Requested
	c.Status = Requested

	return []Effect{
		FetchKeysetEffect{View: v.Key, SearchID: searchID, Query: query},
		FetchPageEffect{View: v.Key, SearchID: searchID, Page: 0, Query: query},
	}
}
