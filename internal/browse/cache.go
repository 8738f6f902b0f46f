package browse

import (
	"github.com/pgeary/marquee/internal/domain"
)

// ResultsCache holds one view's fetched results, sparsely indexed by absolute
// result offset. Records arrive page by page and out of order; the cache never
// requires contiguity. A cache belongs to exactly one search generation and is
// replaced wholesale when a newer generation produces data.
type ResultsCache struct {
	// SearchID is the generation this cache's contents belong to.
	SearchID int64

	// Records maps absolute result offset to the game at that position.
	// Offset = pageSize*page + indexInPage. Unfetched ranges are simply absent.
	Records map[int]domain.Game

	// Pages maps page index to its fetch state. Absent pages are Waiting.
	Pages map[int]RequestState

	// Keyset holds the pagination cursors: Keyset[i] unlocks page i+1. Page 0
	// needs no cursor. The keyset is replaced wholesale, never patched.
	Keyset []domain.Cursor

	// Total is the full result count when known, nil before the count query
	// resolves. Rendering total-dependent chrome waits on it.
	Total *int

	// Status is the overall fetch status of the active search. It reaches
	// Received when the first data response for the generation merges.
	Status RequestState
}

func newResultsCache() *ResultsCache {
	return &ResultsCache{
		Records: make(map[int]domain.Game),
		Pages:   make(map[int]RequestState),
	}
}

// resetFor discards every cached result and rebinds the cache to a new search
// generation. The old generation's responses can no longer touch it.
func (c *ResultsCache) resetFor(searchID int64) {
	c.SearchID = searchID
	c.Records = make(map[int]domain.Game)
	c.Pages = make(map[int]RequestState)
	c.Keyset = nil
	c.Total = nil
	c.Status = Waiting
}

// PageState reports the fetch state of a page. Unknown pages are Waiting.
func (c *ResultsCache) PageState(page int) RequestState {
	return c.Pages[page]
}

// Record returns the game at an absolute result offset, if fetched.
func (c *ResultsCache) Record(offset int) (domain.Game, bool) {
	g, ok := c.Records[offset]
	return g, ok
}

// TotalKnown returns the result count and whether it has resolved yet.
func (c *ResultsCache) TotalKnown() (int, bool) {
	if c.Total == nil {
		return 0, false
	}
	return *c.Total, true
}

// offsetOf scans the cached records for a game and returns its offset.
func (c *ResultsCache) offsetOf(gameID string) (int, bool) {
	for off, g := range c.Records {
		if g.ID == gameID {
			return off, true
		}
	}
	return 0, false
}

// PageData carries the records of one fetched page.
type PageData struct {
	Page  int
	Games []domain.Game
}

// Response is one asynchronous answer from the query source: a keyset, a
// total, page records, page state updates, or any combination. Every response
// is stamped with the search generation it was produced for, and merging is
// idempotent so a duplicated delivery changes nothing.
type Response struct {
	SearchID int64

	// Keyset, when non-nil, replaces the cache's keyset wholesale.
	Keyset []domain.Cursor

	// Total, when non-nil, updates the result count.
	Total *int

	// Pages carries partial page state updates to merge in.
	Pages map[int]RequestState

	// Data carries the records of one page.
	Data *PageData
}

// mergeResponse folds a query source response into the view's cache.
//
// Responses for an older generation than the cache holds are dropped whole.
// Responses for a newer generation reset the cache first, so the first answer
// of a fresh search flushes the previous results. Within a generation the
// merge is pure accumulation.
func (s *State) mergeResponse(v *View, r Response) {
	c := v.Cache
	if r.SearchID < c.SearchID {
		return
	}
	if r.SearchID > c.SearchID {
		c.resetFor(r.SearchID)
	}

	if r.Total != nil {
		total := *r.Total
		c.Total = &total
		// A fresh total invalidates any remembered scroll position.
		v.GridScrollTop = 0
		v.ListScrollRow = 0
	}

	if r.Keyset != nil {
		c.Keyset = append([]domain.Cursor(nil), r.Keyset...)
		c.Pages = make(map[int]RequestState, len(c.Keyset)+1)
		for page := 1; page <= len(c.Keyset); page++ {
			c.Pages[page] = Waiting
		}
		// Page 0 was fetched alongside the keyset query and needs no cursor.
		c.Pages[0] = Received
	}

	for page, st := range r.Pages {
		c.Pages[page] = st
	}

	if r.Data != nil {
		if r.Data.Page == 0 && len(r.Data.Games) == 0 {
			// An empty first page means an empty result set, whether or not
			// the count query has resolved yet.
			total := 0
			c.Total = &total
		} else {
			base := s.pageSize * r.Data.Page
			for i, g := range r.Data.Games {
				c.Records[base+i] = g
			}
			c.Pages[r.Data.Page] = Received
		}
		c.Status = Received
	}

	if r.Keyset != nil || r.Total != nil || r.Data != nil {
		v.Dirty = false
	}
}
