package browse

import (
	"github.com/pgeary/marquee/internal/domain"
)

// requestRange makes every record in [start, start+count) available,
// emitting a fetch for each covering page that is still Waiting and whose
// cursor dependency is satisfied. Marking pages Requested here, before any
// effect runs, is what keeps a page from ever being fetched twice no matter
// how often the range is requested.
//
// Page zero needs no cursor. Page p > 0 needs Keyset[p-1]; until the keyset
// response lands those pages simply stay Waiting and a later requestRange
// picks them up.
func (s *State) requestRange(v *View, start, count int, searchID int64) []Effect {
	c := v.Cache
	if searchID != c.SearchID {
		return nil
	}
	if v.Query == nil || count <= 0 {
		return nil
	}
	if start < 0 {
		start = 0
	}

	firstPage := start / s.pageSize
	lastPage := (start + count - 1) / s.pageSize

	var effects []Effect
	for page := firstPage; page <= lastPage; page++ {
		if c.Pages[page] != Waiting {
			continue
		}
		var cursor domain.Cursor
		if page > 0 {
			if page-1 >= len(c.Keyset) {
				continue
			}
			cursor = c.Keyset[page-1]
		}
		c.Pages[page] = Requested
		effects = append(effects, FetchPageEffect{
			View:     v.Key,
			SearchID: c.SearchID,
			Page:     page,
			Cursor:   cursor,
			Query:    v.Query,
		})
	}
	return effects
}
