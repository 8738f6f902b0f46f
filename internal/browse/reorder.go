package browse

import (
	"github.com/pgeary/marquee/internal/domain"
)

// moveGame reorders the view's selected playlist optimistically: the source
// game is placed directly after the destination game, the cached records are
// renumbered to match, and a persist effect carries a snapshot to storage.
// The cache patch and the playlist edit happen before any write completes;
// confirmation only clears the dirty flag. There is no rollback path.
//
// Nothing changes unless both games are in the playlist: a failed lookup
// returns no effect and leaves every structure untouched.
func (s *State) moveGame(v *View, sourceID, destID string) []Effect {
	p := v.SelectedPlaylist
	if p == nil || sourceID == destID {
		return nil
	}
	srcIdx := p.IndexOf(sourceID)
	if srcIdx < 0 {
		return nil
	}
	if p.IndexOf(destID) < 0 {
		return nil
	}

	entry := p.Games[srcIdx]
	rest := make([]domain.PlaylistGame, 0, len(p.Games)-1)
	rest = append(rest, p.Games[:srcIdx]...)
	rest = append(rest, p.Games[srcIdx+1:]...)

	insertAt := 0
	for i, pg := range rest {
		if pg.GameID == destID {
			insertAt = i + 1
			break
		}
	}
	games := make([]domain.PlaylistGame, 0, len(p.Games))
	games = append(games, rest[:insertAt]...)
	games = append(games, entry)
	games = append(games, rest[insertAt:]...)
	p.Games = games

	s.patchRecords(v, sourceID, destID)
	v.PlaylistDirty = true

	return []Effect{PersistPlaylistEffect{View: v.Key, Playlist: p.Clone()}}
}

// patchRecords renumbers the cached records so the display matches the new
// playlist order without a refetch. When either endpoint is not materialized
// the patch is skipped and the view is marked dirty instead; the playlist
// itself already holds the new order.
func (s *State) patchRecords(v *View, sourceID, destID string) {
	c := v.Cache
	srcOff, okSrc := c.offsetOf(sourceID)
	dstOff, okDst := c.offsetOf(destID)
	if !okSrc || !okDst || srcOff == dstOff {
		if !okSrc || !okDst {
			v.Dirty = true
		}
		return
	}

	moved := c.Records[srcOff]
	if srcOff < dstOff {
		// Everything between the two slides one slot toward the front.
		for off := srcOff + 1; off <= dstOff; off++ {
			if g, ok := c.Records[off]; ok {
				c.Records[off-1] = g
			} else {
				delete(c.Records, off-1)
			}
		}
		c.Records[dstOff] = moved
	} else {
		// Everything after the destination slides one slot toward the back.
		for off := srcOff - 1; off > dstOff; off-- {
			if g, ok := c.Records[off]; ok {
				c.Records[off+1] = g
			} else {
				delete(c.Records, off+1)
			}
		}
		c.Records[dstOff+1] = moved
	}
}
