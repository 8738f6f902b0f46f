package service

import (
	"context"

	"github.com/pgeary/marquee/internal/browse"
	"github.com/pgeary/marquee/internal/domain"
)

// ViewSnapshot is a read-only copy of one view's display state, safe to hold
// while the engine keeps mutating.
type ViewSnapshot struct {
	Key            string
	Text           string
	OrderBy        domain.OrderBy
	OrderDirection domain.OrderDirection
	SearchID       int64
	Status         browse.RequestState
	Total          int
	TotalKnown     bool
	PlaylistID     string
	PlaylistDirty  bool
	GridScrollTop  int
	ListScrollRow  int
}

// ViewKeys returns every view key in sorted order.
func (b *Browser) ViewKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.ViewKeys()
}

// Snapshot copies a view's display state. The second return is false when the
// view does not exist.
func (b *Browser) Snapshot(viewKey string) (ViewSnapshot, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.state.View(viewKey)
	if !ok {
		return ViewSnapshot{}, false
	}
	snap := ViewSnapshot{
		Key:            v.Key,
		Text:           v.Text,
		OrderBy:        v.OrderBy,
		OrderDirection: v.OrderDirection,
		SearchID:       v.SearchID,
		Status:         v.Cache.Status,
		PlaylistDirty:  v.PlaylistDirty,
		GridScrollTop:  v.GridScrollTop,
		ListScrollRow:  v.ListScrollRow,
	}
	snap.Total, snap.TotalKnown = v.Cache.TotalKnown()
	if v.SelectedPlaylist != nil {
		snap.PlaylistID = v.SelectedPlaylist.ID
	}
	return snap, true
}

// GameAt returns the record at an absolute result offset, if fetched.
func (b *Browser) GameAt(viewKey string, offset int) (domain.Game, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.state.View(viewKey)
	if !ok {
		return domain.Game{}, false
	}
	return v.Cache.Record(offset)
}

// PageState reports a page's fetch state. Missing views read as Waiting.
func (b *Browser) PageState(viewKey string, page int) browse.RequestState {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.state.View(viewKey)
	if !ok {
		return browse.Waiting
	}
	return v.Cache.PageState(page)
}

// CurrentSearchID returns the view's active generation, for stamping
// RequestRange calls.
func (b *Browser) CurrentSearchID(viewKey string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.state.View(viewKey)
	if !ok {
		return 0
	}
	return v.Cache.SearchID
}

// StoredViews extracts every view's persistable configuration for the
// embedding application to save and feed back into CreateViews.
func (b *Browser) StoredViews() map[string]browse.StoredView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.StoredViews()
}

// CreateViews ensures a view exists for each key, restoring stored
// configuration where supplied.
func (b *Browser) CreateViews(ctx context.Context, keys []string, stored map[string]browse.StoredView) {
	b.Dispatch(ctx, browse.CreateViews{Keys: keys, Stored: stored})
}

// ReplaceViews rebuilds the registry around exactly the given keys.
func (b *Browser) ReplaceViews(ctx context.Context, keys []string, stored map[string]browse.StoredView) {
	b.Dispatch(ctx, browse.ReplaceViews{Keys: keys, Stored: stored})
}

// RenameView moves a view to a new key.
func (b *Browser) RenameView(ctx context.Context, oldKey, newKey string) {
	b.Dispatch(ctx, browse.RenameView{OldKey: oldKey, NewKey: newKey})
}

// DuplicateView copies a view's configuration under a new key.
func (b *Browser) DuplicateView(ctx context.Context, srcKey, dstKey string) {
	b.Dispatch(ctx, browse.DuplicateView{SrcKey: srcKey, DstKey: dstKey})
}

// DeleteView removes a view.
func (b *Browser) DeleteView(ctx context.Context, key string) {
	b.Dispatch(ctx, browse.DeleteView{Key: key})
}
