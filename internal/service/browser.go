package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pgeary/marquee/internal/browse"
	"github.com/pgeary/marquee/internal/domain"
)

// PlaylistPublisher receives playlist changes so a query engine that resolves
// playlist-restricted searches sees the same membership and order the store
// does. The in-memory reference source implements it.
type PlaylistPublisher interface {
	PutPlaylist(p *domain.Playlist)
	RemovePlaylist(id string)
}

// Browser is the dispatch layer around the view engine. It owns the
// browse.State behind a mutex and is its only writer: every mutation goes
// through Dispatch, and the effects a mutation returns are run on goroutines
// whose completions re-enter through Dispatch as well. The engine's search
// generation rule makes that safe no matter how completions interleave.
type Browser struct {
	mu    sync.Mutex
	state *browse.State

	source    domain.QuerySource
	playlists domain.PlaylistStore
	publisher PlaylistPublisher
	logger    *slog.Logger

	wg sync.WaitGroup
}

// Options tunes a Browser. Zero values select the engine defaults.
type Options struct {
	GeneralView string
	PageSize    int
	// Publisher, if set, is told about every playlist save and delete.
	Publisher PlaylistPublisher
}

// NewBrowser wires the view engine to its collaborators.
func NewBrowser(source domain.QuerySource, playlists domain.PlaylistStore, logger *slog.Logger, opts Options) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{
		state:     browse.NewState(opts.GeneralView, opts.PageSize),
		source:    source,
		playlists: playlists,
		publisher: opts.Publisher,
		logger:    logger,
	}
}

// Dispatch applies one mutation and runs whatever asynchronous work it asks
// for. It is safe to call from any goroutine, including effect completions.
func (b *Browser) Dispatch(ctx context.Context, m browse.Mutation) {
	b.mu.Lock()
	b.observe(m)
	effects := b.state.Apply(m)
	b.mu.Unlock()
	b.runEffects(ctx, effects)
}

// observe counts the drops and resets the engine performs silently. Caller
// holds the lock.
func (b *Browser) observe(m browse.Mutation) {
	ad, ok := m.(browse.AddData)
	if !ok {
		return
	}
	v, ok := b.state.View(ad.View)
	if !ok {
		return
	}
	switch {
	case ad.Response.SearchID < v.Cache.SearchID:
		StaleDropCount.Inc()
		b.logger.Debug("stale response dropped",
			"view", ad.View, "searchId", ad.Response.SearchID, "current", v.Cache.SearchID)
	case ad.Response.SearchID > v.Cache.SearchID:
		SupersedeResetCount.Inc()
	}
}

// Search compiles the view's current inputs under a fresh generation and
// launches the keyset and first-page fetches. A compile failure propagates
// to the caller and leaves the previous generation's results visible.
// Searching a view that does not exist is a no-op.
func (b *Browser) Search(ctx context.Context, viewKey string) error {
	b.mu.Lock()
	v, ok := b.state.View(viewKey)
	if !ok {
		b.mu.Unlock()
		b.logger.Debug("search on missing view", "view", viewKey)
		return nil
	}
	req := domain.CompileRequest{
		ViewKey:        viewKey,
		SearchID:       b.state.NextSearchID(viewKey),
		Text:           v.Text,
		Filter:         v.Filter.Clone(),
		OrderBy:        v.OrderBy,
		OrderDirection: v.OrderDirection,
	}
	if v.SelectedPlaylist != nil {
		req.PlaylistID = v.SelectedPlaylist.ID
	}
	b.state.Apply(browse.SetSearchID{View: viewKey, SearchID: req.SearchID})
	b.mu.Unlock()

	q, err := b.source.Compile(ctx, req)
	if err != nil {
		CompileFailureCount.Inc()
		return fmt.Errorf("compile search for view %q: %w", viewKey, err)
	}

	b.Dispatch(ctx, browse.SetFilter{View: viewKey, SearchID: req.SearchID, Query: q})
	return nil
}

// RequestRange makes the records covering [start, start+count) available,
// fetching whichever pages the engine decides are due. Requests stamped with
// a superseded generation do nothing.
func (b *Browser) RequestRange(ctx context.Context, viewKey string, start, count int, searchID int64) {
	b.Dispatch(ctx, browse.RequestRange{View: viewKey, Start: start, Count: count, SearchID: searchID})
}

// MoveGame reorders the view's selected playlist, placing the source game
// directly after the destination game. It reports whether the move happened;
// the write-through to storage runs in the background.
func (b *Browser) MoveGame(ctx context.Context, viewKey, sourceGameID, destGameID string) bool {
	b.mu.Lock()
	effects := b.state.Apply(browse.MoveGame{
		View:         viewKey,
		SourceGameID: sourceGameID,
		DestGameID:   destGameID,
	})
	b.mu.Unlock()
	b.runEffects(ctx, effects)
	return len(effects) > 0
}

// runEffects starts one goroutine per effect. Each completion dispatches its
// result back in; failures are logged and counted, never retried here.
func (b *Browser) runEffects(ctx context.Context, effects []browse.Effect) {
	for _, e := range effects {
		b.wg.Add(1)
		switch e := e.(type) {
		case browse.FetchKeysetEffect:
			go b.fetchKeyset(ctx, e)
		case browse.FetchPageEffect:
			go b.fetchPage(ctx, e)
		case browse.PersistPlaylistEffect:
			go b.persistPlaylist(ctx, e)
		default:
			b.wg.Done()
		}
	}
}

func (b *Browser) fetchKeyset(ctx context.Context, e browse.FetchKeysetEffect) {
	defer b.wg.Done()
	FetchCount.WithLabelValues("keyset").Inc()

	res, err := b.source.FetchKeyset(ctx, e.Query)
	if err != nil {
		EffectErrorCount.WithLabelValues("keyset").Inc()
		b.logger.Warn("keyset fetch failed", "view", e.View, "searchId", e.SearchID, "error", err)
		return
	}
	keyset := res.Keyset
	if keyset == nil {
		// Single-page result sets have no cursors but still carry a keyset,
		// which is what marks page zero received.
		keyset = []domain.Cursor{}
	}
	total := res.Total
	b.Dispatch(ctx, browse.AddData{View: e.View, Response: browse.Response{
		SearchID: e.SearchID,
		Keyset:   keyset,
		Total:    &total,
	}})
}

func (b *Browser) fetchPage(ctx context.Context, e browse.FetchPageEffect) {
	defer b.wg.Done()
	FetchCount.WithLabelValues("page").Inc()

	games, err := b.source.FetchPage(ctx, e.Query, e.Page, e.Cursor)
	if err != nil {
		EffectErrorCount.WithLabelValues("page").Inc()
		b.logger.Warn("page fetch failed",
			"view", e.View, "searchId", e.SearchID, "page", e.Page, "error", err)
		return
	}
	b.Dispatch(ctx, browse.AddData{View: e.View, Response: browse.Response{
		SearchID: e.SearchID,
		Data:     &browse.PageData{Page: e.Page, Games: games},
	}})
}

func (b *Browser) persistPlaylist(ctx context.Context, e browse.PersistPlaylistEffect) {
	defer b.wg.Done()

	if b.publisher != nil {
		b.publisher.PutPlaylist(e.Playlist)
	}
	if err := b.playlists.SaveOrder(ctx, e.Playlist); err != nil {
		EffectErrorCount.WithLabelValues("persist").Inc()
		// The optimistic order stands; the dirty flag stays set.
		b.logger.Warn("playlist write-through failed",
			"view", e.View, "playlist", e.Playlist.ID, "error", err)
		return
	}
	b.Dispatch(ctx, browse.PersistConfirmed{View: e.View})
}

// Wait blocks until every in-flight effect has completed and dispatched its
// result. Tests and shutdown use it; the UI never needs to.
func (b *Browser) Wait() {
	b.wg.Wait()
}
