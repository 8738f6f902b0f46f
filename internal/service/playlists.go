package service

import (
	"context"
	"fmt"

	"github.com/pgeary/marquee/internal/browse"
	"github.com/pgeary/marquee/internal/domain"
)

// Playlists returns every stored playlist.
func (b *Browser) Playlists(ctx context.Context) ([]*domain.Playlist, error) {
	return b.playlists.GetPlaylists(ctx)
}

// CreatePlaylist saves a new playlist and publishes it to the query engine.
func (b *Browser) CreatePlaylist(ctx context.Context, p *domain.Playlist) (*domain.Playlist, error) {
	if err := b.playlists.SavePlaylist(ctx, p); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}
	if b.publisher != nil {
		b.publisher.PutPlaylist(p)
	}
	return p, nil
}

// DeletePlaylist removes a playlist from storage and unbinds it from every
// view that was browsing it.
func (b *Browser) DeletePlaylist(ctx context.Context, id string) error {
	if err := b.playlists.DeletePlaylist(ctx, id); err != nil {
		return fmt.Errorf("delete playlist: %w", err)
	}
	if b.publisher != nil {
		b.publisher.RemovePlaylist(id)
	}

	b.mu.Lock()
	var unbind []string
	for _, key := range b.state.ViewKeys() {
		if v, ok := b.state.View(key); ok &&
			v.SelectedPlaylist != nil && v.SelectedPlaylist.ID == id {
			unbind = append(unbind, key)
		}
	}
	for _, key := range unbind {
		b.state.Apply(browse.SetSelectedPlaylist{View: key, Playlist: nil})
	}
	b.mu.Unlock()
	return nil
}

// AddGameToPlaylist appends a game to a playlist's order. Adding a game that
// is already a member is a no-op.
func (b *Browser) AddGameToPlaylist(ctx context.Context, playlistID, gameID, notes string) error {
	p, err := b.playlists.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	if p.IndexOf(gameID) >= 0 {
		return nil
	}
	p.Games = append(p.Games, domain.PlaylistGame{GameID: gameID, Notes: notes})
	if err := b.playlists.SavePlaylist(ctx, p); err != nil {
		return fmt.Errorf("add game to playlist: %w", err)
	}
	if b.publisher != nil {
		b.publisher.PutPlaylist(p)
	}
	b.refreshBoundViews(p)
	return nil
}

// RemoveGameFromPlaylist drops a game from a playlist's order.
func (b *Browser) RemoveGameFromPlaylist(ctx context.Context, playlistID, gameID string) error {
	p, err := b.playlists.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	idx := p.IndexOf(gameID)
	if idx < 0 {
		return nil
	}
	p.Games = append(p.Games[:idx], p.Games[idx+1:]...)
	if err := b.playlists.SavePlaylist(ctx, p); err != nil {
		return fmt.Errorf("remove game from playlist: %w", err)
	}
	if b.publisher != nil {
		b.publisher.PutPlaylist(p)
	}
	b.refreshBoundViews(p)
	return nil
}

// SelectPlaylist binds a playlist to a view, or unbinds with an empty id.
// The caller launches a Search afterwards to load the playlist's results.
func (b *Browser) SelectPlaylist(ctx context.Context, viewKey, playlistID string) error {
	if playlistID == "" {
		b.Dispatch(ctx, browse.SetSelectedPlaylist{View: viewKey, Playlist: nil})
		return nil
	}
	p, err := b.playlists.GetPlaylist(ctx, playlistID)
	if err != nil {
		return err
	}
	b.Dispatch(ctx, browse.SetSelectedPlaylist{View: viewKey, Playlist: p})
	return nil
}

// refreshBoundViews pushes an updated playlist snapshot into every view bound
// to it, so membership edits show up without re-selecting. Views still need
// a new search to refetch results.
func (b *Browser) refreshBoundViews(p *domain.Playlist) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, key := range b.state.ViewKeys() {
		if v, ok := b.state.View(key); ok &&
			v.SelectedPlaylist != nil && v.SelectedPlaylist.ID == p.ID {
			b.state.Apply(browse.SetSelectedPlaylist{View: key, Playlist: p.Clone()})
		}
	}
}
