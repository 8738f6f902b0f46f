package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgeary/marquee/internal/domain"
)

func openStore(t *testing.T, dir string) *PlaylistStore {
	t.Helper()
	s, err := NewPlaylistStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSavePlaylist_AssignsIDAndRoundTrips(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	p := &domain.Playlist{
		Title:  "Favorites",
		Author: "curator",
		Games:  []domain.PlaylistGame{{GameID: "a", Notes: "classic"}},
	}
	require.NoError(t, s.SavePlaylist(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Favorites", got.Title)
	require.Len(t, got.Games, 1)
	assert.Equal(t, "classic", got.Games[0].Notes)
}

func TestGetPlaylist_Missing(t *testing.T) {
	s := openStore(t, t.TempDir())

	_, err := s.GetPlaylist(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestGetPlaylists_SortedByTitle(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.SavePlaylist(ctx, &domain.Playlist{Title: "Zoo"}))
	require.NoError(t, s.SavePlaylist(ctx, &domain.Playlist{Title: "Arcade Hits"}))

	all, err := s.GetPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Arcade Hits", all[0].Title)
	assert.Equal(t, "Zoo", all[1].Title)
}

func TestSaveOrder_KeepsStoredMetadata(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	p := &domain.Playlist{
		Title:       "Favorites",
		Description: "the good ones",
		Games:       []domain.PlaylistGame{{GameID: "a"}, {GameID: "b"}},
	}
	require.NoError(t, s.SavePlaylist(ctx, p))

	// A reorder snapshot carries only id and order.
	require.NoError(t, s.SaveOrder(ctx, &domain.Playlist{
		ID:    p.ID,
		Games: []domain.PlaylistGame{{GameID: "b"}, {GameID: "a"}},
	}))

	got, err := s.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "the good ones", got.Description)
	require.Len(t, got.Games, 2)
	assert.Equal(t, "b", got.Games[0].GameID)
}

func TestSaveOrder_RejectsUnsavedPlaylist(t *testing.T) {
	s := openStore(t, t.TempDir())

	err := s.SaveOrder(context.Background(), &domain.Playlist{Title: "no id"})
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestDeletePlaylist_AbsentIsNotError(t *testing.T) {
	s := openStore(t, t.TempDir())
	ctx := context.Background()

	p := &domain.Playlist{Title: "gone soon"}
	require.NoError(t, s.SavePlaylist(ctx, p))
	require.NoError(t, s.DeletePlaylist(ctx, p.ID))
	require.NoError(t, s.DeletePlaylist(ctx, p.ID))

	_, err := s.GetPlaylist(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrPlaylistNotFound)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewPlaylistStore(dir)
	require.NoError(t, err)
	p := &domain.Playlist{Title: "Durable"}
	require.NoError(t, s.SavePlaylist(ctx, p))
	require.NoError(t, s.Close())

	s2 := openStore(t, dir)
	got, err := s2.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Durable", got.Title)
}

func TestMemoryOnlyMode(t *testing.T) {
	s := openStore(t, "")
	ctx := context.Background()

	p := &domain.Playlist{Title: "Ephemeral"}
	require.NoError(t, s.SavePlaylist(ctx, p))

	got, err := s.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ephemeral", got.Title)

	all, err := s.GetPlaylists(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
