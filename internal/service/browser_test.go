package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgeary/marquee/internal/browse"
	"github.com/pgeary/marquee/internal/domain"
	"github.com/pgeary/marquee/internal/log"
	"github.com/pgeary/marquee/internal/query"
	"github.com/pgeary/marquee/internal/store"
)

func testCatalog(n int) []domain.Game {
	games := make([]domain.Game, 0, n)
	for i := 0; i < n; i++ {
		games = append(games, domain.Game{
			ID:    fmt.Sprintf("g%03d", i),
			Title: fmt.Sprintf("Game %03d", i),
		})
	}
	return games
}

func testBrowser(t *testing.T, games []domain.Game) (*Browser, *query.MemorySource, *store.PlaylistStore) {
	t.Helper()
	source := query.NewMemorySource(games, 10, log.NullLogger())
	playlists, err := store.NewPlaylistStore("")
	require.NoError(t, err)
	t.Cleanup(func() { playlists.Close() })

	b := NewBrowser(source, playlists, log.NullLogger(), Options{
		PageSize:  10,
		Publisher: source,
	})
	return b, source, playlists
}

func TestSearch_LoadsKeysetAndFirstPage(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(25))
	ctx := context.Background()

	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()

	snap, ok := b.Snapshot("general")
	require.True(t, ok)
	require.True(t, snap.TotalKnown)
	assert.Equal(t, 25, snap.Total)
	assert.Equal(t, browse.Received, snap.Status)

	assert.Equal(t, browse.Received, b.PageState("general", 0))
	assert.Equal(t, browse.Waiting, b.PageState("general", 1))
	assert.Equal(t, browse.Waiting, b.PageState("general", 2))

	g, ok := b.GameAt("general", 0)
	require.True(t, ok)
	assert.Equal(t, "g000", g.ID)
	_, ok = b.GameAt("general", 10)
	assert.False(t, ok)
}

func TestRequestRange_FetchesUnlockedPages(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(25))
	ctx := context.Background()

	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()

	id := b.CurrentSearchID("general")
	b.RequestRange(ctx, "general", 10, 15, id)
	b.Wait()

	assert.Equal(t, browse.Received, b.PageState("general", 1))
	assert.Equal(t, browse.Received, b.PageState("general", 2))

	g, ok := b.GameAt("general", 24)
	require.True(t, ok)
	assert.Equal(t, "g024", g.ID)
}

func TestRequestRange_StaleGenerationIgnored(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(25))
	ctx := context.Background()

	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()

	b.RequestRange(ctx, "general", 10, 10, b.CurrentSearchID("general")-1)
	b.Wait()

	assert.Equal(t, browse.Waiting, b.PageState("general", 1))
}

func TestSearch_SupersededGenerationCannotResurface(t *testing.T) {
	games := testCatalog(25)
	games = append(games, domain.Game{ID: "zelda", Title: "Legend of Zelda"})
	b, _, _ := testBrowser(t, games)
	ctx := context.Background()

	// Launch a broad search and immediately supersede it with a narrow one,
	// letting both sets of responses land in whatever order they like.
	require.NoError(t, b.Search(ctx, "general"))
	b.Dispatch(ctx, browse.SetText{View: "general", Text: "zelda"})
	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()

	snap, ok := b.Snapshot("general")
	require.True(t, ok)
	require.True(t, snap.TotalKnown)
	assert.Equal(t, 1, snap.Total)

	g, ok := b.GameAt("general", 0)
	require.True(t, ok)
	assert.Equal(t, "zelda", g.ID)
	_, ok = b.GameAt("general", 1)
	assert.False(t, ok)
}

func TestSearch_CompileFailureLeavesResultsStanding(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(5))
	ctx := context.Background()

	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()
	before := b.CurrentSearchID("general")

	b.Dispatch(ctx, browse.SetAdvancedFilter{View: "general", Filter: &domain.Filter{
		Matches: []domain.FieldMatch{{Field: "bogus", Value: "x"}},
	}})
	err := b.Search(ctx, "general")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidFilter)

	// The failed generation never touched the cache.
	assert.Equal(t, before, b.CurrentSearchID("general"))
	snap, _ := b.Snapshot("general")
	assert.True(t, snap.TotalKnown)
	assert.Equal(t, 5, snap.Total)
	_, ok := b.GameAt("general", 0)
	assert.True(t, ok)
}

func TestSearch_MissingViewIsNoOp(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(5))

	require.NoError(t, b.Search(context.Background(), "deleted"))
	b.Wait()
}

func TestMoveGame_WritesThroughAndClearsDirty(t *testing.T) {
	games := []domain.Game{
		{ID: "a", Title: "Alpha"},
		{ID: "b", Title: "Beta"},
		{ID: "c", Title: "Gamma"},
		{ID: "d", Title: "Delta"},
	}
	b, _, playlists := testBrowser(t, games)
	ctx := context.Background()

	p, err := b.CreatePlaylist(ctx, &domain.Playlist{
		Title: "Mix",
		Games: []domain.PlaylistGame{
			{GameID: "a"}, {GameID: "b"}, {GameID: "c"}, {GameID: "d"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, b.SelectPlaylist(ctx, "general", p.ID))
	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()

	g, _ := b.GameAt("general", 0)
	require.Equal(t, "a", g.ID)

	require.True(t, b.MoveGame(ctx, "general", "a", "c"))
	b.Wait()

	// Cache patched optimistically: [b c a d].
	for i, want := range []string{"b", "c", "a", "d"} {
		g, ok := b.GameAt("general", i)
		require.True(t, ok)
		assert.Equal(t, want, g.ID)
	}

	// Write-through landed and confirmation cleared the dirty flag.
	stored, err := playlists.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	got := make([]string, 0, len(stored.Games))
	for _, pg := range stored.Games {
		got = append(got, pg.GameID)
	}
	assert.Equal(t, []string{"b", "c", "a", "d"}, got)

	snap, _ := b.Snapshot("general")
	assert.False(t, snap.PlaylistDirty)
}

func TestMoveGame_UnknownGameRefused(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(3))
	ctx := context.Background()

	p, err := b.CreatePlaylist(ctx, &domain.Playlist{
		Title: "Mix",
		Games: []domain.PlaylistGame{{GameID: "g000"}, {GameID: "g001"}},
	})
	require.NoError(t, err)
	require.NoError(t, b.SelectPlaylist(ctx, "general", p.ID))

	assert.False(t, b.MoveGame(ctx, "general", "g000", "stranger"))
	b.Wait()
}

func TestPlaylistMembership_RefreshesBoundViews(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(3))
	ctx := context.Background()

	p, err := b.CreatePlaylist(ctx, &domain.Playlist{Title: "Mix"})
	require.NoError(t, err)
	require.NoError(t, b.SelectPlaylist(ctx, "general", p.ID))

	require.NoError(t, b.AddGameToPlaylist(ctx, p.ID, "g001", "note"))
	require.NoError(t, b.AddGameToPlaylist(ctx, p.ID, "g001", "dup ignored"))

	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()
	snap, _ := b.Snapshot("general")
	assert.Equal(t, 1, snap.Total)

	require.NoError(t, b.RemoveGameFromPlaylist(ctx, p.ID, "g001"))
	require.NoError(t, b.Search(ctx, "general"))
	b.Wait()
	snap, _ = b.Snapshot("general")
	assert.Equal(t, 0, snap.Total)
}

func TestDeletePlaylist_UnbindsViews(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(3))
	ctx := context.Background()

	p, err := b.CreatePlaylist(ctx, &domain.Playlist{Title: "Mix"})
	require.NoError(t, err)
	require.NoError(t, b.SelectPlaylist(ctx, "general", p.ID))

	require.NoError(t, b.DeletePlaylist(ctx, p.ID))
	snap, _ := b.Snapshot("general")
	assert.Empty(t, snap.PlaylistID)
}

func TestRegistryOps_ThroughBrowser(t *testing.T) {
	b, _, _ := testBrowser(t, testCatalog(3))
	ctx := context.Background()

	b.CreateViews(ctx, []string{"arcade", "theatre"}, nil)
	assert.Equal(t, []string{"arcade", "general", "theatre"}, b.ViewKeys())

	b.Dispatch(ctx, browse.SetText{View: "arcade", Text: "pinball"})
	b.DuplicateView(ctx, "arcade", "arcade copy")
	snap, ok := b.Snapshot("arcade copy")
	require.True(t, ok)
	assert.Equal(t, "pinball", snap.Text)
	assert.Zero(t, snap.SearchID)

	b.RenameView(ctx, "theatre", "cinema")
	_, ok = b.Snapshot("theatre")
	assert.False(t, ok)
	_, ok = b.Snapshot("cinema")
	assert.True(t, ok)

	stored := b.StoredViews()
	assert.Contains(t, stored, "arcade")
	assert.Equal(t, "pinball", stored["arcade"].Text)

	b.DeleteView(ctx, "arcade copy")
	b.DeleteView(ctx, "cinema")
	b.DeleteView(ctx, "arcade")
	// Deleting the last non-general view synthesizes a fresh one.
	assert.Equal(t, []string{"arcade", "general"}, b.ViewKeys())
}
