package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgeary/marquee/internal/domain"
)

func playlistOf(ids ...string) *domain.Playlist {
	p := &domain.Playlist{ID: "pl-1", Title: "Favorites"}
	for _, id := range ids {
		p.Games = append(p.Games, domain.PlaylistGame{GameID: id})
	}
	return p
}

func playlistOrder(p *domain.Playlist) []string {
	ids := make([]string, len(p.Games))
	for i, pg := range p.Games {
		ids[i] = pg.GameID
	}
	return ids
}

func recordAt(t *testing.T, v *View, offset int) string {
	t.Helper()
	g, ok := v.Cache.Record(offset)
	require.True(t, ok, "no record at offset %d", offset)
	return g.ID
}

// playlistView stands up a view browsing a playlist with the given games
// materialized at offsets 0..n-1.
func playlistView(t *testing.T, s *State, ids ...string) *View {
	t.Helper()
	v := launchView(t, s, "faves", 1)
	s.Apply(SetSelectedPlaylist{View: "faves", Playlist: playlistOf(ids...)})
	games := make([]domain.Game, len(ids))
	for i, id := range ids {
		games[i] = testGame(id, id)
	}
	s.Apply(AddData{View: "faves", Response: Response{
		SearchID: 1,
		Data:     &PageData{Page: 0, Games: games},
	}})
	return v
}

func TestMoveGame_ForwardReordersPlaylistAndRecords(t *testing.T) {
	s := NewState("general", 10)
	v := playlistView(t, s, "A", "B", "C", "D")

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "C"})

	require.Len(t, effects, 1)
	persist, ok := effects[0].(PersistPlaylistEffect)
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C", "A", "D"}, playlistOrder(persist.Playlist))
	assert.Equal(t, []string{"B", "C", "A", "D"}, playlistOrder(v.SelectedPlaylist))

	assert.Equal(t, "B", recordAt(t, v, 0))
	assert.Equal(t, "C", recordAt(t, v, 1))
	assert.Equal(t, "A", recordAt(t, v, 2))
	assert.Equal(t, "D", recordAt(t, v, 3))
	assert.True(t, v.PlaylistDirty)
}

func TestMoveGame_BackwardReordersPlaylistAndRecords(t *testing.T) {
	s := NewState("general", 10)
	v := playlistView(t, s, "A", "B", "C", "D")

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "D", DestGameID: "A"})

	require.Len(t, effects, 1)
	assert.Equal(t, []string{"A", "D", "B", "C"}, playlistOrder(v.SelectedPlaylist))
	assert.Equal(t, "A", recordAt(t, v, 0))
	assert.Equal(t, "D", recordAt(t, v, 1))
	assert.Equal(t, "B", recordAt(t, v, 2))
	assert.Equal(t, "C", recordAt(t, v, 3))
}

func TestMoveGame_MissingEndpointIsRejectedWhole(t *testing.T) {
	s := NewState("general", 10)
	v := playlistView(t, s, "A", "B", "C")

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "ghost"})

	assert.Empty(t, effects)
	assert.Equal(t, []string{"A", "B", "C"}, playlistOrder(v.SelectedPlaylist))
	assert.Equal(t, "A", recordAt(t, v, 0))
	assert.False(t, v.PlaylistDirty)
}

func TestMoveGame_NoPlaylistSelectedIsNoop(t *testing.T) {
	s := NewState("general", 10)
	launchView(t, s, "faves", 1)

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "B"})

	assert.Empty(t, effects)
}

func TestMoveGame_UnmaterializedEndpointSkipsVisualPatch(t *testing.T) {
	s := NewState("general", 2)
	v := launchView(t, s, "faves", 1)
	s.Apply(SetSelectedPlaylist{View: "faves", Playlist: playlistOf("A", "B", "C", "D")})
	// Only page 0 fetched: A and B materialized, C and D not.
	s.Apply(AddData{View: "faves", Response: Response{
		SearchID: 1,
		Data:     &PageData{Page: 0, Games: []domain.Game{testGame("A", "A"), testGame("B", "B")}},
	}})

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "C"})

	// The playlist order changes and still persists.
	require.Len(t, effects, 1)
	assert.Equal(t, []string{"B", "C", "A", "D"}, playlistOrder(v.SelectedPlaylist))

	// The cached records are left alone and the view needs a refetch.
	assert.Equal(t, "A", recordAt(t, v, 0))
	assert.Equal(t, "B", recordAt(t, v, 1))
	assert.True(t, v.Dirty)
}

func TestMoveGame_PersistConfirmationClearsDirty(t *testing.T) {
	s := NewState("general", 10)
	v := playlistView(t, s, "A", "B")

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "B", DestGameID: "A"})
	require.NotEmpty(t, effects)
	require.True(t, v.PlaylistDirty)

	s.Apply(PersistConfirmed{View: "faves"})

	assert.False(t, v.PlaylistDirty)
}

func TestMoveGame_PersistSnapshotIsIndependent(t *testing.T) {
	s := NewState("general", 10)
	v := playlistView(t, s, "A", "B", "C")

	effects := s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "B"})
	require.Len(t, effects, 1)
	snapshot := effects[0].(PersistPlaylistEffect).Playlist

	// A later in-memory edit must not leak into the snapshot being persisted.
	v.SelectedPlaylist.Games[0].GameID = "mutated"

	assert.Equal(t, []string{"B", "A", "C"}, playlistOrder(snapshot))
}

func TestMoveGame_SparseGapsShiftCorrectly(t *testing.T) {
	s := NewState("general", 2)
	v := launchView(t, s, "faves", 1)
	s.Apply(SetSelectedPlaylist{View: "faves", Playlist: playlistOf("A", "B", "C", "D", "E", "F")})
	// Pages 0 and 2 fetched, page 1 never requested: offsets 2 and 3 absent.
	s.Apply(AddData{View: "faves", Response: Response{
		SearchID: 1,
		Data:     &PageData{Page: 0, Games: []domain.Game{testGame("A", "A"), testGame("B", "B")}},
	}})
	s.Apply(AddData{View: "faves", Response: Response{
		SearchID: 1,
		Data:     &PageData{Page: 2, Games: []domain.Game{testGame("E", "E"), testGame("F", "F")}},
	}})

	s.Apply(MoveGame{View: "faves", SourceGameID: "A", DestGameID: "E"})

	// A lands at E's old offset; everything between slides one toward the
	// front, and the unfetched gap slides with it.
	assert.Equal(t, "B", recordAt(t, v, 0))
	_, ok := v.Cache.Record(1)
	assert.False(t, ok)
	_, ok = v.Cache.Record(2)
	assert.False(t, ok)
	assert.Equal(t, "E", recordAt(t, v, 3))
	assert.Equal(t, "A", recordAt(t, v, 4))
	assert.Equal(t, "F", recordAt(t, v, 5))
}
