package domain

// PlaylistGame is one entry in a playlist's ordered sequence.
type PlaylistGame struct {
	GameID string // Referenced game
	Notes  string // Curator notes for this entry
}

// Playlist is a user-curated, ordered selection of games.
type Playlist struct {
	ID          string // UUID
	Title       string
	Description string
	Author      string
	Library     string // Library route the playlist belongs to, empty for all
	Games       []PlaylistGame
}

// IndexOf returns the position of the given game in the playlist order,
// or -1 if it is not a member.
func (p *Playlist) IndexOf(gameID string) int {
	for i, g := range p.Games {
		if g.GameID == gameID {
			return i
		}
	}
	return -1
}

// Clone deep-copies the playlist, including its entry order.
func (p *Playlist) Clone() *Playlist {
	if p == nil {
		return nil
	}
	dup := *p
	dup.Games = append([]PlaylistGame(nil), p.Games...)
	return &dup
}
