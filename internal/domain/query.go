package domain

import "context"

// Cursor is an opaque keyset cursor. Cursor i in a keyset unlocks page i+1;
// page 0 never needs one.
type Cursor string

// CompileRequest carries everything the query compiler needs to turn a
// view's free text, filter tree and ordering into an executable query.
type CompileRequest struct {
	ViewKey        string
	SearchID       int64
	Text           string
	Filter         *Filter
	OrderBy        OrderBy
	OrderDirection OrderDirection
	PlaylistID     string // Restrict results to a playlist's members, optional
}

// CompiledQuery is the normalized, validated form of a search. The browse
// core stores it on the view and hands it back for keyset and page fetches;
// Fingerprint identifies the query shape so engines can cache their plans.
type CompiledQuery struct {
	ViewKey        string
	SearchID       int64
	Text           string
	Filter         *Filter
	OrderBy        OrderBy
	OrderDirection OrderDirection
	PlaylistID     string
	Fingerprint    uint64
}

// KeysetResult is the answer to a keyset fetch: the page-boundary cursors for
// the whole result set plus the total number of matching games.
type KeysetResult struct {
	Keyset []Cursor
	Total  int
}

// QuerySource is the external query service: compiles searches and answers
// keyset-paginated fetches. Implementations execute asynchronously from the
// browse core's point of view; responses are merged back by search id.
type QuerySource interface {
	// Compile validates and normalizes a search. A malformed filter returns
	// an error wrapping ErrInvalidFilter and must leave no other trace.
	Compile(ctx context.Context, req CompileRequest) (*CompiledQuery, error)

	// FetchKeyset computes the cursors and total for a compiled query.
	FetchKeyset(ctx context.Context, q *CompiledQuery) (*KeysetResult, error)

	// FetchPage returns the records of one page. Pages above zero require
	// the cursor that unlocks them; a mismatched cursor wraps ErrBadCursor.
	FetchPage(ctx context.Context, q *CompiledQuery, page int, cursor Cursor) ([]Game, error)
}

// SuggestionSource offers completions for filterable field values.
type SuggestionSource interface {
	Suggest(ctx context.Context, field, prefix string, limit int) []string
}

// PlaylistStore persists playlists and their order. The browse core mutates
// playlist order optimistically and writes through afterward; persistence
// failures are the store's concern and are never rolled back into the core.
type PlaylistStore interface {
	GetPlaylists(ctx context.Context) ([]*Playlist, error)
	GetPlaylist(ctx context.Context, id string) (*Playlist, error)
	SavePlaylist(ctx context.Context, p *Playlist) error
	SaveOrder(ctx context.Context, p *Playlist) error
	DeletePlaylist(ctx context.Context, id string) error
	Close() error
}
