package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pgeary/marquee/internal/domain"
)

// planCacheSize bounds how many materialized result sets are kept around.
// A plan is the full filtered, sorted game slice for one query fingerprint.
const planCacheSize = 16

// MemorySource is the reference query engine: a linear-scan, in-memory
// implementation of domain.QuerySource over a fixed catalog snapshot. It
// answers keyset-paginated fetches and validates cursors the way a real
// backend would; ranking and indexing stay deliberately naive.
type MemorySource struct {
	games    []domain.Game
	pageSize int
	logger   *slog.Logger

	// plans caches filtered+sorted result sets by query fingerprint.
	// Playlist-restricted queries bypass it: their order changes out from
	// under the fingerprint whenever the playlist is reordered.
	plans *lru.Cache[uint64, []domain.Game]

	mu        sync.RWMutex
	playlists map[string]*domain.Playlist

	suggest *suggestIndex
}

// NewMemorySource builds a query engine over a catalog snapshot. A pageSize
// of zero or less defaults to 60; a nil logger discards.
func NewMemorySource(games []domain.Game, pageSize int, logger *slog.Logger) *MemorySource {
	if pageSize <= 0 {
		pageSize = 60
	}
	if logger == nil {
		logger = slog.Default()
	}
	plans, _ := lru.New[uint64, []domain.Game](planCacheSize)
	return &MemorySource{
		games:     games,
		pageSize:  pageSize,
		logger:    logger,
		plans:     plans,
		playlists: make(map[string]*domain.Playlist),
		suggest:   buildSuggestIndex(games),
	}
}

// PageSize returns the fixed records-per-page this source serves.
func (s *MemorySource) PageSize() int {
	return s.pageSize
}

// PutPlaylist registers or updates a playlist so playlist-restricted queries
// can resolve membership and order.
func (s *MemorySource) PutPlaylist(p *domain.Playlist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playlists[p.ID] = p.Clone()
}

// RemovePlaylist forgets a playlist. In-flight queries against it resolve to
// an empty result set.
func (s *MemorySource) RemovePlaylist(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.playlists, id)
}

// FetchKeyset computes the page-boundary cursors and total for a compiled
// query by materializing the full result set.
func (s *MemorySource) FetchKeyset(ctx context.Context, q *domain.CompiledQuery) (*domain.KeysetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := s.run(q)
	total := len(results)

	// One cursor per full page boundary: the cursor after page i unlocks
	// page i+1, so a result set that fits in one page has no cursors at all.
	var keyset []domain.Cursor
	for end := s.pageSize; end < total; end += s.pageSize {
		page := end/s.pageSize - 1
		keyset = append(keyset, cursorFor(q.Fingerprint, page, results[end-1].ID))
	}

	s.logger.Debug("keyset computed",
		"view", q.ViewKey, "searchId", q.SearchID, "total", total, "pages", len(keyset)+1)
	return &domain.KeysetResult{Keyset: keyset, Total: total}, nil
}

// FetchPage serves one page of results. Pages above zero must present the
// cursor that unlocks them; a cursor minted for a different page or a
// different query shape is refused.
func (s *MemorySource) FetchPage(ctx context.Context, q *domain.CompiledQuery, page int, cursor domain.Cursor) ([]domain.Game, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, fmt.Errorf("%w: negative page %d", domain.ErrBadCursor, page)
	}
	results := s.run(q)

	if page > 0 {
		prevEnd := page * s.pageSize
		if prevEnd > len(results) {
			return nil, fmt.Errorf("%w: page %d beyond result set", domain.ErrBadCursor, page)
		}
		want := cursorFor(q.Fingerprint, page-1, results[prevEnd-1].ID)
		if cursor != want {
			return nil, fmt.Errorf("%w: page %d", domain.ErrBadCursor, page)
		}
	}

	start := page * s.pageSize
	if start >= len(results) {
		return nil, nil
	}
	end := start + s.pageSize
	if end > len(results) {
		end = len(results)
	}
	out := make([]domain.Game, end-start)
	copy(out, results[start:end])
	return out, nil
}

// run materializes the filtered, sorted result set for a query, reusing a
// cached plan when the fingerprint has been asked before.
func (s *MemorySource) run(q *domain.CompiledQuery) []domain.Game {
	if q.PlaylistID != "" {
		return s.runPlaylist(q)
	}
	if cached, ok := s.plans.Get(q.Fingerprint); ok {
		return cached
	}

	var results []domain.Game
	for _, g := range s.games {
		if matches(g, q) {
			results = append(results, g)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return domain.CompareGames(results[i], results[j], q.OrderBy, q.OrderDirection) < 0
	})

	s.plans.Add(q.Fingerprint, results)
	return results
}

// runPlaylist restricts the catalog to a playlist's members in playlist
// order. The playlist's own order wins over the query's ordering; that is
// what makes optimistic reorders line up with refetched offsets.
func (s *MemorySource) runPlaylist(q *domain.CompiledQuery) []domain.Game {
	s.mu.RLock()
	p := s.playlists[q.PlaylistID]
	s.mu.RUnlock()
	if p == nil {
		return nil
	}

	byID := make(map[string]domain.Game, len(s.games))
	for _, g := range s.games {
		byID[g.ID] = g
	}
	var results []domain.Game
	for _, pg := range p.Games {
		g, ok := byID[pg.GameID]
		if !ok || !matches(g, q) {
			continue
		}
		results = append(results, g)
	}
	return results
}

// matches applies the free-text query and the filter tree to one game.
func matches(g domain.Game, q *domain.CompiledQuery) bool {
	if q.Text != "" && !matchText(g, q.Text) {
		return false
	}
	return evalFilter(g, q.Filter)
}

// matchText fuzzy-matches the search text against the title and alternates.
func matchText(g domain.Game, text string) bool {
	if fuzzy.MatchNormalizedFold(text, g.Title) {
		return true
	}
	for _, alt := range strings.Split(g.AlternateTitles, ";") {
		alt = strings.TrimSpace(alt)
		if alt != "" && fuzzy.MatchNormalizedFold(text, alt) {
			return true
		}
	}
	return false
}

// evalFilter evaluates a filter group against one game. An empty mode means
// "and"; Negate inverts the whole group's verdict.
func evalFilter(g domain.Game, f *domain.Filter) bool {
	if f.Empty() {
		return true
	}

	verdicts := make([]bool, 0, len(f.Matches)+len(f.Subfilters))
	for _, m := range f.Matches {
		verdicts = append(verdicts, evalMatch(g, m))
	}
	for _, sub := range f.Subfilters {
		if sub.Empty() {
			continue
		}
		verdicts = append(verdicts, evalFilter(g, sub))
	}

	var result bool
	if f.Mode == domain.CombineOr {
		for _, v := range verdicts {
			if v {
				result = true
				break
			}
		}
	} else {
		result = true
		for _, v := range verdicts {
			if !v {
				result = false
				break
			}
		}
	}
	if f.Negate {
		return !result
	}
	return result
}

func evalMatch(g domain.Game, m domain.FieldMatch) bool {
	if m.Field == domain.FieldTag {
		for _, tag := range g.Tags {
			if matchValue(tag, m.Value, m.Exact) {
				return true
			}
		}
		return false
	}

	var have string
	switch m.Field {
	case domain.FieldTitle:
		have = g.Title
	case domain.FieldDeveloper:
		have = g.Developer
	case domain.FieldPublisher:
		have = g.Publisher
	case domain.FieldSeries:
		have = g.Series
	case domain.FieldPlatform:
		have = g.Platform
	case domain.FieldLibrary:
		have = g.Library
	case domain.FieldPlayMode:
		have = g.PlayMode
	}
	return matchValue(have, m.Value, m.Exact)
}

func matchValue(have, want string, exact bool) bool {
	if exact {
		return strings.EqualFold(have, want)
	}
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}

// cursorFor mints the opaque cursor that the last record of the given page
// produces. Fetching the next page requires presenting it back, which is how
// the engine catches offsets computed against a different query shape.
func cursorFor(fingerprint uint64, page int, lastID string) domain.Cursor {
	seed := strconv.FormatUint(fingerprint, 16) + ":" + strconv.Itoa(page) + ":" + lastID
	return domain.Cursor(strconv.FormatUint(xxhash.Sum64String(seed), 16))
}
