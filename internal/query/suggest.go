package query

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/pgeary/marquee/internal/domain"
)

// suggestIndex holds the distinct values of each filterable field, prepared
// for fuzzy completion. It implements fuzzy.Source per field slice so
// matching allocates nothing beyond the result list.
type suggestIndex struct {
	fields map[string]*fieldValues
}

type fieldValues struct {
	values []string // Distinct values in original casing
	lower  []string // Pre-computed lowercase for matching
}

// String returns the lowercase value at index i (implements fuzzy.Source)
func (fv *fieldValues) String(i int) string { return fv.lower[i] }

// Len returns the number of values (implements fuzzy.Source)
func (fv *fieldValues) Len() int { return len(fv.lower) }

func buildSuggestIndex(games []domain.Game) *suggestIndex {
	sets := map[string]map[string]string{
		domain.FieldDeveloper: {},
		domain.FieldPublisher: {},
		domain.FieldSeries:    {},
		domain.FieldPlatform:  {},
		domain.FieldLibrary:   {},
		domain.FieldPlayMode:  {},
		domain.FieldTag:       {},
	}
	add := func(field, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		sets[field][strings.ToLower(value)] = value
	}
	for _, g := range games {
		add(domain.FieldDeveloper, g.Developer)
		add(domain.FieldPublisher, g.Publisher)
		add(domain.FieldSeries, g.Series)
		add(domain.FieldPlatform, g.Platform)
		add(domain.FieldLibrary, g.Library)
		add(domain.FieldPlayMode, g.PlayMode)
		for _, tag := range g.Tags {
			add(domain.FieldTag, tag)
		}
	}

	idx := &suggestIndex{fields: make(map[string]*fieldValues, len(sets))}
	for field, set := range sets {
		fv := &fieldValues{}
		for _, value := range set {
			fv.values = append(fv.values, value)
		}
		sort.Strings(fv.values)
		fv.lower = make([]string, len(fv.values))
		for i, value := range fv.values {
			fv.lower[i] = strings.ToLower(value)
		}
		idx.fields[field] = fv
	}
	return idx
}

// Suggest returns up to limit completions for a filterable field, best match
// first. An empty prefix lists the field's values alphabetically; an unknown
// field has no suggestions.
func (s *MemorySource) Suggest(ctx context.Context, field, prefix string, limit int) []string {
	fv, ok := s.suggest.fields[field]
	if !ok || limit <= 0 {
		return nil
	}

	if strings.TrimSpace(prefix) == "" {
		n := limit
		if n > len(fv.values) {
			n = len(fv.values)
		}
		return append([]string(nil), fv.values[:n]...)
	}

	ranked := fuzzy.FindFrom(strings.ToLower(prefix), fv)
	out := make([]string, 0, limit)
	for _, m := range ranked {
		out = append(out, fv.values[m.Index])
		if len(out) == limit {
			break
		}
	}
	return out
}
