package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/pgeary/marquee/internal/domain"
)

// Compile validates and normalizes a search request. The returned query's
// fingerprint identifies its shape, so two views asking the same question
// share one cached plan. A malformed filter is rejected without touching
// any engine state.
func (s *MemorySource) Compile(ctx context.Context, req domain.CompileRequest) (*domain.CompiledQuery, error) {
	if err := validateFilter(req.Filter); err != nil {
		return nil, err
	}
	orderBy := req.OrderBy
	if !orderBy.Valid() {
		orderBy = domain.OrderByTitle
	}
	direction := req.OrderDirection
	if !direction.Valid() {
		direction = domain.OrderAscending
	}
	q := &domain.CompiledQuery{
		ViewKey:        req.ViewKey,
		SearchID:       req.SearchID,
		Text:           strings.TrimSpace(req.Text),
		Filter:         req.Filter.Clone(),
		OrderBy:        orderBy,
		OrderDirection: direction,
		PlaylistID:     req.PlaylistID,
	}
	q.Fingerprint = fingerprint(q)

	s.logger.Debug("compiled query",
		"view", q.ViewKey, "searchId", q.SearchID, "fingerprint", q.Fingerprint)
	return q, nil
}

// validateFilter walks the filter tree rejecting unknown fields and combine
// modes. An empty mode means "and".
func validateFilter(f *domain.Filter) error {
	if f == nil {
		return nil
	}
	switch f.Mode {
	case "", domain.CombineAnd, domain.CombineOr:
	default:
		return fmt.Errorf("%w: unknown combine mode %q", domain.ErrInvalidFilter, f.Mode)
	}
	for _, m := range f.Matches {
		switch m.Field {
		case domain.FieldTitle, domain.FieldDeveloper, domain.FieldPublisher,
			domain.FieldSeries, domain.FieldPlatform, domain.FieldLibrary,
			domain.FieldPlayMode, domain.FieldTag:
		default:
			return fmt.Errorf("%w: unknown field %q", domain.ErrInvalidFilter, m.Field)
		}
		if m.Value == "" {
			return fmt.Errorf("%w: empty value for field %q", domain.ErrInvalidFilter, m.Field)
		}
	}
	for _, sub := range f.Subfilters {
		if err := validateFilter(sub); err != nil {
			return err
		}
	}
	return nil
}

// fingerprint hashes everything that determines a query's result set. The
// view key and search id deliberately stay out: they identify the asker, not
// the question.
func fingerprint(q *domain.CompiledQuery) uint64 {
	var b strings.Builder
	writeField(&b, strings.ToLower(q.Text))
	writeField(&b, string(q.OrderBy))
	writeField(&b, string(q.OrderDirection))
	writeField(&b, q.PlaylistID)
	writeFilter(&b, q.Filter)
	return xxhash.Sum64String(b.String())
}

func writeField(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteString("\x00")
}

func writeFilter(b *strings.Builder, f *domain.Filter) {
	if f == nil {
		return
	}
	writeField(b, "(")
	writeField(b, string(f.Mode))
	writeField(b, strconv.FormatBool(f.Negate))
	for _, m := range f.Matches {
		writeField(b, m.Field)
		writeField(b, strings.ToLower(m.Value))
		writeField(b, strconv.FormatBool(m.Exact))
	}
	for _, sub := range f.Subfilters {
		writeFilter(b, sub)
	}
	writeField(b, ")")
}
