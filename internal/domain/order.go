package domain

import "strings"

// OrderBy selects the field results are ordered on.
type OrderBy string

const (
	OrderByTitle        OrderBy = "title"
	OrderByDeveloper    OrderBy = "developer"
	OrderByPublisher    OrderBy = "publisher"
	OrderBySeries       OrderBy = "series"
	OrderByPlatform     OrderBy = "platform"
	OrderByDateAdded    OrderBy = "dateAdded"
	OrderByDateModified OrderBy = "dateModified"
)

// OrderDirection is the sort direction for an ordered result set.
type OrderDirection string

const (
	OrderAscending  OrderDirection = "ascending"
	OrderDescending OrderDirection = "descending"
)

// Valid reports whether the value is one of the known order fields.
func (o OrderBy) Valid() bool {
	switch o {
	case OrderByTitle, OrderByDeveloper, OrderByPublisher, OrderBySeries,
		OrderByPlatform, OrderByDateAdded, OrderByDateModified:
		return true
	}
	return false
}

// Valid reports whether the value is a known direction.
func (d OrderDirection) Valid() bool {
	return d == OrderAscending || d == OrderDescending
}

// OrderKey returns the game's value for the given order field as a sortable
// string. Date fields use RFC 3339 so lexical order matches chronological.
func (g Game) OrderKey(by OrderBy) string {
	switch by {
	case OrderByDeveloper:
		return strings.ToLower(g.Developer)
	case OrderByPublisher:
		return strings.ToLower(g.Publisher)
	case OrderBySeries:
		return strings.ToLower(g.Series)
	case OrderByPlatform:
		return strings.ToLower(g.Platform)
	case OrderByDateAdded:
		return g.DateAdded.UTC().Format("2006-01-02T15:04:05Z")
	case OrderByDateModified:
		return g.DateModified.UTC().Format("2006-01-02T15:04:05Z")
	default:
		return g.SortTitle()
	}
}

// CompareGames orders two games under the given field and direction.
// Ties fall back to title, then ID, so the ordering is total and stable
// across paged fetches.
func CompareGames(a, b Game, by OrderBy, dir OrderDirection) int {
	cmp := strings.Compare(a.OrderKey(by), b.OrderKey(by))
	if cmp == 0 {
		cmp = strings.Compare(a.SortTitle(), b.SortTitle())
	}
	if cmp == 0 {
		cmp = strings.Compare(a.ID, b.ID)
	}
	if dir == OrderDescending {
		cmp = -cmp
	}
	return cmp
}
