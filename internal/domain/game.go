package domain

import (
	"strings"
	"time"
)

// Game represents a single catalog entry.
type Game struct {
	ID              string    // Stable unique identifier
	Title           string    // Display title
	AlternateTitles string    // Semicolon-separated alternate titles
	Series          string    // Series name, empty if standalone
	Developer       string    // Primary developer
	Publisher       string    // Primary publisher
	Platform        string    // Original platform (e.g. "Flash", "HTML5")
	PlayMode        string    // "Single Player", "Multiplayer", ...
	Library         string    // Owning library route (e.g. "arcade", "theatre")
	Language        string    // ISO language codes, semicolon-separated
	Tags            []string  // Genre/content tags
	Description     string    // Original description text
	DateAdded       time.Time // When the entry was added to the catalog
	DateModified    time.Time // Last metadata change
}

// SortTitle returns the title used for alphabetical ordering.
// Leading articles are not stripped; the catalog curates titles upstream.
func (g Game) SortTitle() string {
	return strings.ToLower(g.Title)
}

// HasTag reports whether the game carries the given tag (case-insensitive).
func (g Game) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// TagLine returns the tags joined for display.
func (g Game) TagLine() string {
	return strings.Join(g.Tags, "; ")
}
