// File: internal/search/filter.go
package search

import (
	"fmt"
	"strings"

	"university_portal_backend/internal/catalog"
)

// Result modes.
const (
	ModeSuggestions = "suggestions"
	ModeResults     = "results"
	ModeEmpty       = "empty"
)

const emptyHint = "Try a different keyword or browse departments"

// Group is one section of matches sharing a kind, in catalog order.
type Group struct {
	Kind     catalog.Kind     `json:"category"`
	Label    string           `json:"label"`
	Entities []catalog.Entity `json:"entities"`
}

// Suggestions are shown instead of results while the query is blank.
type Suggestions struct {
	Recent   []string `json:"recent"`
	Trending []string `json:"trending"`
}

// Result is what the overlay displays for a query.
type Result struct {
	Query        string       `json:"query"`
	Mode         string       `json:"mode"`
	Total        int          `json:"total"`
	Groups       []Group      `json:"groups,omitempty"`
	Suggestions  *Suggestions `json:"suggestions,omitempty"`
	EmptyMessage string       `json:"empty_message,omitempty"`
	EmptyHint    string       `json:"empty_hint,omitempty"`
}

// Matches reports whether query occurs, ignoring case, in the entity's title or subtitle.
func Matches(e catalog.Entity, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Subtitle), q)
}

// Filter scans every entity and keeps the matching ones in their original order.
// The input slice is never modified.
func Filter(entities []catalog.Entity, query string) []catalog.Entity {
	matches := make([]catalog.Entity, 0)
	for _, e := range entities {
		if Matches(e, query) {
			matches = append(matches, e)
		}
	}
	return matches
}

// GroupByKind partitions matches by kind in catalog.KindOrder, omitting empty groups.
// Entities of a kind outside KindOrder are dropped.
func GroupByKind(matches []catalog.Entity) []Group {
	buckets := make(map[catalog.Kind][]catalog.Entity, len(catalog.KindOrder))
	for _, e := range matches {
		buckets[e.Kind] = append(buckets[e.Kind], e)
	}

	groups := make([]Group, 0, len(catalog.KindOrder))
	for _, kind := range catalog.KindOrder {
		if len(buckets[kind]) == 0 {
			continue
		}
		groups = append(groups, Group{Kind: kind, Label: kind.GroupLabel(), Entities: buckets[kind]})
	}
	return groups
}

// IsBlank reports whether the query should show suggestions instead of results.
func IsBlank(query string) bool {
	return strings.TrimSpace(query) == ""
}

// Run evaluates query against the catalog. A blank query yields the suggestion lists;
// otherwise the raw query (surrounding spaces included) is matched.
func Run(cat *catalog.Catalog, query string) Result {
	if IsBlank(query) {
		return Result{
			Query:       query,
			Mode:        ModeSuggestions,
			Suggestions: &Suggestions{Recent: cat.Recent(), Trending: cat.Trending()},
		}
	}

	matches := Filter(cat.Entities(), query)
	if len(matches) == 0 {
		return Result{
			Query:        query,
			Mode:         ModeEmpty,
			EmptyMessage: fmt.Sprintf("No results for \"%s\"", query),
			EmptyHint:    emptyHint,
		}
	}
	return Result{
		Query:  query,
		Mode:   ModeResults,
		Total:  len(matches),
		Groups: GroupByKind(matches),
	}
}
