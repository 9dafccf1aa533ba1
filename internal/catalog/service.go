// File: internal/catalog/service.go
package catalog

import (
	"context"
	"fmt"

	"university_portal_backend/internal/seed"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Catalog is the fixed set of searchable entities plus the suggestion lists shown
// for an empty query. It is built once at startup and never mutated.
type Catalog struct {
	entities []Entity
	recent   []string
	trending []string
}

// NewCatalog copies its inputs so later changes by the caller cannot leak in.
func NewCatalog(entities []Entity, recent, trending []string) *Catalog {
	return &Catalog{
		entities: append([]Entity(nil), entities...),
		recent:   append([]string(nil), recent...),
		trending: append([]string(nil), trending...),
	}
}

// Entities returns the catalog in catalog order. The slice is shared; do not modify it.
func (c *Catalog) Entities() []Entity { return c.entities }

// Recent returns the recent-search suggestions.
func (c *Catalog) Recent() []string { return append([]string(nil), c.recent...) }

// Trending returns the trending-term suggestions.
func (c *Catalog) Trending() []string { return append([]string(nil), c.trending...) }

// Len is the number of entities.
func (c *Catalog) Len() int { return len(c.entities) }

// Service seeds the catalog tables and loads the immutable Catalog from them.
type Service interface {
	Seed(ctx context.Context, data *seed.Data) error
	Load(ctx context.Context) (*Catalog, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("catalog"),
	}
}

func (s *service) Seed(ctx context.Context, data *seed.Data) error {
	if err := s.repo.Migrate(ctx); err != nil {
		return err
	}

	entries, err := EntriesFromSeed(data.Catalog)
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceEntries(ctx, entries); err != nil {
		s.logger.Error("Failed to seed catalog entries", zap.Error(err))
		return err
	}

	lists := []SuggestionList{
		{ListKind: SuggestionsRecent, Terms: data.Suggestions.Recent},
		{ListKind: SuggestionsTrending, Terms: data.Suggestions.Trending},
	}
	if err := s.repo.ReplaceSuggestions(ctx, lists); err != nil {
		s.logger.Error("Failed to seed search suggestions", zap.Error(err))
		return err
	}

	s.logger.Info("Catalog seeded", zap.Int("entries", len(entries)))
	return nil
}

func (s *service) Load(ctx context.Context) (*Catalog, error) {
	entries, err := s.repo.FindAllEntries(ctx)
	if err != nil {
		return nil, err
	}
	entities := make([]Entity, len(entries))
	for i, e := range entries {
		entities[i] = e.ToEntity()
	}

	recent, err := s.repo.FindSuggestions(ctx, SuggestionsRecent)
	if err != nil {
		return nil, err
	}
	trending, err := s.repo.FindSuggestions(ctx, SuggestionsTrending)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Catalog loaded",
		zap.Int("entities", len(entities)),
		zap.Int("recent", len(recent.Terms)),
		zap.Int("trending", len(trending.Terms)),
	)
	return NewCatalog(entities, recent.Terms, trending.Terms), nil
}

// EntriesFromSeed validates seed rows and assigns slugs and positions.
func EntriesFromSeed(rows []seed.CatalogEntry) ([]Entry, error) {
	entries := make([]Entry, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for i, row := range rows {
		kind, ok := ParseKind(row.Kind)
		if !ok {
			return nil, fmt.Errorf("catalog entry %d (%q): unknown kind %q", i, row.Title, row.Kind)
		}
		key := slug.Make(string(kind) + " " + row.Title)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("catalog entries %d and %d share slug %q", prev, i, key)
		}
		seen[key] = i
		entries = append(entries, Entry{
			Slug:       key,
			Position:   i,
			Kind:       kind,
			Title:      row.Title,
			Subtitle:   row.Subtitle,
			TargetLink: row.Link,
		})
	}
	return entries, nil
}
