// File: internal/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"university_portal_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines storage operations for the search catalog and suggestion lists.
type Repository interface {
	Migrate(ctx context.Context) error
	ReplaceEntries(ctx context.Context, entries []Entry) error
	FindAllEntries(ctx context.Context) ([]Entry, error)
	ReplaceSuggestions(ctx context.Context, lists []SuggestionList) error
	FindSuggestions(ctx context.Context, listKind string) (*SuggestionList, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM catalog repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Entry{}, &SuggestionList{}); err != nil {
		return fmt.Errorf("migrating catalog tables: %w", err)
	}
	return nil
}

// ReplaceEntries upserts entries by slug and removes rows whose slug is no longer listed.
func (r *gormRepository) ReplaceEntries(ctx context.Context, entries []Entry) error {
	slugs := make([]string, len(entries))
	for i := range entries {
		slugs[i] = entries[i].Slug
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(entries) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"position", "kind", "title", "subtitle", "target_link", "updated_at"}),
			}).Create(&entries).Error
			if err != nil {
				return fmt.Errorf("upserting catalog entries: %w", err)
			}
		}

		stale := tx.Model(&Entry{})
		if len(slugs) > 0 {
			stale = stale.Where("slug NOT IN ?", slugs)
		} else {
			stale = stale.Where("1 = 1")
		}
		if err := stale.Delete(&Entry{}).Error; err != nil {
			return fmt.Errorf("removing stale catalog entries: %w", err)
		}
		return nil
	})
}

func (r *gormRepository) FindAllEntries(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("fetching catalog entries: %w", err)
	}
	return entries, nil
}

func (r *gormRepository) ReplaceSuggestions(ctx context.Context, lists []SuggestionList) error {
	if len(lists) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "list_kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"terms", "updated_at"}),
	}).Create(&lists).Error
	if err != nil {
		return fmt.Errorf("upserting search suggestions: %w", err)
	}
	return nil
}

func (r *gormRepository) FindSuggestions(ctx context.Context, listKind string) (*SuggestionList, error) {
	var list SuggestionList
	err := r.db.WithContext(ctx).Where("list_kind = ?", listKind).First(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails(fmt.Sprintf("Suggestion list %q not found.", listKind))
		}
		return nil, fmt.Errorf("fetching suggestion list %s: %w", listKind, err)
	}
	return &list, nil
}
