package academics

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines storage operations for degree programs.
type Repository interface {
	Migrate(ctx context.Context) error
	Upsert(ctx context.Context, programs []Program) error
	FindByLevel(ctx context.Context, level Level) ([]Program, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM program repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&Program{}); err != nil {
		return fmt.Errorf("migrating programs table: %w", err)
	}
	return nil
}

func (r *gormRepository) Upsert(ctx context.Context, programs []Program) error {
	if len(programs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"level", "title", "department", "duration", "credits", "popular", "updated_at"}),
	}).Create(&programs).Error
	if err != nil {
		return fmt.Errorf("upserting programs: %w", err)
	}
	return nil
}

// FindByLevel returns programs ordered by id; LevelAll returns every program.
func (r *gormRepository) FindByLevel(ctx context.Context, level Level) ([]Program, error) {
	query := r.db.WithContext(ctx).Order("id ASC")
	if level != LevelAll {
		query = query.Where("level = ?", level)
	}
	var programs []Program
	if err := query.Find(&programs).Error; err != nil {
		return nil, fmt.Errorf("fetching programs: %w", err)
	}
	return programs, nil
}
