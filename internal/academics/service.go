package academics

import (
	"context"
	"fmt"

	"university_portal_backend/internal/common"
	"university_portal_backend/internal/seed"

	"go.uber.org/zap"
)

// Service seeds and lists degree programs.
type Service interface {
	Seed(ctx context.Context, rows []seed.Program) error
	ListPrograms(ctx context.Context, level Level) ([]Program, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new academics service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Named("academics"),
	}
}

func (s *service) Seed(ctx context.Context, rows []seed.Program) error {
	if err := s.repo.Migrate(ctx); err != nil {
		return err
	}
	programs := make([]Program, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		level, ok := ParseLevel(row.Level)
		if !ok || level == LevelAll {
			return fmt.Errorf("program %d (%q): unknown level %q", row.ID, row.Title, row.Level)
		}
		if row.ID == 0 {
			return fmt.Errorf("program %q has no id", row.Title)
		}
		if _, dup := seen[row.ID]; dup {
			return fmt.Errorf("program id %d is not unique", row.ID)
		}
		seen[row.ID] = struct{}{}

		p := Program{
			Level:      level,
			Title:      row.Title,
			Department: row.Department,
			Duration:   row.Duration,
			Credits:    row.Credits,
			Popular:    row.Popular,
		}
		p.ID = row.ID
		programs = append(programs, p)
	}
	if err := s.repo.Upsert(ctx, programs); err != nil {
		s.logger.Error("Failed to seed programs", zap.Error(err))
		return err
	}
	s.logger.Info("Programs seeded", zap.Int("count", len(programs)))
	return nil
}

func (s *service) ListPrograms(ctx context.Context, level Level) ([]Program, error) {
	if _, ok := ParseLevel(string(level)); !ok {
		return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unknown program level %q.", level))
	}
	programs, err := s.repo.FindByLevel(ctx, level)
	if err != nil {
		s.logger.Error("Failed to list programs", zap.String("level", string(level)), zap.Error(err))
		return nil, err
	}
	return programs, nil
}
