package catalog

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"university_portal_backend/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	repo    Repository
	service Service
	data    *seed.Data
}

func (s *CatalogServiceTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(s.T().Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	s.Require().NoError(err)
	s.db = db

	s.repo = NewGORMRepository(db)
	s.service = NewService(s.repo, zap.NewNop())

	data, err := seed.Load()
	s.Require().NoError(err)
	s.data = data
}

func (s *CatalogServiceTestSuite) TearDownTest() {
	sqlDB, err := s.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (s *CatalogServiceTestSuite) TestSeedThenLoad_PreservesOrder() {
	ctx := context.Background()
	s.Require().NoError(s.service.Seed(ctx, s.data))

	cat, err := s.service.Load(ctx)
	s.Require().NoError(err)

	s.Equal(len(s.data.Catalog), cat.Len())
	for i, row := range s.data.Catalog {
		s.Equal(row.Title, cat.Entities()[i].Title, "position %d", i)
	}
	s.Equal(s.data.Suggestions.Recent, cat.Recent())
	s.Equal(s.data.Suggestions.Trending, cat.Trending())
}

func (s *CatalogServiceTestSuite) TestSeed_IsRepeatableAndDropsStaleRows() {
	ctx := context.Background()
	s.Require().NoError(s.service.Seed(ctx, s.data))

	trimmed := *s.data
	trimmed.Catalog = s.data.Catalog[:3]
	trimmed.Suggestions = seed.Suggestions{Recent: []string{"CS 101"}, Trending: []string{"Finals"}}
	s.Require().NoError(s.service.Seed(ctx, &trimmed))

	cat, err := s.service.Load(ctx)
	s.Require().NoError(err)
	s.Equal(3, cat.Len())
	s.Equal([]string{"CS 101"}, cat.Recent())
	s.Equal([]string{"Finals"}, cat.Trending())
}

func (s *CatalogServiceTestSuite) TestLoad_WithoutSuggestionsFails() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Migrate(ctx))

	_, err := s.service.Load(ctx)
	s.Error(err)
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func TestEntriesFromSeed(t *testing.T) {
	entries, err := EntriesFromSeed([]seed.CatalogEntry{
		{Kind: "Course", Title: "Calculus III", Subtitle: "MATH 301", Link: "#"},
		{Kind: "Page", Title: "Campus Map", Subtitle: "Navigate our campus", Link: "#"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "course-calculus-iii", entries[0].Slug)
	assert.Equal(t, 1, entries[1].Position)
	assert.Equal(t, KindPage, entries[1].Kind)
}

func TestEntriesFromSeed_Rejects(t *testing.T) {
	_, err := EntriesFromSeed([]seed.CatalogEntry{{Kind: "Building", Title: "Library"}})
	assert.ErrorContains(t, err, "unknown kind")

	_, err = EntriesFromSeed([]seed.CatalogEntry{
		{Kind: "Page", Title: "Admissions"},
		{Kind: "Page", Title: "admissions"},
	})
	assert.ErrorContains(t, err, "share slug")
}

func TestKind_GroupLabel(t *testing.T) {
	assert.Equal(t, "Courses", KindCourse.GroupLabel())
	assert.Equal(t, "Faculty", KindFaculty.GroupLabel())
	assert.Equal(t, "Programs", KindProgram.GroupLabel())
	assert.Equal(t, "Pages", KindPage.GroupLabel())

	_, ok := ParseKind("course")
	assert.False(t, ok, "kinds are case sensitive")
}

func TestNewCatalog_CopiesInputs(t *testing.T) {
	recent := []string{"a"}
	cat := NewCatalog(nil, recent, nil)
	recent[0] = "b"
	assert.Equal(t, []string{"a"}, cat.Recent())
}
