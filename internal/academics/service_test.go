package academics

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"university_portal_backend/internal/common"
	"university_portal_backend/internal/seed"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type AcademicsServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service Service
	rows    []seed.Program
}

func (s *AcademicsServiceTestSuite) SetupTest() {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(s.T().Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	s.Require().NoError(err)
	s.db = db
	s.service = NewService(NewGORMRepository(db), zap.NewNop())

	data, err := seed.Load()
	s.Require().NoError(err)
	s.rows = data.Programs
	s.Require().NoError(s.service.Seed(context.Background(), s.rows))
}

func (s *AcademicsServiceTestSuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *AcademicsServiceTestSuite) TestAllReturnsEveryProgramInOrder() {
	programs, err := s.service.ListPrograms(context.Background(), LevelAll)
	s.Require().NoError(err)
	s.Require().Len(programs, len(s.rows))
	for i, row := range s.rows {
		s.Equal(row.ID, programs[i].ID)
		s.Equal(row.Title, programs[i].Title)
	}
}

func (s *AcademicsServiceTestSuite) TestFilterByLevel() {
	cases := map[Level]int{LevelUndergraduate: 4, LevelGraduate: 3, LevelOnline: 2}
	for level, want := range cases {
		programs, err := s.service.ListPrograms(context.Background(), level)
		s.Require().NoError(err)
		s.Len(programs, want, string(level))
		for _, p := range programs {
			s.Equal(level, p.Level)
		}
	}
}

func (s *AcademicsServiceTestSuite) TestUnknownLevel() {
	_, err := s.service.ListPrograms(context.Background(), Level("doctoral"))
	apiErr, ok := common.IsAPIError(err)
	s.Require().True(ok)
	s.Equal(400, apiErr.StatusCode)
}

func (s *AcademicsServiceTestSuite) TestSeedIsRepeatable() {
	s.Require().NoError(s.service.Seed(context.Background(), s.rows))
	programs, err := s.service.ListPrograms(context.Background(), LevelAll)
	s.Require().NoError(err)
	s.Len(programs, len(s.rows))
}

func (s *AcademicsServiceTestSuite) TestSeedRejectsBadRows() {
	ctx := context.Background()
	s.Error(s.service.Seed(ctx, []seed.Program{{ID: 1, Level: "all", Title: "X"}}))
	s.Error(s.service.Seed(ctx, []seed.Program{{ID: 0, Level: "online", Title: "X"}}))
	s.Error(s.service.Seed(ctx, []seed.Program{{ID: 1, Level: "online"}, {ID: 1, Level: "graduate"}}))
}

func TestAcademicsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AcademicsServiceTestSuite))
}
