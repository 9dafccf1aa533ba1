package academics

import (
	"university_portal_backend/internal/common"
)

// Level is a program's study track. LevelAll is only a filter value.
type Level string

const (
	LevelAll           Level = "all"
	LevelUndergraduate Level = "undergraduate"
	LevelGraduate      Level = "graduate"
	LevelOnline        Level = "online"
)

// Filter is one button of the program filter bar.
type Filter struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
}

// Filters lists the program filters in display order.
var Filters = []Filter{
	{LevelAll, "All Programs"},
	{LevelUndergraduate, "Undergraduate"},
	{LevelGraduate, "Graduate"},
	{LevelOnline, "Online"},
}

// ParseLevel accepts any filter value, including "all".
func ParseLevel(s string) (Level, bool) {
	for _, f := range Filters {
		if string(f.Level) == s {
			return f.Level, true
		}
	}
	return "", false
}

// Program is a degree program offered by the university.
type Program struct {
	common.BaseModel
	Level      Level  `gorm:"type:varchar(20);not null;index" json:"level"`
	Title      string `gorm:"type:varchar(200);not null" json:"title"`
	Department string `gorm:"type:varchar(120);not null" json:"department"`
	Duration   string `gorm:"type:varchar(40);not null" json:"duration"`
	Credits    int    `gorm:"not null" json:"credits"`
	Popular    bool   `gorm:"not null;default:false" json:"popular"`
}

// TableName specifies the table name for GORM.
func (Program) TableName() string {
	return "programs"
}

// ProgramResponse is the API form of a Program.
type ProgramResponse struct {
	ID         uint   `json:"id"`
	Level      Level  `json:"level"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Duration   string `json:"duration"`
	Credits    int    `json:"credits"`
	Popular    bool   `json:"popular"`
}

func ToProgramResponse(p Program) ProgramResponse {
	return ProgramResponse{
		ID:         p.ID,
		Level:      p.Level,
		Title:      p.Title,
		Department: p.Department,
		Duration:   p.Duration,
		Credits:    p.Credits,
		Popular:    p.Popular,
	}
}

// ProgramListResponse is what the academics page renders.
type ProgramListResponse struct {
	Filters  []Filter          `json:"filters"`
	Active   Level             `json:"active"`
	Programs []ProgramResponse `json:"programs"`
}
