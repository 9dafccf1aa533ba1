// File: internal/catalog/model.go
package catalog

import (
	"university_portal_backend/internal/common"

	"github.com/lib/pq"
)

// Kind tags a searchable entity. Rendering choices (icon, colour) are looked up from
// the kind at the presentation boundary and never stored with the entity.
type Kind string

const (
	KindCourse  Kind = "Course"
	KindFaculty Kind = "Faculty"
	KindProgram Kind = "Program"
	KindPage    Kind = "Page"
)

// KindOrder is the fixed order in which result groups are presented.
var KindOrder = []Kind{KindCourse, KindFaculty, KindProgram, KindPage}

var groupLabels = map[Kind]string{
	KindCourse:  "Courses",
	KindFaculty: "Faculty",
	KindProgram: "Programs",
	KindPage:    "Pages",
}

// ParseKind reports whether s names a known kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := groupLabels[k]
	return k, ok
}

// GroupLabel is the section heading for results of this kind.
func (k Kind) GroupLabel() string {
	if label, ok := groupLabels[k]; ok {
		return label
	}
	return string(k) + "s"
}

// Entity is an immutable searchable item.
type Entity struct {
	Kind       Kind   `json:"category"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle"`
	TargetLink string `json:"target_link"`
}

// Entry is the stored form of an Entity. Position preserves catalog order.
type Entry struct {
	common.BaseModel
	Slug       string `gorm:"type:varchar(200);not null;uniqueIndex:idx_catalog_entries_slug"`
	Position   int    `gorm:"not null;index"`
	Kind       Kind   `gorm:"type:varchar(20);not null"`
	Title      string `gorm:"type:varchar(200);not null"`
	Subtitle   string `gorm:"type:varchar(300);not null"`
	TargetLink string `gorm:"type:varchar(300);not null"`
}

// TableName specifies the table name for GORM.
func (Entry) TableName() string {
	return "catalog_entries"
}

// ToEntity drops the storage fields.
func (e Entry) ToEntity() Entity {
	return Entity{Kind: e.Kind, Title: e.Title, Subtitle: e.Subtitle, TargetLink: e.TargetLink}
}

// Suggestion list kinds.
const (
	SuggestionsRecent   = "recent"
	SuggestionsTrending = "trending"
)

// SuggestionList is one of the static term lists shown while the query is empty.
type SuggestionList struct {
	common.BaseModel
	ListKind string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_search_suggestions_kind"`
	Terms    pq.StringArray `gorm:"type:text;not null"`
}

// TableName specifies the table name for GORM.
func (SuggestionList) TableName() string {
	return "search_suggestions"
}
