package models

import (
	"regexp"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var hexColorPattern = regexp.MustCompile(`^#[a-fA-F0-9]{6}$`)

// Tag is read-only through the API; rows come from seeding or admin tools.
type Tag struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `gorm:"size:200;not null;uniqueIndex" json:"name"`
	Color string    `gorm:"size:7;not null;uniqueIndex" json:"color"`
	Slug  string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// ValidColor reports whether a color value is a #RRGGBB hex code.
func ValidColor(color string) bool {
	return hexColorPattern.MatchString(color)
}
