package models

import "time"

// Category is the third level of the hierarchy.
// The (name, subtheme_id) pair is unique.
type Category struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SubthemeID uint      `gorm:"not null;uniqueIndex:idx_categories_name_subtheme,priority:2" json:"subtheme_id"`
	Subtheme   *Subtheme `gorm:"foreignKey:SubthemeID;constraint:OnDelete:RESTRICT" json:"-"`
	Name       string    `gorm:"not null;uniqueIndex:idx_categories_name_subtheme,priority:1" json:"name"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Category) TableName() string {
	return "categories"
}
