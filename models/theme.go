package models

import "time"

// Theme is the root of the catalog hierarchy.
type Theme struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Theme) TableName() string {
	return "themes"
}

// Subtheme belongs to exactly one Theme.
// The (name, theme_id) pair is unique.
type Subtheme struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ThemeID   uint      `gorm:"not null;uniqueIndex:idx_subthemes_name_theme,priority:2" json:"theme_id"`
	Theme     *Theme    `gorm:"foreignKey:ThemeID;constraint:OnDelete:RESTRICT" json:"-"`
	Name      string    `gorm:"not null;uniqueIndex:idx_subthemes_name_theme,priority:1" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Subtheme) TableName() string {
	return "subthemes"
}
