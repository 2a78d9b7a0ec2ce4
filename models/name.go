package models

import "time"

// Name is a leaf record. It is classified under categories through
// NameCategory links; storage does not require at least one link.
type Name struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Name) TableName() string {
	return "names"
}

// NameCategory is the many-to-many join between Name and Category.
type NameCategory struct {
	NameID     uint      `gorm:"primaryKey;autoIncrement:false" json:"name_id"`
	CategoryID uint      `gorm:"primaryKey;autoIncrement:false" json:"category_id"`
	Name       *Name     `gorm:"foreignKey:NameID;constraint:OnDelete:RESTRICT" json:"-"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (nc *NameCategory) TableName() string {
	return "name_categories"
}
