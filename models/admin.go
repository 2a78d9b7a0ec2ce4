package models

import "time"

// Admin is a user allowed to modify the catalog.
type Admin struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (a *Admin) TableName() string {
	return "admins"
}
