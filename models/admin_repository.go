package models

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// GetByUsername returns ErrNotFound when no admin has that username.
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	if err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Take(&admin).Error; err != nil {
		return nil, translateError(err)
	}
	return &admin, nil
}

// SavePasswordHash creates the admin or replaces its password hash.
func (r *AdminRepository) SavePasswordHash(ctx context.Context, username, hash string) error {
	admin := Admin{Username: username, PasswordHash: hash}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash"}),
		}).
		Create(&admin).Error
}
