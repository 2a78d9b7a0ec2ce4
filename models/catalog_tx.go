package models

import (
	"context"
	"fmt"
	"hash/fnv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// catalogLockKey identifies the transaction-scoped advisory lock that
// serializes bulk writes to the hierarchy on postgres.
var catalogLockKey = advisoryKey("awil:catalog-import")

// CatalogTx exposes the natural-key upserts used by bulk imports. It is
// only valid inside CatalogRepository.Transaction.
type CatalogTx struct {
	db *gorm.DB
}

// Transaction runs fn in a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (r *CatalogRepository) Transaction(ctx context.Context, fn func(tx *CatalogTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&CatalogTx{db: db})
	})
}

// LockCatalog blocks until no other transaction holds the catalog lock.
// The lock is released on commit or rollback. Dialects without advisory
// locks rely on their own write serialization.
func (tx *CatalogTx) LockCatalog() error {
	if tx.db.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.db.Exec("SELECT pg_advisory_xact_lock(?)", catalogLockKey).Error
}

func (tx *CatalogTx) UpsertTheme(name string) (uint, error) {
	theme := Theme{Name: name}
	if err := tx.upsert(&theme, "name"); err != nil {
		return 0, fmt.Errorf("upsert theme %q: %w", name, err)
	}
	if theme.ID == 0 {
		if err := tx.db.Where("name = ?", name).Take(&theme).Error; err != nil {
			return 0, fmt.Errorf("resolve theme %q: %w", name, err)
		}
	}
	return theme.ID, nil
}

func (tx *CatalogTx) UpsertSubtheme(themeID uint, name string) (uint, error) {
	subtheme := Subtheme{ThemeID: themeID, Name: name}
	if err := tx.upsert(&subtheme, "name", "theme_id"); err != nil {
		return 0, fmt.Errorf("upsert subtheme %q: %w", name, err)
	}
	if subtheme.ID == 0 {
		if err := tx.db.Where("name = ? AND theme_id = ?", name, themeID).Take(&subtheme).Error; err != nil {
			return 0, fmt.Errorf("resolve subtheme %q: %w", name, err)
		}
	}
	return subtheme.ID, nil
}

func (tx *CatalogTx) UpsertCategory(subthemeID uint, name string) (uint, error) {
	category := Category{SubthemeID: subthemeID, Name: name}
	if err := tx.upsert(&category, "name", "subtheme_id"); err != nil {
		return 0, fmt.Errorf("upsert category %q: %w", name, err)
	}
	if category.ID == 0 {
		if err := tx.db.Where("name = ? AND subtheme_id = ?", name, subthemeID).Take(&category).Error; err != nil {
			return 0, fmt.Errorf("resolve category %q: %w", name, err)
		}
	}
	return category.ID, nil
}

func (tx *CatalogTx) UpsertName(name string) (uint, error) {
	row := Name{Name: name}
	if err := tx.upsert(&row, "name"); err != nil {
		return 0, fmt.Errorf("upsert name %q: %w", name, err)
	}
	if row.ID == 0 {
		if err := tx.db.Where("name = ?", name).Take(&row).Error; err != nil {
			return 0, fmt.Errorf("resolve name %q: %w", name, err)
		}
	}
	return row.ID, nil
}

// LinkNameCategory inserts the link unless it already exists.
func (tx *CatalogTx) LinkNameCategory(nameID, categoryID uint) error {
	link := NameCategory{NameID: nameID, CategoryID: categoryID}
	err := tx.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name_id"}, {Name: "category_id"}},
			DoNothing: true,
		}).
		Omit(clause.Associations).
		Create(&link).Error
	if err != nil {
		return fmt.Errorf("link name %d to category %d: %w", nameID, categoryID, err)
	}
	return nil
}

// upsert inserts value or, when the natural key already exists, rewrites
// the name column in place so the existing id comes back via RETURNING.
func (tx *CatalogTx) upsert(value any, keyColumns ...string) error {
	columns := make([]clause.Column, len(keyColumns))
	for i, name := range keyColumns {
		columns[i] = clause.Column{Name: name}
	}
	return tx.db.
		Clauses(clause.OnConflict{
			Columns:   columns,
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).
		Omit(clause.Associations).
		Create(value).Error
}

func advisoryKey(namespace string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(namespace))
	return int64(h.Sum64())
}
