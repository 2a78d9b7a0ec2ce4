package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

var (
	// ErrNotFound is returned when a catalog record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a natural key is already taken.
	ErrDuplicate = errors.New("record already exists")
	// ErrInvalidReference is returned when a parent or linked record is missing.
	ErrInvalidReference = errors.New("referenced record does not exist")
)

// Snapshot is every row of the catalog, ordered by identity.
type Snapshot struct {
	Themes         []Theme        `json:"themes"`
	Subthemes      []Subtheme     `json:"subthemes"`
	Categories     []Category     `json:"categories"`
	Names          []Name         `json:"names"`
	NameCategories []NameCategory `json:"nameCategories"`
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{
		db: db,
	}
}

func (r *CatalogRepository) ListThemes(ctx context.Context, offset, limit int) ([]Theme, int64, error) {
	var themes []Theme
	var total int64

	query := r.db.WithContext(ctx).Model(&Theme{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("id").Offset(offset).Limit(limit).Find(&themes).Error; err != nil {
		return nil, 0, err
	}

	return themes, total, nil
}

func (r *CatalogRepository) ListSubthemes(ctx context.Context, themeID uint) ([]Subtheme, error) {
	subthemes := []Subtheme{}
	if err := r.db.WithContext(ctx).
		Where("theme_id = ?", themeID).
		Order("id").
		Find(&subthemes).Error; err != nil {
		return nil, err
	}
	return subthemes, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context, subthemeID uint) ([]Category, error) {
	categories := []Category{}
	if err := r.db.WithContext(ctx).
		Where("subtheme_id = ?", subthemeID).
		Order("id").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// RandomName draws one name linked to the category.
func (r *CatalogRepository) RandomName(ctx context.Context, categoryID uint) (*Name, error) {
	var name Name
	if err := r.db.WithContext(ctx).
		Joins("JOIN name_categories ON name_categories.name_id = names.id").
		Where("name_categories.category_id = ?", categoryID).
		Order("RANDOM()").
		Take(&name).Error; err != nil {
		return nil, translateError(err)
	}
	return &name, nil
}

func (r *CatalogRepository) GetAll(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{
		Themes:         []Theme{},
		Subthemes:      []Subtheme{},
		Categories:     []Category{},
		Names:          []Name{},
		NameCategories: []NameCategory{},
	}
	db := r.db.WithContext(ctx)
	if err := db.Order("id").Find(&snapshot.Themes).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snapshot.Subthemes).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snapshot.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snapshot.Names).Error; err != nil {
		return nil, err
	}
	if err := db.Order("name_id, category_id").Find(&snapshot.NameCategories).Error; err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *CatalogRepository) CreateTheme(ctx context.Context, theme *Theme) error {
	return translateError(r.db.WithContext(ctx).Create(theme).Error)
}

func (r *CatalogRepository) CreateSubtheme(ctx context.Context, subtheme *Subtheme) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Theme{}, subtheme.ThemeID); err != nil {
			return err
		}
		return translateError(tx.Omit("Theme").Create(subtheme).Error)
	})
}

func (r *CatalogRepository) CreateCategory(ctx context.Context, category *Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Subtheme{}, category.SubthemeID); err != nil {
			return err
		}
		return translateError(tx.Omit("Subtheme").Create(category).Error)
	})
}

// CreateName inserts the name and links it to every category in one
// transaction. Duplicate category ids are linked once.
func (r *CatalogRepository) CreateName(ctx context.Context, name *Name, categoryIDs []uint) error {
	ids := uniqueIDs(categoryIDs)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) > 0 {
			var found int64
			if err := tx.Model(&Category{}).Where("id IN ?", ids).Count(&found).Error; err != nil {
				return err
			}
			if found != int64(len(ids)) {
				return ErrInvalidReference
			}
		}

		if err := tx.Create(name).Error; err != nil {
			return translateError(err)
		}

		for _, categoryID := range ids {
			link := NameCategory{NameID: name.ID, CategoryID: categoryID}
			if err := tx.Omit("Name", "Category").Create(&link).Error; err != nil {
				return translateError(err)
			}
		}
		return nil
	})
}

// DeleteName removes the name together with its category links.
func (r *CatalogRepository) DeleteName(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireRow(tx, &Name{}, id); err != nil {
			if errors.Is(err, ErrInvalidReference) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("name_id = ?", id).Delete(&NameCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Name{}, id).Error
	})
}

// Ping checks that the underlying connection is alive.
func (r *CatalogRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func requireRow(tx *gorm.DB, model any, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	}
	return err
}
