package importer

import (
	"context"

	"github.com/danielk69/AWIL/models"
)

// Store runs fn inside one transaction: committed when fn returns nil,
// rolled back otherwise.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of writes an import performs. Upserts insert the row when
// its natural key is new and return the existing id otherwise.
type Tx interface {
	LockCatalog() error
	UpsertTheme(name string) (uint, error)
	UpsertSubtheme(themeID uint, name string) (uint, error)
	UpsertCategory(subthemeID uint, name string) (uint, error)
	UpsertName(name string) (uint, error)
	LinkNameCategory(nameID, categoryID uint) error
}

// NewStore adapts the catalog repository to Store.
func NewStore(repo *models.CatalogRepository) Store {
	return repositoryStore{repo: repo}
}

type repositoryStore struct {
	repo *models.CatalogRepository
}

func (s repositoryStore) RunInTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.repo.Transaction(ctx, func(tx *models.CatalogTx) error {
		return fn(tx)
	})
}
