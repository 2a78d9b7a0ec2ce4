package models

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Distribution is the number of distinct names reachable below one node,
// and that count's share of the sum over all sibling nodes, in percent.
type Distribution struct {
	ID        uint            `json:"id"`
	Label     string          `json:"label"`
	NameCount int64           `json:"name_count"`
	Share     decimal.Decimal `json:"share"`
}

var hundred = decimal.NewFromInt(100)

// ThemeDistribution counts distinct names per theme.
func (r *CatalogRepository) ThemeDistribution(ctx context.Context) ([]Distribution, error) {
	var rows []Distribution
	if err := r.db.WithContext(ctx).
		Model(&Theme{}).
		Select("themes.id AS id, themes.name AS label, COUNT(DISTINCT name_categories.name_id) AS name_count").
		Joins("LEFT JOIN subthemes ON subthemes.theme_id = themes.id").
		Joins("LEFT JOIN categories ON categories.subtheme_id = subthemes.id").
		Joins("LEFT JOIN name_categories ON name_categories.category_id = categories.id").
		Group("themes.id, themes.name").
		Order("themes.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return withShares(rows), nil
}

// SubthemeDistribution counts distinct names per subtheme of one theme.
func (r *CatalogRepository) SubthemeDistribution(ctx context.Context, themeID uint) ([]Distribution, error) {
	if err := requireRow(r.db.WithContext(ctx), &Theme{}, themeID); err != nil {
		if errors.Is(err, ErrInvalidReference) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rows []Distribution
	if err := r.db.WithContext(ctx).
		Model(&Subtheme{}).
		Select("subthemes.id AS id, subthemes.name AS label, COUNT(DISTINCT name_categories.name_id) AS name_count").
		Joins("LEFT JOIN categories ON categories.subtheme_id = subthemes.id").
		Joins("LEFT JOIN name_categories ON name_categories.category_id = categories.id").
		Where("subthemes.theme_id = ?", themeID).
		Group("subthemes.id, subthemes.name").
		Order("subthemes.id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return withShares(rows), nil
}

func withShares(rows []Distribution) []Distribution {
	if rows == nil {
		return []Distribution{}
	}
	var total int64
	for _, row := range rows {
		total += row.NameCount
	}
	for i := range rows {
		if total == 0 {
			rows[i].Share = decimal.Zero
			continue
		}
		rows[i].Share = decimal.NewFromInt(rows[i].NameCount).
			Mul(hundred).
			DivRound(decimal.NewFromInt(total), 2)
	}
	return rows
}
