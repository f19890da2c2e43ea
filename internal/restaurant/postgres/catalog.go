package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const foodColumns = `id, name, COALESCE(description, ''), price::float8, category, COALESCE(image_url, ''), available`

const (
	listCategoriesSQL = `SELECT DISTINCT category FROM foods WHERE available = true ORDER BY category`

	listItemsByCategorySQL = `SELECT ` + foodColumns + ` FROM foods WHERE category = $1 AND available = true ORDER BY name`

	getItemByIDSQL = `SELECT ` + foodColumns + ` FROM foods WHERE id = $1 AND available = true`

	searchItemsByNameSQL = `SELECT ` + foodColumns + ` FROM foods WHERE LOWER(name) LIKE LOWER($1) ESCAPE '\' AND available = true ORDER BY name`

	randomItemSQL = `SELECT ` + foodColumns + ` FROM foods WHERE available = true ORDER BY RANDOM() LIMIT 1`

	searchByTagSQL = `SELECT ` + foodColumns + ` FROM foods
WHERE available = true
AND (LOWER(name) LIKE LOWER($1) ESCAPE '\' OR LOWER(description) LIKE LOWER($1) ESCAPE '\' OR LOWER(category) LIKE LOWER($1) ESCAPE '\')
ORDER BY name
LIMIT 5`

	categoryImageSQL = `SELECT image_url FROM foods WHERE category = $1 AND available = true AND image_url IS NOT NULL LIMIT 1`
)

type Catalog struct {
	db DBTX
}

func NewCatalog(db DBTX) *Catalog {
	return &Catalog{db: db}
}

func (c *Catalog) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := c.db.Query(ctx, listCategoriesSQL)
	if err != nil {
		logx.Error().Err(err).Msg("failed to list categories")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.Name); err != nil {
			return nil, errx.WrapPostgres(err)
		}
		out = append(out, cat)
	}
	return out, errx.WrapPostgres(rows.Err())
}

func (c *Catalog) ListItemsByCategory(ctx context.Context, category string) ([]model.FoodItem, error) {
	return c.queryItems(ctx, listItemsByCategorySQL, category)
}

func (c *Catalog) GetItemByID(ctx context.Context, id int64) (*model.FoodItem, error) {
	item, err := scanFood(c.db.QueryRow(ctx, getItemByIDSQL, id))
	if err != nil {
		if errx.IsNotFound(err) {
			return nil, nil
		}
		logx.Error().Err(err).Int64("food_id", id).Msg("failed to load food item")
		return nil, err
	}
	return &item, nil
}

func (c *Catalog) SearchItemsByName(ctx context.Context, text string) ([]model.FoodItem, error) {
	return c.queryItems(ctx, searchItemsByNameSQL, containsPattern(text))
}

func (c *Catalog) SearchByTag(ctx context.Context, tag string) ([]model.FoodItem, error) {
	if tag == "" || tag == model.RandomTag {
		return c.queryItems(ctx, randomItemSQL)
	}
	return c.queryItems(ctx, searchByTagSQL, containsPattern(tag))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches text literally anywhere in the column.
func containsPattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

func (c *Catalog) CategoryImage(ctx context.Context, category string) (string, error) {
	var url string
	if err := c.db.QueryRow(ctx, categoryImageSQL, category).Scan(&url); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", errx.WrapPostgres(err)
	}
	return url, nil
}

func (c *Catalog) queryItems(ctx context.Context, sql string, args ...any) ([]model.FoodItem, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		logx.Error().Err(err).Msg("failed to query food items")
		return nil, errx.WrapPostgres(err)
	}
	defer rows.Close()

	var out []model.FoodItem
	for rows.Next() {
		item, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, errx.WrapPostgres(rows.Err())
}

func scanFood(row pgx.Row) (model.FoodItem, error) {
	var item model.FoodItem
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.ImageURL, &item.Available)
	if err != nil {
		return model.FoodItem{}, errx.WrapPostgres(err)
	}
	return item, nil
}

var _ model.Catalog = (*Catalog)(nil)
