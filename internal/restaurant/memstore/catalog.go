package memstore

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

//go:embed menu.yaml
var defaultMenu []byte

const maxTagMatches = 5

type menuFile struct {
	Items []model.FoodItem `yaml:"items"`
}

// Catalog serves a fixed menu from memory, ordered by name.
type Catalog struct {
	items []model.FoodItem
	pick  func(n int) int
}

// NewDefaultCatalog loads the embedded menu.
func NewDefaultCatalog() (*Catalog, error) {
	return LoadCatalog(defaultMenu)
}

// LoadCatalog parses a YAML menu document with a top-level items list.
func LoadCatalog(doc []byte) (*Catalog, error) {
	var f menuFile
	if err := yaml.Unmarshal(doc, &f); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	seen := make(map[int64]bool, len(f.Items))
	for _, it := range f.Items {
		if it.ID <= 0 || it.Name == "" || it.Category == "" {
			return nil, fmt.Errorf("menu item %d: id, name and category are required", it.ID)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("menu item %d: duplicate id", it.ID)
		}
		seen[it.ID] = true
	}
	items := append([]model.FoodItem{}, f.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return &Catalog{items: items, pick: rand.IntN}, nil
}

func (c *Catalog) available() []model.FoodItem {
	out := make([]model.FoodItem, 0, len(c.items))
	for _, it := range c.items {
		if it.Available {
			out = append(out, it)
		}
	}
	return out
}

func (c *Catalog) ListCategories(context.Context) ([]model.Category, error) {
	seen := map[string]bool{}
	var out []model.Category
	for _, it := range c.available() {
		if !seen[it.Category] {
			seen[it.Category] = true
			out = append(out, model.Category{Name: it.Category})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *Catalog) ListItemsByCategory(_ context.Context, category string) ([]model.FoodItem, error) {
	var out []model.FoodItem
	for _, it := range c.available() {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *Catalog) GetItemByID(_ context.Context, id int64) (*model.FoodItem, error) {
	for _, it := range c.available() {
		if it.ID == id {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (c *Catalog) SearchItemsByName(_ context.Context, text string) ([]model.FoodItem, error) {
	needle := strings.ToLower(text)
	var out []model.FoodItem
	for _, it := range c.available() {
		if strings.Contains(strings.ToLower(it.Name), needle) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (c *Catalog) SearchByTag(_ context.Context, tag string) ([]model.FoodItem, error) {
	avail := c.available()
	if tag == "" || tag == model.RandomTag {
		if len(avail) == 0 {
			return nil, nil
		}
		return []model.FoodItem{avail[c.pick(len(avail))]}, nil
	}
	needle := strings.ToLower(tag)
	var out []model.FoodItem
	for _, it := range avail {
		if strings.Contains(strings.ToLower(it.Name), needle) ||
			strings.Contains(strings.ToLower(it.Description), needle) ||
			strings.Contains(strings.ToLower(it.Category), needle) {
			out = append(out, it)
			if len(out) == maxTagMatches {
				break
			}
		}
	}
	return out, nil
}

func (c *Catalog) CategoryImage(_ context.Context, category string) (string, error) {
	for _, it := range c.available() {
		if it.Category == category && it.ImageURL != "" {
			return it.ImageURL, nil
		}
	}
	return "", nil
}

func (c *Catalog) priceOf(id int64) float64 {
	for _, it := range c.items {
		if it.ID == id {
			return it.Price
		}
	}
	return 0
}

var _ model.Catalog = (*Catalog)(nil)
