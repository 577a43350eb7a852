package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed seed_foods.json
var seedFoodsJSON []byte

// SeedItems parses and validates the embedded starter catalog.
func SeedItems() ([]FoodItem, error) {
	var items []FoodItem
	if err := json.Unmarshal(seedFoodsJSON, &items); err != nil {
		return nil, fmt.Errorf("failed to parse embedded seed catalog: %w", err)
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("invalid seed record: %w", err)
		}
	}
	return items, nil
}

// SeedDefaults inserts the embedded starter catalog when the repository is
// empty. It returns the number of items inserted.
func (r *Repository) SeedDefaults(ctx context.Context) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	items, err := SeedItems()
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if err := r.Save(ctx, item); err != nil {
			return 0, fmt.Errorf("failed to seed catalog: %w", err)
		}
	}
	return len(items), nil
}
