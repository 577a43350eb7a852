package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Repository is a database-backed store for food items. The planner only
// ever reads from it; writes happen through seeding and admin tooling.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or replaces a food item. The item is validated first so that
// malformed records never reach the catalog.
func (r *Repository) Save(ctx context.Context, item FoodItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("invalid food item: %w", err)
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal food item %d: %w", item.ID, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO food_items (id, data, updated_at) VALUES (?, ?, ?)`,
		item.ID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert food item %d: %w", item.ID, err)
	}
	return nil
}

// Get retrieves a food item by its ID. Returns nil when not found.
func (r *Repository) Get(ctx context.Context, id int64) (*FoodItem, error) {
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM food_items WHERE id = ?`, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get food item %d: %w", id, err)
	}

	var item FoodItem
	if err := json.Unmarshal([]byte(data), &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal food item %d: %w", id, err)
	}
	return &item, nil
}

// ListAll returns every food item ordered by id. It satisfies the planner's
// catalog source contract.
func (r *Repository) ListAll(ctx context.Context) ([]FoodItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM food_items ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list food items: %w", err)
	}
	defer rows.Close()

	var items []FoodItem
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan food item row: %w", err)
		}
		var item FoodItem
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal food item: %w", err)
		}
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("corrupt catalog record: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate food items: %w", err)
	}
	return items, nil
}

// Count returns the number of food items in the catalog.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM food_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count food items: %w", err)
	}
	return count, nil
}
