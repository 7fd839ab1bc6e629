// This file implements dataset seeding and wholesale replacement of the
// foods table.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Seed inserts foods when the foods table is empty (first run) and returns
// the number inserted. Seeding is idempotent: a non-empty table is left as is
// and Seed returns 0.
func (b *Backend) Seed(foods []*types.Food) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrPantryDetached
	}

	var count int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM foods").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting foods: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	return b.insertAllLocked(foods, false)
}

// Replace swaps the whole foods table for foods in one transaction and
// returns the number of rows written.
func (b *Backend) Replace(foods []*types.Food) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrPantryDetached
	}
	return b.insertAllLocked(foods, true)
}

// Append inserts foods after the existing rows and returns the number
// inserted. Rows keep their FoodID when set; an ID already in the table or
// repeated within foods fails with ErrInvalidID and nothing is written.
func (b *Backend) Append(foods []*types.Food) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return 0, types.ErrPantryDetached
	}
	return b.insertAllLocked(foods, false)
}

// insertAllLocked validates every row, then inserts them in one transaction,
// optionally clearing the table first, and rewrites foods.jsonl. The caller
// must hold b.mu.
func (b *Backend) insertAllLocked(foods []*types.Food, clear bool) (int, error) {
	rows := make([]*types.Food, 0, len(foods))
	ids := make(map[string]int, len(foods))
	for i, f := range foods {
		if f == nil {
			return 0, fmt.Errorf("row %d: %w", i+1, types.ErrInvalidData)
		}
		if err := f.Validate(); err != nil {
			return 0, fmt.Errorf("row %d (%s): %w", i+1, f.Name, err)
		}
		if f.FoodID != "" {
			if first, dup := ids[f.FoodID]; dup {
				return 0, fmt.Errorf("row %d (%s): food_id %s repeats row %d: %w", i+1, f.Name, f.FoodID, first, types.ErrInvalidID)
			}
			ids[f.FoodID] = i + 1
			if !clear {
				stored, err := b.foodIDExistsLocked(f.FoodID)
				if err != nil {
					return 0, err
				}
				if stored {
					return 0, fmt.Errorf("row %d (%s): food_id %s is already stored: %w", i+1, f.Name, f.FoodID, types.ErrInvalidID)
				}
			}
		}
		row := f.Clone()
		if row.FoodID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return 0, fmt.Errorf("generating UUID v7: %w", err)
			}
			row.FoodID = id.String()
		}
		rows = append(rows, row)
	}

	tx, err := b.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if clear {
		if _, err := tx.Exec("DELETE FROM foods"); err != nil {
			return 0, fmt.Errorf("clearing foods: %w", err)
		}
	}
	if err := insertFoodsTx(tx, rows); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing foods: %w", err)
	}

	if err := b.persistFoodsLocked(); err != nil {
		return 0, fmt.Errorf("persisting %s: %w", foodsJSONL, err)
	}
	b.log.Info().Int("foods", len(rows)).Bool("replace", clear).Msg("stored foods")
	return len(rows), nil
}

// foodIDExistsLocked reports whether id is in the foods table. The caller
// must hold b.mu.
func (b *Backend) foodIDExistsLocked(id string) (bool, error) {
	var n int
	if err := b.db.QueryRow("SELECT COUNT(*) FROM foods WHERE food_id = ?", id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking food_id %s: %w", id, err)
	}
	return n > 0, nil
}

func insertFoodsTx(tx *sql.Tx, rows []*types.Food) error {
	stmt, err := tx.Prepare(insertFoodSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for foods: %w", err)
	}
	defer stmt.Close()

	for _, f := range rows {
		if _, err := stmt.Exec(foodArgs(f)...); err != nil {
			return fmt.Errorf("inserting %s (%s): %w", f.Name, f.FoodID, err)
		}
	}
	return nil
}
