// This file implements the foods table accessor for the SQLite backend.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var _ types.Table = (*foodsTable)(nil)

const insertFoodSQL = `INSERT INTO foods (food_id, name, name_key, fat, carbohydrates, protein, sugar, notice)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type foodsTable struct {
	backend *Backend
}

// Get retrieves a food by ID.
func (ft *foodsTable) Get(id string) (*types.Food, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	b := ft.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrPantryDetached
	}

	row := b.db.QueryRow("SELECT "+foodColumns+" FROM foods WHERE food_id = ?", id)
	f, err := hydrateFood(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrNotFound
		}
		return nil, fmt.Errorf("getting food %s: %w", id, err)
	}
	return f, nil
}

// Set persists a food. If id is empty, generates a UUID v7 and creates the
// row; otherwise updates the row with that ID, creating it when absent. The
// food's FoodID is set to the ID used.
func (ft *foodsTable) Set(id string, food *types.Food) (string, error) {
	if food == nil {
		return "", types.ErrInvalidData
	}
	if err := food.Validate(); err != nil {
		return "", err
	}
	b := ft.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return "", types.ErrPantryDetached
	}

	if id == "" {
		newID, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		id = newID.String()
	}

	var exists bool
	err := b.db.QueryRow("SELECT 1 FROM foods WHERE food_id = ?", id).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking food existence: %w", err)
	}

	row := food.Clone()
	row.FoodID = id
	if exists {
		_, err = b.db.Exec(
			`UPDATE foods SET name = ?, name_key = ?, fat = ?, carbohydrates = ?, protein = ?, sugar = ?, notice = ?
WHERE food_id = ?`,
			row.Name, nameKey(row.Name), row.Fat, row.Carbohydrates, row.Protein, row.Sugar, nullString(row.Notice), id,
		)
	} else {
		_, err = b.db.Exec(insertFoodSQL, foodArgs(row)...)
	}
	if err != nil {
		return "", fmt.Errorf("persisting food: %w", err)
	}

	if err := b.persistFoodsLocked(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", foodsJSONL, err)
	}

	food.FoodID = id
	return id, nil
}

// Delete removes a food by ID.
func (ft *foodsTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	b := ft.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrPantryDetached
	}

	res, err := b.db.Exec("DELETE FROM foods WHERE food_id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting food: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting food: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}

	if err := b.persistFoodsLocked(); err != nil {
		return fmt.Errorf("persisting %s: %w", foodsJSONL, err)
	}
	return nil
}

// Fetch queries foods matching the filter in insertion order.
func (ft *foodsTable) Fetch(filter types.Filter) ([]*types.Food, error) {
	query := "SELECT " + foodColumns + " FROM foods"
	var args []any

	if v, ok := filter[types.FilterName]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		query += " WHERE name_key = ?"
		args = append(args, nameKey(s))
	}

	query += " ORDER BY seq ASC"

	limit, offset := -1, 0
	if v, ok := filter[types.FilterLimit]; ok {
		n, ok := v.(int)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if n > 0 {
			limit = n
		}
	}
	if v, ok := filter[types.FilterOffset]; ok {
		n, ok := v.(int)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		if n > 0 {
			offset = n
		}
	}
	if limit > 0 || offset > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
	}

	b := ft.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return nil, types.ErrPantryDetached
	}

	rows, err := b.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching foods: %w", err)
	}
	defer rows.Close()

	results := []*types.Food{}
	for rows.Next() {
		f, err := hydrateFood(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating food: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating foods: %w", err)
	}
	return results, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateFood converts a row selected with foodColumns into a *types.Food.
func hydrateFood(s scanner) (*types.Food, error) {
	var f types.Food
	var notice sql.NullString
	if err := s.Scan(&f.FoodID, &f.Name, &f.Fat, &f.Carbohydrates, &f.Protein, &f.Sugar, &notice); err != nil {
		return nil, err
	}
	if notice.Valid {
		n := notice.String
		f.Notice = &n
	}
	return &f, nil
}

// foodArgs returns the insertFoodSQL arguments for f.
func foodArgs(f *types.Food) []any {
	return []any{f.FoodID, f.Name, nameKey(f.Name), f.Fat, f.Carbohydrates, f.Protein, f.Sugar, nullString(f.Notice)}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nameKey normalizes names for case-insensitive lookup.
func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// persistFoodsLocked reads all foods from SQLite and writes them to
// foods.jsonl using the atomic write pattern. The caller must hold b.mu.
func (b *Backend) persistFoodsLocked() error {
	rows, err := b.db.Query("SELECT " + foodColumns + " FROM foods ORDER BY seq ASC")
	if err != nil {
		return fmt.Errorf("querying foods for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		f, err := hydrateFood(rows)
		if err != nil {
			return fmt.Errorf("scanning food for JSONL: %w", err)
		}
		data, err := json.Marshal(toFoodJSON(f))
		if err != nil {
			return fmt.Errorf("marshaling food for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating foods for JSONL: %w", err)
	}
	rows.Close()

	return writeJSONL(filepath.Join(b.config.DataDir, foodsJSONL), records)
}
