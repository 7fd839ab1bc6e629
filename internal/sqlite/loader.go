// This file implements JSONL loading for startup.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// loadFoodsJSONL reads foods.jsonl from dataDir and inserts every valid
// record into the foods table. Loading is transactional: all rows load or the
// table stays empty. Malformed lines, rows that fail validation, and rows
// with a duplicate food_id are dropped with a warning: they are not loaded,
// and the next write of foods.jsonl (including the ID write-back on this
// attach) removes them from the file. Rows without a food_id get a fresh
// one; assigned reports whether that happened so the caller can write the
// IDs back.
func loadFoodsJSONL(db *sql.DB, dataDir string, log zerolog.Logger) (loaded int, assigned bool, err error) {
	path := filepath.Join(dataDir, foodsJSONL)
	records, skipped, err := readJSONL(path)
	if err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", foodsJSONL, err)
	}
	if skipped > 0 {
		log.Warn().Str("file", foodsJSONL).Int("lines", skipped).Msg("dropping malformed JSONL lines; they are removed from the file on the next write")
	}
	if len(records) == 0 {
		return 0, false, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, false, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(insertFoodSQL)
	if err != nil {
		return 0, false, fmt.Errorf("preparing insert for foods: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]bool, len(records))
	for i, rec := range records {
		var r foodJSON
		if err := json.Unmarshal(rec, &r); err != nil {
			log.Warn().Int("record", i+1).Err(err).Msg("dropping undecodable food record; it is removed from the file on the next write")
			continue
		}
		f := r.food()
		if err := f.Validate(); err != nil {
			log.Warn().Int("record", i+1).Str("name", f.Name).Err(err).Msg("dropping invalid food record; it is removed from the file on the next write")
			continue
		}
		if f.FoodID == "" {
			f.FoodID = uuid.Must(uuid.NewV7()).String()
			assigned = true
		}
		if seen[f.FoodID] {
			log.Warn().Int("record", i+1).Str("food_id", f.FoodID).Msg("dropping record with duplicate food_id; it is removed from the file on the next write")
			continue
		}
		seen[f.FoodID] = true
		if _, err := stmt.Exec(foodArgs(f)...); err != nil {
			return 0, false, fmt.Errorf("loading record %d: %w", i+1, err)
		}
		loaded++
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("committing load transaction: %w", err)
	}
	return loaded, assigned, nil
}
