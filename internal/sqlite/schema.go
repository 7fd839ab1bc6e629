// Package sqlite implements the SQLite backend for the Larder nutrition table.
package sqlite

// Schema DDL. SQLite is a query cache; foods.jsonl is the source of truth.
const (
	createFoods = `CREATE TABLE foods (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    food_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    name_key TEXT NOT NULL,
    fat REAL NOT NULL,
    carbohydrates REAL NOT NULL,
    protein REAL NOT NULL,
    sugar REAL NOT NULL,
    notice TEXT
);`

	createFoodsNameIndex = `CREATE INDEX idx_foods_name_key ON foods (name_key);`
)

// schemaDDL lists table statements in creation order.
var schemaDDL = []string{
	createFoods,
}

// indexDDL lists index statements, run after schemaDDL.
var indexDDL = []string{
	createFoodsNameIndex,
}

// JSONL file names in DataDir.
const (
	foodsJSONL = "foods.jsonl"
)

// jsonlFiles lists every JSONL file created on Attach.
var jsonlFiles = []string{
	foodsJSONL,
}

// foodColumns is the column list used by every SELECT that hydrates a Food.
const foodColumns = "food_id, name, fat, carbohydrates, protein, sugar, notice"
