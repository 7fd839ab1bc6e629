package types

import "errors"

// Filter narrows Table.Fetch results. Recognized keys are "name" (string,
// case-insensitive exact match), "limit" and "offset" (int). A nil or empty
// filter returns every row.
type Filter map[string]any

// Filter keys understood by Table.Fetch.
const (
	FilterName   = "name"
	FilterLimit  = "limit"
	FilterOffset = "offset"
)

// Table provides uniform CRUD operations for the food table.
type Table interface {
	// Get retrieves the food with the given ID.
	// Returns ErrNotFound if no food exists with that ID.
	Get(id string) (*Food, error)

	// Set creates or updates a food. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, food *Food) (string, error)

	// Delete removes the food with the given ID.
	// Returns ErrNotFound if no food exists with that ID.
	Delete(id string) error

	// Fetch returns all foods matching the filter in insertion order.
	Fetch(filter Filter) ([]*Food, error)
}

// Table operation errors.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrInvalidID     = errors.New("invalid entity ID")
	ErrInvalidData   = errors.New("invalid entity data")
	ErrInvalidFilter = errors.New("invalid filter value type")
)

// Entity validation errors.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidMacro  = errors.New("macro-nutrient must be a finite, non-negative number of grams")
	ErrAmbiguousName = errors.New("name matches more than one food")
)
