// Package catalog holds the immutable in-memory nutrition table. A Catalog
// is built once from a dataset (the embedded default or a file), validated
// row by row, and then only read.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

//go:embed foods.yaml
var defaultDataset []byte

// Catalog is a read-only list of foods in dataset order.
type Catalog struct {
	foods  []*types.Food
	byName map[string][]int
}

// New validates foods and builds a Catalog from copies of them.
// The first invalid row aborts construction with a *RowError.
func New(foods []*types.Food) (*Catalog, error) {
	c := &Catalog{
		foods:  make([]*types.Food, 0, len(foods)),
		byName: make(map[string][]int),
	}
	for i, f := range foods {
		if f == nil {
			return nil, &RowError{Index: i, Err: types.ErrInvalidData}
		}
		if err := f.Validate(); err != nil {
			return nil, &RowError{Index: i, Name: f.Name, Err: err}
		}
		key := nameKey(f.Name)
		c.byName[key] = append(c.byName[key], len(c.foods))
		c.foods = append(c.foods, f.Clone())
	}
	return c, nil
}

// Default returns the catalog built from the embedded dataset.
func Default() (*Catalog, error) {
	c, err := Parse(defaultDataset, FormatYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return c, nil
}

// All returns copies of every food in dataset order.
func (c *Catalog) All() []*types.Food {
	out := make([]*types.Food, len(c.foods))
	for i, f := range c.foods {
		out[i] = f.Clone()
	}
	return out
}

// Len returns the number of rows.
func (c *Catalog) Len() int {
	return len(c.foods)
}

// Names returns the distinct food names in first-seen order.
func (c *Catalog) Names() []string {
	seen := make(map[string]bool, len(c.byName))
	var names []string
	for _, f := range c.foods {
		key := nameKey(f.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, f.Name)
	}
	return names
}

// Find returns copies of every row whose name matches, ignoring case and
// surrounding whitespace. It returns an empty slice when nothing matches.
func (c *Catalog) Find(name string) []*types.Food {
	idx := c.byName[nameKey(name)]
	out := make([]*types.Food, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.foods[i].Clone())
	}
	return out
}

// Get returns the single row named name. It returns ErrNotFound when there
// is none and ErrAmbiguousName when several variants share the name; it never
// picks one of them.
func (c *Catalog) Get(name string) (*types.Food, error) {
	matches := c.Find(name)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%q: %w", name, types.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q has %d variants: %w", name, len(matches), types.ErrAmbiguousName)
	}
}

// RowError reports the dataset row that failed validation.
type RowError struct {
	Index int    // Zero-based row index.
	Name  string // Row name, possibly empty.
	Err   error
}

func (e *RowError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("row %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Index+1, e.Name, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
