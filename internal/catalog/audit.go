package catalog

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Issue kinds reported by Audit.
const (
	IssueDuplicateName             = "duplicate_name"
	IssueSugarExceedsCarbohydrates = "sugar_exceeds_carbohydrates"
)

// Issue is a data-quality finding. Issues never prevent loading.
type Issue struct {
	Kind    string `json:"kind" yaml:"kind"`
	Name    string `json:"name" yaml:"name"`
	Rows    []int  `json:"rows" yaml:"rows"` // One-based dataset rows.
	Message string `json:"message" yaml:"message"`
}

// Audit reports rows sharing a name and rows whose sugar exceeds their
// carbohydrates.
func (c *Catalog) Audit() []Issue {
	return AuditFoods(c.foods)
}

// AuditFoods runs the catalog audit over an arbitrary list of foods, such as
// the contents of the store.
func AuditFoods(foods []*types.Food) []Issue {
	var issues []Issue

	groups := make(map[string][]int)
	var order []string
	for i, f := range foods {
		key := nameKey(f.Name)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	for _, key := range order {
		idx := groups[key]
		if len(idx) < 2 {
			continue
		}
		rows := make([]int, len(idx))
		divergent := false
		for j, i := range idx {
			rows[j] = i + 1
			if !foods[i].SameMacros(foods[idx[0]]) {
				divergent = true
			}
		}
		detail := "identical macro values"
		if divergent {
			detail = "divergent macro values"
		}
		issues = append(issues, Issue{
			Kind:    IssueDuplicateName,
			Name:    foods[idx[0]].Name,
			Rows:    rows,
			Message: fmt.Sprintf("%d rows share this name with %s", len(idx), detail),
		})
	}

	for i, f := range foods {
		if f.Sugar > f.Carbohydrates {
			issues = append(issues, Issue{
				Kind:    IssueSugarExceedsCarbohydrates,
				Name:    f.Name,
				Rows:    []int{i + 1},
				Message: fmt.Sprintf("sugar %gg exceeds carbohydrates %gg", f.Sugar, f.Carbohydrates),
			})
		}
	}
	return issues
}

// String formats an issue for terminal output.
func (i Issue) String() string {
	rows := make([]string, len(i.Rows))
	for j, r := range i.Rows {
		rows[j] = fmt.Sprint(r)
	}
	return fmt.Sprintf("%s: %s (rows %s): %s", i.Kind, i.Name, strings.Join(rows, ", "), i.Message)
}
