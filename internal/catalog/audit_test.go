package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestAuditDefaultDataset(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	issues := c.Audit()
	require.Len(t, issues, 1)
	assert.Equal(t, IssueDuplicateName, issues[0].Kind)
	assert.Equal(t, "Overnight Oats", issues[0].Name)
	assert.Equal(t, []int{1, 2, 3}, issues[0].Rows)
	assert.Contains(t, issues[0].Message, "divergent")
}

func TestAuditFoods(t *testing.T) {
	tests := []struct {
		name      string
		foods     []*types.Food
		wantKinds []string
	}{
		{
			name:  "clean table",
			foods: []*types.Food{{Name: "Banana", Carbohydrates: 23, Sugar: 12}},
		},
		{
			name: "identical duplicates are still reported",
			foods: []*types.Food{
				{Name: "Honey", Carbohydrates: 82, Sugar: 82},
				{Name: "honey", Carbohydrates: 82, Sugar: 82},
			},
			wantKinds: []string{IssueDuplicateName},
		},
		{
			name:      "sugar above carbohydrates",
			foods:     []*types.Food{{Name: "Odd", Carbohydrates: 1, Sugar: 5}},
			wantKinds: []string{IssueSugarExceedsCarbohydrates},
		},
		{
			name: "both kinds",
			foods: []*types.Food{
				{Name: "A", Carbohydrates: 1, Sugar: 2},
				{Name: "A", Carbohydrates: 3, Sugar: 1},
			},
			wantKinds: []string{IssueDuplicateName, IssueSugarExceedsCarbohydrates},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := AuditFoods(tt.foods)
			var kinds []string
			for _, is := range issues {
				kinds = append(kinds, is.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
		})
	}
}

func TestIssueString(t *testing.T) {
	is := Issue{Kind: IssueDuplicateName, Name: "Oats", Rows: []int{1, 3}, Message: "2 rows"}
	assert.Equal(t, "duplicate_name: Oats (rows 1, 3): 2 rows", is.String())
}
