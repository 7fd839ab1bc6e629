package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestDefault(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"Overnight Oats"}, c.Names())

	all := c.All()
	est := types.Estimator{}
	assert.Equal(t, float64(583), est.Estimate(all[0]))
	assert.Equal(t, float64(411), est.Estimate(all[1]))
	assert.Equal(t, float64(365), est.Estimate(all[2]))

	require.NotNil(t, all[0].Notice)
	assert.Equal(t, "Almost sugar is natural sugar", *all[0].Notice)
	assert.Nil(t, all[1].Notice)
	assert.Nil(t, all[2].Notice)
}

func TestNewRejectsInvalidRows(t *testing.T) {
	tests := []struct {
		name    string
		foods   []*types.Food
		wantErr error
		wantRow int
	}{
		{
			name:    "empty name",
			foods:   []*types.Food{{Name: "ok"}, {Name: ""}},
			wantErr: types.ErrInvalidName,
			wantRow: 1,
		},
		{
			name:    "negative macro",
			foods:   []*types.Food{{Name: "Banana", Carbohydrates: -3}},
			wantErr: types.ErrInvalidMacro,
			wantRow: 0,
		},
		{
			name:    "nil row",
			foods:   []*types.Food{nil},
			wantErr: types.ErrInvalidData,
			wantRow: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.foods)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, tt.wantRow, rowErr.Index)
		})
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	src := []*types.Food{{Name: "Honey", Carbohydrates: 82, Sugar: 82, Notice: types.StringPtr("raw")}}
	c, err := New(src)
	require.NoError(t, err)

	src[0].Name = "Changed"
	*src[0].Notice = "changed"

	got := c.All()
	got[0].Fat = 100

	again, err := c.Get("honey")
	require.NoError(t, err)
	assert.Equal(t, "Honey", again.Name)
	assert.Equal(t, "raw", again.NoticeText())
	assert.Zero(t, again.Fat)
}

func TestCatalogLookup(t *testing.T) {
	c, err := New([]*types.Food{
		{Name: "Banana", Fat: 0.3, Carbohydrates: 23, Protein: 1.1, Sugar: 12},
		{Name: "Strawberry", Fat: 0.3, Carbohydrates: 7.7, Protein: 0.7, Sugar: 4.9},
		{Name: "banana ", Fat: 0.4, Carbohydrates: 27, Protein: 1.3, Sugar: 14},
	})
	require.NoError(t, err)

	t.Run("names keep first spelling", func(t *testing.T) {
		assert.Equal(t, []string{"Banana", "Strawberry"}, c.Names())
	})

	t.Run("find is case-insensitive and returns all variants", func(t *testing.T) {
		assert.Len(t, c.Find("BANANA"), 2)
		assert.Len(t, c.Find("strawberry"), 1)
		assert.Empty(t, c.Find("honey"))
	})

	t.Run("get returns the single match", func(t *testing.T) {
		f, err := c.Get("Strawberry")
		require.NoError(t, err)
		assert.Equal(t, 7.7, f.Carbohydrates)
	})

	t.Run("get refuses to pick among variants", func(t *testing.T) {
		_, err := c.Get("banana")
		assert.ErrorIs(t, err, types.ErrAmbiguousName)
	})

	t.Run("get reports missing names", func(t *testing.T) {
		_, err := c.Get("honey")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}
