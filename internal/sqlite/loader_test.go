package sqlite

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestLoadSkipsBadRecords(t *testing.T) {
	dataDir := t.TempDir()
	lines := []string{
		`{"food_id":"id-1","name":"Banana","fat":0.3,"carbohydrates":23,"protein":1.1,"sugar":12}`,
		`not json`,
		`{"food_id":"id-2","name":"","fat":1}`,
		`{"food_id":"id-3","name":"Honey","sugar":-1}`,
		`{"food_id":"id-1","name":"Banana duplicate"}`,
		`{"food_id":"id-4","name":"Yoghurt","fat":3.3,"future_field":true}`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, foodsJSONL), []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	b := NewBackendWithLogger(zerolog.Nop())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	defer b.Detach()

	table, err := b.GetTable(types.FoodsTable)
	require.NoError(t, err)
	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "id-1", all[0].FoodID)
	assert.Equal(t, "Banana", all[0].Name)
	assert.Equal(t, "id-4", all[1].FoodID)
}

func TestLoadAssignsMissingIDs(t *testing.T) {
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, foodsJSONL), []byte(`{"name":"Strawberry","carbohydrates":7.7}`+"\n"), 0o644))

	b := NewBackendWithLogger(zerolog.Nop())
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	table, err := b.GetTable(types.FoodsTable)
	require.NoError(t, err)
	all, err := table.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	id := all[0].FoodID
	assert.NotEmpty(t, id)
	require.NoError(t, b.Detach())

	data, err := os.ReadFile(filepath.Join(dataDir, foodsJSONL))
	require.NoError(t, err)
	assert.Contains(t, string(data), id, "assigned ID is written back")

	b2 := NewBackendWithLogger(zerolog.Nop())
	require.NoError(t, b2.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	defer b2.Detach()
	table2, err := b2.GetTable(types.FoodsTable)
	require.NoError(t, err)
	got, err := table2.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Strawberry", got.Name)
}

func TestLoadDropsInvalidRecordsOnWriteBack(t *testing.T) {
	dataDir := t.TempDir()
	lines := []string{
		`{"name":"Strawberry","carbohydrates":7.7}`,
		`{"food_id":"id-2","name":"","fat":1}`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, foodsJSONL), []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	var logs bytes.Buffer
	b := NewBackendWithLogger(zerolog.New(&logs))
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: dataDir}))
	defer b.Detach()

	assert.Contains(t, logs.String(), "dropping invalid food record")
	assert.Contains(t, logs.String(), "removed from the file on the next write")

	data, err := os.ReadFile(filepath.Join(dataDir, foodsJSONL))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Strawberry")
	assert.NotContains(t, string(data), "id-2", "the ID write-back on attach rewrites the file without the invalid row")
}
