package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestReadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foods.jsonl")
	content := `{"name":"Banana"}` + "\n\n" + `{broken` + "\n" + `{"name":"Honey"}` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, skipped, err := readJSONL(path)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 1, skipped)

	_, _, err = readJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foods.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	records := []json.RawMessage{json.RawMessage(`{"name":"A"}`), json.RawMessage(`{"name":"B"}`)}
	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"name\":\"A\"}\n{\"name\":\"B\"}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFoodPersistedToJSONL(t *testing.T) {
	b, dataDir := attachTestBackend(t)
	table, err := b.GetTable(types.FoodsTable)
	require.NoError(t, err)

	_, err = table.Set("", &types.Food{Name: "Overnight Oats", Fat: 7, Carbohydrates: 74, Protein: 38, Sugar: 18, Notice: types.StringPtr("Almost sugar is natural sugar")})
	require.NoError(t, err)
	_, err = table.Set("", &types.Food{Name: "Banana", Carbohydrates: 23})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dataDir, foodsJSONL))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "Almost sugar is natural sugar", first["notice"])
	assert.Equal(t, 74.0, first["carbohydrates"])
	_, hasNotice := second["notice"]
	assert.False(t, hasNotice, "absent notice must not be written")
}
