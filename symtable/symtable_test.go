/*
File    : cocodol/symtable/symtable_test.go
*/
package symtable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_InsertGetRoundTrip(t *testing.T) {
	tbl := New()

	existing, inserted := tbl.Insert("a", 1)
	assert.True(t, inserted)
	assert.Nil(t, existing)

	value, ok := tbl.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)
}

func TestTable_InsertDoesNotOverwrite(t *testing.T) {
	tbl := New()
	tbl.Insert("a", 1)

	existing, inserted := tbl.Insert("a", 2)
	assert.False(t, inserted)
	assert.Equal(t, 1, existing)

	value, _ := tbl.Get("a")
	assert.Equal(t, 1, value)
}

func TestTable_Update(t *testing.T) {
	tbl := New()

	previous, existed := tbl.Update("a", 1)
	assert.False(t, existed)
	assert.Nil(t, previous)

	previous, existed = tbl.Update("a", 2)
	assert.True(t, existed)
	assert.Equal(t, 1, previous)

	value, _ := tbl.Get("a")
	assert.Equal(t, 2, value)
}

func TestTable_RemoveThenGetFails(t *testing.T) {
	tbl := New()
	tbl.Insert("a", 1)

	value, ok := tbl.Remove("a")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	_, ok = tbl.Get("a")
	assert.False(t, ok)

	_, ok = tbl.Remove("a")
	assert.False(t, ok)
}

func TestTable_TombstoneKeepsProbingAlive(t *testing.T) {
	// "x" and "h" hash to the same bucket, so "h" is stored one slot further
	// along and finding it means probing past x's tombstone.
	tbl := New()
	tbl.Insert("x", 1)
	tbl.Insert("h", 2)
	tbl.Remove("x")

	value, ok := tbl.Get("h")
	require.True(t, ok)
	assert.Equal(t, 2, value)
}

func TestTable_ResizeKeepsAllEntries(t *testing.T) {
	tbl := New()
	const n = 200
	for i := 0; i < n; i++ {
		tbl.Insert(fmt.Sprintf("k%d", i), i)
	}
	assert.Equal(t, n, tbl.EntryCount())
	for i := 0; i < n; i++ {
		value, ok := tbl.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok)
		assert.Equal(t, i, value)
	}
}

func TestTable_Copy(t *testing.T) {
	tbl := New()
	tbl.Insert("a", 1)
	tbl.Insert("b", 2)

	clone := tbl.Copy(func(v any) any { return v.(int) * 10 })

	value, ok := clone.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, value)

	// Mutating the original does not affect the clone's entries.
	tbl.Update("a", 999)
	value, _ = clone.Get("a")
	assert.Equal(t, 10, value)
}

func TestTable_ForEach(t *testing.T) {
	tbl := New()
	tbl.Insert("a", 1)
	tbl.Insert("b", 2)

	seen := map[string]any{}
	tbl.ForEach(func(key string, value any) { seen[key] = value })
	assert.Equal(t, map[string]any{"a": 1, "b": 2}, seen)
}
