package handles

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablePutGetDelete(t *testing.T) {
	tbl := NewTable()

	a, err := tbl.Put("a")
	require.NoError(t, err)
	b, err := tbl.Put("b")
	require.NoError(t, err)
	assert.Equal(t, ID(1), a)
	assert.Equal(t, ID(2), b)
	assert.Equal(t, 2, tbl.Len())

	v, ok := tbl.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)

	require.NoError(t, tbl.Delete(a))
	_, ok = tbl.Get(a)
	assert.False(t, ok)
	assert.ErrorIs(t, tbl.Delete(a), ErrUnknownHandle)
	assert.Equal(t, 1, tbl.Len())
}

func TestTableNeverReusesIDs(t *testing.T) {
	tbl := NewTable()
	first, err := tbl.Put(1)
	require.NoError(t, err)
	require.NoError(t, tbl.Delete(first))

	second, err := tbl.Put(2)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestTableExhausted(t *testing.T) {
	tbl := NewTable()
	tbl.next = ^ID(0)
	last, err := tbl.Put("last")
	require.NoError(t, err)
	assert.Equal(t, ^ID(0), last)

	_, err = tbl.Put("overflow")
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestTableConcurrentPut(t *testing.T) {
	tbl := NewTable()
	const n = 64
	ids := make([]ID, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := tbl.Put(i)
			assert.NoError(t, err)
			ids[i] = id
		}()
	}
	wg.Wait()

	seen := make(map[ID]bool, n)
	for _, id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	assert.Equal(t, n, tbl.Len())
}

func TestPointerBits(t *testing.T) {
	id, err := FromPointerBits(42)
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)

	p, err := id.PointerBits()
	require.NoError(t, err)
	assert.Equal(t, uintptr(42), p)
}
