package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetThenGet(t *testing.T) {
	store := NewMemoryStore()

	err := store.Set("key", []string{"a", "b"}, time.Minute)
	require.NoError(t, err)

	var value []string
	ok, err := store.Get("key", &value)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, value)
}

func TestMemoryStore_MissAfterTTL(t *testing.T) {
	now := time.Now()
	store := NewMemoryStore(WithClock(func() time.Time { return now }))

	err := store.Set("key", "value", 90*time.Second)
	require.NoError(t, err)

	var value string
	ok, err := store.Get("key", &value)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(91 * time.Second)

	ok, err = store.Get("key", &value)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_EmptyValueIsNotAMiss(t *testing.T) {
	store := NewMemoryStore()

	err := store.Set("key", []string{}, time.Minute)
	require.NoError(t, err)

	var value []string
	ok, err := store.Get("key", &value)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, value)
}

func TestMemoryStore_MissWhenNeverSet(t *testing.T) {
	store := NewMemoryStore()

	var value string
	ok, err := store.Get("key", &value)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("one", 1, time.Minute))
	require.NoError(t, store.Set("two", 2, time.Minute))

	err := store.Delete("one", "two")
	require.NoError(t, err)

	var value int
	ok, err := store.Get("one", &value)
	require.NoError(t, err)
	require.False(t, ok)
}
