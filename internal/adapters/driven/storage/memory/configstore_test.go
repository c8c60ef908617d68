package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetAndGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("oauth.client_id", "enginedesk"))
	require.NoError(t, store.Set("oauth.client_id", "custom"))

	val, ok := store.Get("oauth.client_id")
	assert.True(t, ok)
	assert.Equal(t, "custom", val)
	assert.Equal(t, "custom", store.GetString("oauth.client_id"))
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	_ = store.Set("int", 42)
	_ = store.Set("int64", int64(7))
	_ = store.Set("float", float64(3))
	_ = store.Set("slice", []any{"a", 1, "b"})
	_ = store.Set("strings", []string{"x"})

	assert.Equal(t, 42, store.GetInt("int"))
	assert.Equal(t, 7, store.GetInt("int64"))
	assert.Equal(t, 3, store.GetInt("float"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.Equal(t, "", store.GetString("int"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("slice"))
	assert.Equal(t, []string{"x"}, store.GetStringSlice("strings"))
	assert.Nil(t, store.GetStringSlice("int"))
}

func TestConfigStore_LoadAndPath(t *testing.T) {
	store := NewConfigStore()
	assert.NoError(t, store.Load())
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("key", "value")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("key")
		}()
	}
	wg.Wait()

	assert.Equal(t, "value", store.GetString("key"))
}
