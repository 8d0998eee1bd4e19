package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVStorage(t *testing.T) {
	kv := newTestManager(t).KeyValueStorage()
	ctx := context.Background()

	t.Run("Set and get", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "openai_api_key", "sk-test"))

		value, err := kv.Get(ctx, "openai_api_key")
		require.NoError(t, err)
		assert.Equal(t, "sk-test", value)
	})

	t.Run("Keys are case-insensitive", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "Theme", "dark"))

		value, err := kv.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", value)

		value, err = kv.Get(ctx, "  THEME  ")
		require.NoError(t, err)
		assert.Equal(t, "dark", value)
	})

	t.Run("Missing key is an error", func(t *testing.T) {
		_, err := kv.Get(ctx, "nonexistent")
		assert.Error(t, err)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "temp", "value"))
		require.NoError(t, kv.Delete(ctx, "temp"))

		_, err := kv.Get(ctx, "temp")
		assert.Error(t, err)

		// Deleting again is not an error
		assert.NoError(t, kv.Delete(ctx, "temp"))
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, kv.Set(ctx, "alpha", "1"))
		require.NoError(t, kv.Set(ctx, "beta", "2"))

		pairs, err := kv.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", pairs["alpha"])
		assert.Equal(t, "2", pairs["beta"])
	})
}
