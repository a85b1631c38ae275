package localstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/localstore"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	store, err := localstore.NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(localstore.KeyStoreID, "7"))
	require.NoError(t, store.Set(localstore.KeyTableID, "42"))

	value, err := store.Get(localstore.KeyStoreID)
	require.NoError(t, err)
	assert.Equal(t, "7", value)

	require.NoError(t, store.Delete(localstore.KeyTableID))
	_, err = store.Get(localstore.KeyTableID)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	first, err := localstore.NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(localstore.KeyCartItems, `[{"item_key":"5-0-","quantity":2}]`))

	second, err := localstore.NewFileStore(path)
	require.NoError(t, err)

	value, err := second.Get(localstore.KeyCartItems)
	require.NoError(t, err)
	assert.Contains(t, value, "5-0-")
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	store, err := localstore.NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	_, err = store.Get(localstore.KeyStoreID)
	assert.ErrorIs(t, err, localstore.ErrNotFound)
}
