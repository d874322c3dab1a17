package demo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_ReadMissingCollection(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var restaurants []model.Restaurant
	err = store.Read(CollectionRestaurants, &restaurants)
	assert.NoError(t, err)
	assert.Empty(t, restaurants)
}

func TestFileStore_ReadCorruptCollection(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, CollectionRestaurants+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	var restaurants []model.Restaurant
	err = store.Read(CollectionRestaurants, &restaurants)
	assert.NoError(t, err)
	assert.Empty(t, restaurants)
}

func TestFileStore_WriteThenRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	in := []model.Restaurant{
		{ID: "r-1", Slug: "bella-italia", Name: "Bella Italia"},
		{ID: "r-2", Slug: "tokyo-sushi-bar", Name: "Tokyo Sushi Bar"},
	}
	require.NoError(t, store.Write(CollectionRestaurants, in))

	var out []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "bella-italia", out[0].Slug)
	assert.Equal(t, "Tokyo Sushi Bar", out[1].Name)
}

func TestFileStore_ReadIsIdempotent(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	in := []model.Restaurant{{ID: "r-1", Slug: "bella-italia", Name: "Bella Italia"}}
	require.NoError(t, store.Write(CollectionRestaurants, in))

	var first, second []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &first))
	require.NoError(t, store.Read(CollectionRestaurants, &second))
	assert.Equal(t, first, second)
}

func TestFileStore_WriteReplacesCollection(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write(CollectionRestaurants, []model.Restaurant{
		{ID: "r-1", Slug: "bella-italia", Name: "Bella Italia"},
		{ID: "r-2", Slug: "tokyo-sushi-bar", Name: "Tokyo Sushi Bar"},
	}))
	require.NoError(t, store.Write(CollectionRestaurants, []model.Restaurant{
		{ID: "r-3", Slug: "the-burger-palace", Name: "The Burger Palace"},
	}))

	var out []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "the-burger-palace", out[0].Slug)
}

func TestFileStore_Append(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Append(CollectionRestaurants, model.Restaurant{ID: "r-1", Slug: "bella-italia"}))
	require.NoError(t, store.Append(CollectionRestaurants, model.Restaurant{ID: "r-2", Slug: "tokyo-sushi-bar"}))

	var out []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &out))
	require.Len(t, out, 2)
	assert.Equal(t, "r-1", out[0].ID)
	assert.Equal(t, "r-2", out[1].ID)
}

func TestMemoryStore_Roundtrip(t *testing.T) {
	store := NewMemoryStore()

	var out []model.Category
	require.NoError(t, store.Read(CollectionCategories, &out))
	assert.Empty(t, out)

	require.NoError(t, store.Append(CollectionCategories, model.Category{ID: "c-1", Name: "Appetizers"}))
	require.NoError(t, store.Read(CollectionCategories, &out))
	require.Len(t, out, 1)
	assert.Equal(t, "Appetizers", out[0].Name)
}
