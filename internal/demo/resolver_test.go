package demo

import (
	"errors"
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupResolverTest(t *testing.T) (*gorm.DB, RecordStore, *Resolver) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store := NewMemoryStore()
	resolver := NewResolver(
		store,
		repository.NewRestaurantRepository(testDB),
		repository.NewCategoryRepository(testDB),
		repository.NewMenuItemRepository(testDB),
		repository.NewReviewRepository(testDB),
		repository.NewUserRepository(testDB),
		nil,
	)
	return testDB, store, resolver
}

func TestResolver_LocalRecordsHideLiveRecords(t *testing.T) {
	testDB, store, resolver := setupResolverTest(t)

	// Live database holds one restaurant, the demo store a different one.
	require.NoError(t, testDB.Create(&model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}).Error)
	require.NoError(t, store.Write(CollectionRestaurants, []model.Restaurant{
		{ID: "r-demo-1", Slug: "tokyo-sushi-bar", Name: "Tokyo Sushi Bar"},
	}))

	got := resolver.Restaurants(nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Tokyo Sushi Bar", got[0].Name)
}

func TestResolver_FallsBackToLiveWhenLocalEmpty(t *testing.T) {
	testDB, _, resolver := setupResolverTest(t)

	require.NoError(t, testDB.Create(&model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}).Error)

	got := resolver.Restaurants(nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Bella Italia", got[0].Name)
}

func TestResolver_AppliesPredicate(t *testing.T) {
	_, store, resolver := setupResolverTest(t)

	require.NoError(t, store.Write(CollectionRestaurants, []model.Restaurant{
		{ID: "r-1", Slug: "bella-italia", Name: "Bella Italia"},
		{ID: "r-2", Slug: "tokyo-sushi-bar", Name: "Tokyo Sushi Bar"},
	}))

	got := resolver.Restaurants(func(r model.Restaurant) bool {
		return r.Slug == "tokyo-sushi-bar"
	})
	require.Len(t, got, 1)
	assert.Equal(t, "r-2", got[0].ID)

	found, ok := resolver.RestaurantBySlug("bella-italia")
	require.True(t, ok)
	assert.Equal(t, "r-1", found.ID)

	_, ok = resolver.RestaurantBySlug("no-such-place")
	assert.False(t, ok)
}

type failingRestaurantRepo struct {
	repository.RestaurantRepository
}

func (f *failingRestaurantRepo) FindAll(repository.RestaurantFilter) ([]model.Restaurant, int64, error) {
	return nil, 0, errors.New("connection refused")
}

func TestResolver_SwallowsLiveErrors(t *testing.T) {
	store := NewMemoryStore()

	var notified []string
	resolver := NewResolver(store, &failingRestaurantRepo{}, nil, nil, nil, nil, func(msg string) {
		notified = append(notified, msg)
	})

	got := resolver.Restaurants(nil)
	assert.Empty(t, got)
	assert.Len(t, notified, 1)
}

func TestResolver_NilRepositories(t *testing.T) {
	store := NewMemoryStore()

	// No database ever connected: all repositories are nil.
	var notified []string
	resolver := NewResolver(store, nil, nil, nil, nil, nil, func(msg string) {
		notified = append(notified, msg)
	})

	assert.Empty(t, resolver.Restaurants(nil))
	assert.Empty(t, resolver.Categories(nil))
	assert.Empty(t, resolver.MenuItems(nil))
	assert.Empty(t, resolver.Reviews(nil))
	assert.Empty(t, resolver.Users(nil))
	assert.Len(t, notified, 5)

	// Local records still resolve without any live backend.
	require.NoError(t, store.Write(CollectionRestaurants, []model.Restaurant{
		{ID: "r-1", Slug: "bella-italia", Name: "Bella Italia"},
	}))
	found, ok := resolver.RestaurantBySlug("bella-italia")
	require.True(t, ok)
	assert.Equal(t, "r-1", found.ID)
}
