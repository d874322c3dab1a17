package repository

import (
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRestaurantTest(t *testing.T) (*gorm.DB, RestaurantRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewRestaurantRepository(testDB)
	return testDB, repo
}

func TestRestaurantRepository_Create(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	restaurant := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}

	err := repo.Create(restaurant)
	assert.NoError(t, err)
	assert.NotEmpty(t, restaurant.ID)
	assert.Equal(t, "bella-italia", restaurant.Slug)
}

func TestRestaurantRepository_Create_DuplicateSlug(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	first := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}
	require.NoError(t, repo.Create(first))

	// Same name derives the same slug, the unique index must reject it.
	second := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "A different place with the same name",
		Phone:       "+1-555-0102",
		Address:     "456 Oak Avenue",
	}
	err := repo.Create(second)
	assert.Error(t, err)
}

func TestRestaurantRepository_FindBySlug(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	restaurant := &model.Restaurant{
		Name:        "Tokyo Sushi Bar",
		Description: "Fresh sushi daily",
		Phone:       "+1-555-0202",
		Address:     "456 Oak Avenue",
	}
	require.NoError(t, repo.Create(restaurant))

	found, err := repo.FindBySlug("tokyo-sushi-bar", false)
	assert.NoError(t, err)
	assert.Equal(t, restaurant.ID, found.ID)
	assert.Equal(t, "Tokyo Sushi Bar", found.Name)

	_, err = repo.FindBySlug("no-such-restaurant", false)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRestaurantRepository_FindBySlug_WithMenu(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	restaurant := &model.Restaurant{
		Name:        "The Burger Palace",
		Description: "Gourmet burgers",
		Phone:       "+1-555-0303",
		Address:     "789 Elm Street",
	}
	require.NoError(t, repo.Create(restaurant))

	categories := model.DefaultCategories(restaurant.ID)
	require.NoError(t, testDB.Create(&categories).Error)

	items := model.DefaultMenuItems(restaurant.ID, categories)
	require.NoError(t, testDB.Create(&items).Error)

	found, err := repo.FindBySlug("the-burger-palace", true)
	require.NoError(t, err)
	assert.Len(t, found.Categories, 3)
	assert.Len(t, found.MenuItems, 5)
	assert.Equal(t, "Appetizers", found.Categories[0].Name)
}

func TestRestaurantRepository_SlugExists(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	restaurant := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}
	require.NoError(t, repo.Create(restaurant))

	exists, err := repo.SlugExists("bella-italia")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists("tokyo-sushi-bar")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestRestaurantRepository_FindAll_Search(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	names := []string{"Bella Italia", "Tokyo Sushi Bar", "The Burger Palace"}
	for i, name := range names {
		require.NoError(t, repo.Create(&model.Restaurant{
			Name:        name,
			Description: "Test restaurant",
			Phone:       "+1-555-0100",
			Address:     "Street " + string(rune('A'+i)),
		}))
	}

	restaurants, total, err := repo.FindAll(RestaurantFilter{Search: "Sushi"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Tokyo Sushi Bar", restaurants[0].Name)

	restaurants, total, err = repo.FindAll(RestaurantFilter{})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, restaurants, 3)
}

func TestRestaurantRepository_UpdateAggregates(t *testing.T) {
	testDB, repo := setupRestaurantTest(t)
	defer db.CleanupTestDB(testDB)

	restaurant := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}
	require.NoError(t, repo.Create(restaurant))

	user := &model.User{Email: "diner@example.com", PasswordHash: "x", FirstName: "Test", LastName: "Diner"}
	require.NoError(t, testDB.Create(user).Error)

	for _, rating := range []int{5, 4, 3} {
		require.NoError(t, testDB.Create(&model.Review{
			RestaurantID: restaurant.ID,
			UserID:       user.ID,
			Rating:       rating,
			Comment:      "test",
		}).Error)
	}

	require.NoError(t, repo.UpdateAggregates(nil, restaurant.ID))

	found, err := repo.FindByID(restaurant.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 3, found.ReviewCount)
	assert.InDelta(t, 4.0, found.AvgRating, 0.001)
}
