package repository

import (
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewTest(t *testing.T) (*gorm.DB, ReviewRepository, *model.Restaurant, *model.User) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	restaurant := &model.Restaurant{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}
	require.NoError(t, testDB.Create(restaurant).Error)

	user := &model.User{
		Email:        "diner@example.com",
		PasswordHash: "hashed",
		FirstName:    "Test",
		LastName:     "Diner",
	}
	require.NoError(t, testDB.Create(user).Error)

	return testDB, NewReviewRepository(testDB), restaurant, user
}

func TestReviewRepository_Create(t *testing.T) {
	testDB, repo, restaurant, user := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	review := &model.Review{
		RestaurantID: restaurant.ID,
		UserID:       user.ID,
		Rating:       5,
		Comment:      "Amazing food!",
	}

	err := repo.Create(review)
	assert.NoError(t, err)
	assert.NotEmpty(t, review.ID)
}

func TestReviewRepository_FindByRestaurantID(t *testing.T) {
	testDB, repo, restaurant, user := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	for _, rating := range []int{5, 4, 3, 2} {
		require.NoError(t, repo.Create(&model.Review{
			RestaurantID: restaurant.ID,
			UserID:       user.ID,
			Rating:       rating,
			Comment:      "test review",
		}))
	}

	reviews, total, err := repo.FindByRestaurantID(restaurant.ID, 0, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, reviews, 3)

	reviews, total, err = repo.FindByRestaurantID(restaurant.ID, 3, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, reviews, 1)
}

func TestReviewRepository_WithTx_RollsBack(t *testing.T) {
	testDB, repo, restaurant, user := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	err := repo.WithTx(func(tx *gorm.DB) error {
		if err := tx.Create(&model.Review{
			RestaurantID: restaurant.ID,
			UserID:       user.ID,
			Rating:       5,
			Comment:      "should roll back",
		}).Error; err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	assert.Error(t, err)

	_, total, err := repo.FindByRestaurantID(restaurant.ID, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestReviewRepository_Delete(t *testing.T) {
	testDB, repo, restaurant, user := setupReviewTest(t)
	defer db.CleanupTestDB(testDB)

	review := &model.Review{
		RestaurantID: restaurant.ID,
		UserID:       user.ID,
		Rating:       4,
		Comment:      "will be removed",
	}
	require.NoError(t, repo.Create(review))

	assert.NoError(t, repo.Delete(review.ID))

	_, err := repo.FindByID(review.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
