package demo

import (
	"fmt"
	"sync"
	"testing"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() RestaurantForm {
	return RestaurantForm{
		Name:        "Bella Italia",
		Description: "Authentic Italian cuisine",
		Phone:       "+1-555-0101",
		Address:     "123 Main Street",
	}
}

func TestMirror_CreateRestaurant(t *testing.T) {
	mirror := NewMirror(NewMemoryStore())

	restaurant, err := mirror.CreateRestaurant(validForm())
	require.NoError(t, err)
	assert.NotEmpty(t, restaurant.ID)
	assert.Equal(t, "bella-italia", restaurant.Slug)
	assert.Equal(t, 3, restaurant.ReviewCount)
	assert.InDelta(t, 4.0, restaurant.AvgRating, 0.001)
	assert.NotEmpty(t, restaurant.QRURL)
}

func TestMirror_CreateRestaurant_MissingField(t *testing.T) {
	mirror := NewMirror(NewMemoryStore())

	tests := []struct {
		name   string
		mutate func(*RestaurantForm)
	}{
		{"missing name", func(f *RestaurantForm) { f.Name = "" }},
		{"missing description", func(f *RestaurantForm) { f.Description = "" }},
		{"missing phone", func(f *RestaurantForm) { f.Phone = "" }},
		{"missing address", func(f *RestaurantForm) { f.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := mirror.CreateRestaurant(form)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestMirror_CreateRestaurant_DuplicateSlug(t *testing.T) {
	mirror := NewMirror(NewMemoryStore())

	_, err := mirror.CreateRestaurant(validForm())
	require.NoError(t, err)

	// "Bella   ITALIA!" normalizes to the same slug as "Bella Italia".
	form := validForm()
	form.Name = "Bella   ITALIA!"
	_, err = mirror.CreateRestaurant(form)
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestMirror_CreateRestaurant_SeedsDefaultMenu(t *testing.T) {
	store := NewMemoryStore()
	mirror := NewMirror(store)

	restaurant, err := mirror.CreateRestaurant(validForm())
	require.NoError(t, err)

	var categories []model.Category
	require.NoError(t, store.Read(CollectionCategories, &categories))
	require.Len(t, categories, 3)
	assert.Equal(t, "Appetizers", categories[0].Name)
	assert.Equal(t, "Main Courses", categories[1].Name)
	assert.Equal(t, "Desserts", categories[2].Name)
	for _, category := range categories {
		assert.Equal(t, restaurant.ID, category.RestaurantID)
	}

	var items []model.MenuItem
	require.NoError(t, store.Read(CollectionMenuItems, &items))
	assert.NotEmpty(t, items)
	for _, item := range items {
		assert.Equal(t, restaurant.ID, item.RestaurantID)
	}

	var reviews []model.Review
	require.NoError(t, store.Read(CollectionReviews, &reviews))
	assert.Len(t, reviews, 3)
}

func TestMirror_DeleteRestaurant_DoesNotCascade(t *testing.T) {
	store := NewMemoryStore()
	mirror := NewMirror(store)

	restaurant, err := mirror.CreateRestaurant(validForm())
	require.NoError(t, err)

	require.NoError(t, mirror.DeleteRecord(CollectionRestaurants, restaurant.ID))

	var restaurants []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &restaurants))
	assert.Empty(t, restaurants)

	// Categories and menu items stay behind, orphaned.
	var categories []model.Category
	require.NoError(t, store.Read(CollectionCategories, &categories))
	assert.Len(t, categories, 3)

	var items []model.MenuItem
	require.NoError(t, store.Read(CollectionMenuItems, &items))
	assert.NotEmpty(t, items)
}

func TestMirror_UpdateRecord(t *testing.T) {
	store := NewMemoryStore()
	mirror := NewMirror(store)

	restaurant, err := mirror.CreateRestaurant(validForm())
	require.NoError(t, err)

	err = mirror.UpdateRecord(CollectionRestaurants, restaurant.ID, map[string]interface{}{
		"description": "Updated description",
	})
	require.NoError(t, err)

	var restaurants []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &restaurants))
	require.Len(t, restaurants, 1)
	assert.Equal(t, "Updated description", restaurants[0].Description)

	err = mirror.UpdateRecord(CollectionRestaurants, "no-such-id", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMirror_DeleteRecord_NotFound(t *testing.T) {
	mirror := NewMirror(NewMemoryStore())

	err := mirror.DeleteRecord(CollectionRestaurants, "no-such-id")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestMirror_UpdateRecord_ConcurrentUpdatesAllSurvive(t *testing.T) {
	store := NewMemoryStore()
	mirror := NewMirror(store)

	ids := make([]string, 10)
	for i := range ids {
		form := validForm()
		form.Name = fmt.Sprintf("Restaurant %d", i)
		restaurant, err := mirror.CreateRestaurant(form)
		require.NoError(t, err)
		ids[i] = restaurant.ID
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			err := mirror.UpdateRecord(CollectionRestaurants, id, map[string]interface{}{
				"description": fmt.Sprintf("patched %d", i),
			})
			assert.NoError(t, err)
		}(i, id)
	}
	wg.Wait()

	var restaurants []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &restaurants))
	require.Len(t, restaurants, len(ids))

	byID := make(map[string]model.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byID[r.ID] = r
	}
	for i, id := range ids {
		assert.Equal(t, fmt.Sprintf("patched %d", i), byID[id].Description)
	}
}

func TestMirror_CreateRestaurant_ConcurrentDuplicateSlug(t *testing.T) {
	store := NewMemoryStore()
	mirror := NewMirror(store)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := mirror.CreateRestaurant(validForm())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, rejected int
	for err := range errs {
		if err == nil {
			created++
		} else {
			assert.ErrorIs(t, err, ErrSlugTaken)
			rejected++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, rejected)

	var restaurants []model.Restaurant
	require.NoError(t, store.Read(CollectionRestaurants, &restaurants))
	assert.Len(t, restaurants, 1)
}
