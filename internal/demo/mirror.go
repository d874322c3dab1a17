package demo

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrSlugTaken      = errors.New("slug already in use")
	ErrRecordNotFound = errors.New("record not found")
)

// RestaurantForm is the input for a demo-mode restaurant registration.
type RestaurantForm struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Slug        string `json:"slug"`
}

// Mirror applies create/update/delete mutations to the demo store.
//
// Every mutation is read-all, transform, write-all. The store's mutex only
// covers individual Read and Write calls, so the Mirror holds its own mutex
// across each whole sequence (including the slug check and multi-collection
// seeding done by CreateRestaurant). Deleting a restaurant does not cascade
// to its categories, menu items or reviews; orphaned records are an accepted
// gap of the demo layer.
type Mirror struct {
	store RecordStore
	mu    sync.Mutex
}

func NewMirror(store RecordStore) *Mirror {
	return &Mirror{store: store}
}

// CreateRestaurant validates the form, rejects duplicate slugs, inserts the
// restaurant and seeds its starter categories, menu items and reviews in the
// same call.
func (m *Mirror) CreateRestaurant(form RestaurantForm) (*model.Restaurant, error) {
	required := map[string]string{
		"name":        form.Name,
		"description": form.Description,
		"phone":       form.Phone,
		"address":     form.Address,
	}
	for _, field := range []string{"name", "description", "phone", "address"} {
		if required[field] == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	slug := form.Slug
	if slug == "" {
		slug = util.GenerateSlug(form.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var restaurants []model.Restaurant
	_ = m.store.Read(CollectionRestaurants, &restaurants)
	for _, existing := range restaurants {
		if existing.Slug == slug {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
		}
	}

	now := time.Now()
	restaurant := model.Restaurant{
		ID:          uuid.NewString(),
		Slug:        slug,
		Name:        form.Name,
		Description: form.Description,
		Phone:       form.Phone,
		Address:     form.Address,
		LogoURL:     "/placeholder-logo.png",
		QRURL:       "/placeholder-qr.png",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	categories := model.DefaultCategories(restaurant.ID)
	items := model.DefaultMenuItems(restaurant.ID, categories)
	reviews := model.DefaultReviews(restaurant.ID, restaurant.Name, nil)

	var total int
	for _, rev := range reviews {
		total += rev.Rating
	}
	restaurant.ReviewCount = len(reviews)
	restaurant.AvgRating = float64(total) / float64(len(reviews))

	if err := m.store.Append(CollectionRestaurants, restaurant); err != nil {
		return nil, err
	}
	for _, category := range categories {
		if err := m.store.Append(CollectionCategories, category); err != nil {
			return nil, err
		}
	}
	for _, item := range items {
		if err := m.store.Append(CollectionMenuItems, item); err != nil {
			return nil, err
		}
	}
	for _, review := range reviews {
		if err := m.store.Append(CollectionReviews, review); err != nil {
			return nil, err
		}
	}

	logger.Info("Demo restaurant created", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
		"categories":    len(categories),
		"menu_items":    len(items),
	})
	return &restaurant, nil
}

// UpdateRecord merges patch into the record with the given id.
func (m *Mirror) UpdateRecord(collection, id string, patch map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []map[string]interface{}
	if err := m.store.Read(collection, &records); err != nil {
		return err
	}

	found := false
	for i, rec := range records {
		if rec["id"] == id {
			for key, value := range patch {
				records[i][key] = value
			}
			records[i]["updated_at"] = time.Now().Format(time.RFC3339)
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)
	}

	return m.store.Write(collection, records)
}

// DeleteRecord removes the record with the given id from one collection.
// Related records in other collections are left untouched.
func (m *Mirror) DeleteRecord(collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var records []map[string]interface{}
	if err := m.store.Read(collection, &records); err != nil {
		return err
	}

	kept := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		if rec["id"] != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return fmt.Errorf("%w: %s/%s", ErrRecordNotFound, collection, id)
	}

	return m.store.Write(collection, kept)
}
