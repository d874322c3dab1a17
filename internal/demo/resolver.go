package demo

import (
	"errors"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
)

// errLiveUnavailable marks a fallback attempted without a live repository,
// as happens when the server starts in demo mode without a database.
var errLiveUnavailable = errors.New("live repository unavailable")

// Notifier surfaces a transient user-facing message when a live lookup
// fails. Nil disables notifications.
type Notifier func(message string)

// Resolver reads a collection from the demo store first and falls back to
// the live repositories only when the demo collection is empty.
//
// The precedence is strict, never a merge: while any demo record exists for
// a collection, live records for that collection are invisible. That
// behavior is intentional: demo data supersedes the backend so the app can
// be demonstrated against a fixed dataset.
//
// A live-repository error is swallowed: it is logged, reported through the
// Notifier, and the caller gets an empty slice. A nil repository is treated
// the same way, so the resolver works when no database was ever connected.
type Resolver struct {
	store       RecordStore
	restaurants repository.RestaurantRepository
	categories  repository.CategoryRepository
	menuItems   repository.MenuItemRepository
	reviews     repository.ReviewRepository
	users       repository.UserRepository
	notify      Notifier
}

func NewResolver(
	store RecordStore,
	restaurants repository.RestaurantRepository,
	categories repository.CategoryRepository,
	menuItems repository.MenuItemRepository,
	reviews repository.ReviewRepository,
	users repository.UserRepository,
	notify Notifier,
) *Resolver {
	return &Resolver{
		store:       store,
		restaurants: restaurants,
		categories:  categories,
		menuItems:   menuItems,
		reviews:     reviews,
		users:       users,
		notify:      notify,
	}
}

func (r *Resolver) warn(collection string, err error) {
	logger.Error("Live lookup failed, returning empty result", err, map[string]interface{}{
		"collection": collection,
	})
	if r.notify != nil {
		r.notify("Could not load data right now. Please try again.")
	}
}

// Restaurants resolves the restaurant collection. A nil predicate matches
// every record.
func (r *Resolver) Restaurants(pred func(model.Restaurant) bool) []model.Restaurant {
	var local []model.Restaurant
	_ = r.store.Read(CollectionRestaurants, &local)
	if len(local) > 0 {
		return filterRecords(local, pred)
	}

	if r.restaurants == nil {
		r.warn(CollectionRestaurants, errLiveUnavailable)
		return []model.Restaurant{}
	}
	live, _, err := r.restaurants.FindAll(repository.RestaurantFilter{})
	if err != nil {
		r.warn(CollectionRestaurants, err)
		return []model.Restaurant{}
	}
	return filterRecords(live, pred)
}

func (r *Resolver) Categories(pred func(model.Category) bool) []model.Category {
	var local []model.Category
	_ = r.store.Read(CollectionCategories, &local)
	if len(local) > 0 {
		return filterRecords(local, pred)
	}

	if r.categories == nil {
		r.warn(CollectionCategories, errLiveUnavailable)
		return []model.Category{}
	}
	live, err := r.categories.FindAll()
	if err != nil {
		r.warn(CollectionCategories, err)
		return []model.Category{}
	}
	return filterRecords(live, pred)
}

func (r *Resolver) MenuItems(pred func(model.MenuItem) bool) []model.MenuItem {
	var local []model.MenuItem
	_ = r.store.Read(CollectionMenuItems, &local)
	if len(local) > 0 {
		return filterRecords(local, pred)
	}

	if r.menuItems == nil {
		r.warn(CollectionMenuItems, errLiveUnavailable)
		return []model.MenuItem{}
	}
	live, err := r.menuItems.FindAll(repository.MenuItemFilter{})
	if err != nil {
		r.warn(CollectionMenuItems, err)
		return []model.MenuItem{}
	}
	return filterRecords(live, pred)
}

func (r *Resolver) Reviews(pred func(model.Review) bool) []model.Review {
	var local []model.Review
	_ = r.store.Read(CollectionReviews, &local)
	if len(local) > 0 {
		return filterRecords(local, pred)
	}

	if r.reviews == nil {
		r.warn(CollectionReviews, errLiveUnavailable)
		return []model.Review{}
	}
	live, err := r.reviews.FindAll()
	if err != nil {
		r.warn(CollectionReviews, err)
		return []model.Review{}
	}
	return filterRecords(live, pred)
}

func (r *Resolver) Users(pred func(model.User) bool) []model.User {
	var local []model.User
	_ = r.store.Read(CollectionUsers, &local)
	if len(local) > 0 {
		return filterRecords(local, pred)
	}

	if r.users == nil {
		r.warn(CollectionUsers, errLiveUnavailable)
		return []model.User{}
	}
	live, _, err := r.users.FindAll(0, -1)
	if err != nil {
		r.warn(CollectionUsers, err)
		return []model.User{}
	}
	return filterRecords(live, pred)
}

// RestaurantBySlug resolves a single restaurant, demo records first.
func (r *Resolver) RestaurantBySlug(slug string) (*model.Restaurant, bool) {
	matches := r.Restaurants(func(rec model.Restaurant) bool {
		return rec.Slug == slug
	})
	if len(matches) == 0 {
		return nil, false
	}
	return &matches[0], true
}

func filterRecords[T any](records []T, pred func(T) bool) []T {
	if pred == nil {
		return records
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out
}
