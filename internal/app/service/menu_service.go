package service

import (
	"context"
	"errors"
	"time"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/magicmenu/magicmenu-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrMenuItemNotFound = errors.New("menu item not found")
	ErrInvalidPrice     = errors.New("price must be a non-negative amount in minor units")
	ErrCategoryNotEmpty = errors.New("category still has menu items")
)

type CategoryInput struct {
	Name      string
	SortOrder int
}

type MenuItemInput struct {
	CategoryID   string
	Name         string
	Description  string
	PriceCents   int64
	CurrencyCode string
	ImageURL     string
	Ingredients  string
	Allergens    string
	Nutrition    *model.Nutrition
	IsActive     *bool
}

type MenuService interface {
	ListCategories(restaurantID string) ([]model.Category, error)
	CreateCategory(restaurantID, userID string, role model.UserRole, input CategoryInput) (*model.Category, error)
	UpdateCategory(categoryID, userID string, role model.UserRole, input CategoryInput) (*model.Category, error)
	DeleteCategory(categoryID, userID string, role model.UserRole) error

	ListMenuItems(restaurantID, categoryID string, activeOnly bool) ([]model.MenuItem, error)
	GetMenuItem(id string) (*model.MenuItem, error)
	CreateMenuItem(restaurantID, userID string, role model.UserRole, input MenuItemInput) (*model.MenuItem, error)
	UpdateMenuItem(itemID, userID string, role model.UserRole, input MenuItemInput) (*model.MenuItem, error)
	DeleteMenuItem(itemID, userID string, role model.UserRole) error
}

type menuService struct {
	restaurantRepo repository.RestaurantRepository
	categoryRepo   repository.CategoryRepository
	menuItemRepo   repository.MenuItemRepository
	hub            *ws.Hub
}

func NewMenuService(
	restaurantRepo repository.RestaurantRepository,
	categoryRepo repository.CategoryRepository,
	menuItemRepo repository.MenuItemRepository,
	hub *ws.Hub,
) MenuService {
	return &menuService{
		restaurantRepo: restaurantRepo,
		categoryRepo:   categoryRepo,
		menuItemRepo:   menuItemRepo,
		hub:            hub,
	}
}

// authorizeRestaurant checks that the caller may edit the restaurant's menu
// and returns the restaurant for its slug.
func (s *menuService) authorizeRestaurant(restaurantID, userID string, role model.UserRole) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(restaurantID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if role == model.RoleAdmin {
		return restaurant, nil
	}
	if restaurant.OwnerUserID == nil || *restaurant.OwnerUserID != userID {
		return nil, ErrNotOwner
	}
	return restaurant, nil
}

func (s *menuService) ListCategories(restaurantID string) ([]model.Category, error) {
	return s.categoryRepo.FindByRestaurantID(restaurantID)
}

func (s *menuService) CreateCategory(restaurantID, userID string, role model.UserRole, input CategoryInput) (*model.Category, error) {
	restaurant, err := s.authorizeRestaurant(restaurantID, userID, role)
	if err != nil {
		return nil, err
	}

	category := &model.Category{
		RestaurantID: restaurantID,
		Name:         input.Name,
		SortOrder:    input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	s.menuChanged(restaurant.Slug)

	return category, nil
}

func (s *menuService) UpdateCategory(categoryID, userID string, role model.UserRole, input CategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	restaurant, err := s.authorizeRestaurant(category.RestaurantID, userID, role)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.SortOrder != 0 {
		category.SortOrder = input.SortOrder
	}
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}

	s.menuChanged(restaurant.Slug)

	return category, nil
}

// DeleteCategory refuses to delete a category that still has menu items; the
// caller moves or removes them first.
func (s *menuService) DeleteCategory(categoryID, userID string, role model.UserRole) error {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	restaurant, err := s.authorizeRestaurant(category.RestaurantID, userID, role)
	if err != nil {
		return err
	}

	count, err := s.menuItemRepo.CountByCategoryID(categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}

	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return err
	}

	s.menuChanged(restaurant.Slug)

	return nil
}

func (s *menuService) ListMenuItems(restaurantID, categoryID string, activeOnly bool) ([]model.MenuItem, error) {
	return s.menuItemRepo.FindAll(repository.MenuItemFilter{
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
		ActiveOnly:   activeOnly,
	})
}

func (s *menuService) GetMenuItem(id string) (*model.MenuItem, error) {
	item, err := s.menuItemRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *menuService) CreateMenuItem(restaurantID, userID string, role model.UserRole, input MenuItemInput) (*model.MenuItem, error) {
	restaurant, err := s.authorizeRestaurant(restaurantID, userID, role)
	if err != nil {
		return nil, err
	}

	if input.PriceCents < 0 {
		return nil, ErrInvalidPrice
	}

	category, err := s.categoryRepo.FindByID(input.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if category.RestaurantID != restaurantID {
		return nil, ErrCategoryNotFound
	}

	item := &model.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   input.CategoryID,
		Name:         input.Name,
		Description:  input.Description,
		PriceCents:   input.PriceCents,
		CurrencyCode: input.CurrencyCode,
		ImageURL:     input.ImageURL,
		Ingredients:  input.Ingredients,
		Allergens:    input.Allergens,
		IsActive:     true,
	}
	if input.Nutrition != nil {
		item.Nutrition = *input.Nutrition
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := s.menuItemRepo.Create(item); err != nil {
		return nil, err
	}

	s.menuChanged(restaurant.Slug)

	return item, nil
}

func (s *menuService) UpdateMenuItem(itemID, userID string, role model.UserRole, input MenuItemInput) (*model.MenuItem, error) {
	item, err := s.menuItemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}

	restaurant, err := s.authorizeRestaurant(item.RestaurantID, userID, role)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		item.Name = input.Name
	}
	if input.Description != "" {
		item.Description = input.Description
	}
	if input.PriceCents != 0 {
		if input.PriceCents < 0 {
			return nil, ErrInvalidPrice
		}
		item.PriceCents = input.PriceCents
	}
	if input.CurrencyCode != "" {
		item.CurrencyCode = input.CurrencyCode
	}
	if input.ImageURL != "" {
		item.ImageURL = input.ImageURL
	}
	if input.Ingredients != "" {
		item.Ingredients = input.Ingredients
	}
	if input.Allergens != "" {
		item.Allergens = input.Allergens
	}
	if input.Nutrition != nil {
		item.Nutrition = *input.Nutrition
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	if input.CategoryID != "" && input.CategoryID != item.CategoryID {
		category, err := s.categoryRepo.FindByID(input.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		if category.RestaurantID != item.RestaurantID {
			return nil, ErrCategoryNotFound
		}
		item.CategoryID = input.CategoryID
	}

	if err := s.menuItemRepo.Update(item); err != nil {
		return nil, err
	}

	s.menuChanged(restaurant.Slug)

	return item, nil
}

func (s *menuService) DeleteMenuItem(itemID, userID string, role model.UserRole) error {
	item, err := s.menuItemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMenuItemNotFound
		}
		return err
	}

	restaurant, err := s.authorizeRestaurant(item.RestaurantID, userID, role)
	if err != nil {
		return err
	}

	if err := s.menuItemRepo.Delete(itemID); err != nil {
		return err
	}

	s.menuChanged(restaurant.Slug)

	logger.Info("Menu item deleted", map[string]interface{}{
		"item_id":       itemID,
		"restaurant_id": item.RestaurantID,
	})
	return nil
}

// menuChanged drops the cached public menu and notifies live subscribers.
func (s *menuService) menuChanged(slug string) {
	redis.InvalidateMenu(context.Background(), slug)
	if s.hub != nil {
		s.hub.Publish(slug, ws.EventMenuUpdated, map[string]interface{}{
			"updated_at": time.Now(),
		})
	}
}
