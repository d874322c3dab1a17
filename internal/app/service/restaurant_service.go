package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/storage"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"github.com/magicmenu/magicmenu-backend/pkg/qrcode"
	"github.com/magicmenu/magicmenu-backend/pkg/redis"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrSlugTaken            = errors.New("slug already in use")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNotOwner             = errors.New("restaurant does not belong to this user")
	ErrFileTooLarge         = errors.New("file exceeds the maximum allowed size")
	ErrInvalidFileType      = errors.New("file type is not allowed")
)

// MaxLogoSize is the upload ceiling for restaurant logos.
const MaxLogoSize = 5 * 1024 * 1024

type RegisterRestaurantInput struct {
	Name        string
	Description string
	Phone       string
	Address     string
	Slug        string
	OwnerUserID string
}

type UpdateRestaurantInput struct {
	Name        *string
	Description *string
	Phone       *string
	Address     *string
}

// PublicMenu is the payload served to a customer viewing a menu page.
type PublicMenu struct {
	Restaurant model.Restaurant     `json:"restaurant"`
	Categories []PublicMenuCategory `json:"categories"`
}

type PublicMenuCategory struct {
	model.Category
	Items []PublicMenuItem `json:"items"`
}

type PublicMenuItem struct {
	model.MenuItem
	DisplayPrice string `json:"display_price"`
}

type RestaurantService interface {
	Register(input RegisterRestaurantInput) (*model.Restaurant, error)
	GetByID(id string) (*model.Restaurant, error)
	GetPublicMenu(ctx context.Context, slug string) (*PublicMenu, error)
	List(search string, offset, limit int) ([]model.Restaurant, int64, error)
	Update(id, userID string, role model.UserRole, input UpdateRestaurantInput) (*model.Restaurant, error)
	Delete(id, userID string, role model.UserRole) error
	UploadLogo(ctx context.Context, id, filename, contentType string, size int64, data []byte) (string, error)
	GenerateQR(ctx context.Context, id string) (string, error)
	RecomputeAllRatings() (int, error)
}

type restaurantService struct {
	db             *gorm.DB
	restaurantRepo repository.RestaurantRepository
	storage        *storage.S3Storage
	hub            *ws.Hub
	appURL         string
}

func NewRestaurantService(
	db *gorm.DB,
	restaurantRepo repository.RestaurantRepository,
	store *storage.S3Storage,
	hub *ws.Hub,
	appURL string,
) RestaurantService {
	return &restaurantService{
		db:             db,
		restaurantRepo: restaurantRepo,
		storage:        store,
		hub:            hub,
		appURL:         appURL,
	}
}

// Register creates a restaurant and seeds its starter categories and menu
// items in one transaction. A duplicate slug is rejected, never suffixed.
func (s *restaurantService) Register(input RegisterRestaurantInput) (*model.Restaurant, error) {
	logger.Info("Registering restaurant", map[string]interface{}{
		"name":  input.Name,
		"owner": input.OwnerUserID,
	})

	required := []struct {
		field, value string
	}{
		{"name", input.Name},
		{"description", input.Description},
		{"phone", input.Phone},
		{"address", input.Address},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingRequiredField, r.field)
		}
	}

	slug := input.Slug
	if slug == "" {
		slug = util.GenerateSlug(input.Name)
	}

	exists, err := s.restaurantRepo.SlugExists(slug)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.Warn("Registration failed: slug already in use", map[string]interface{}{
			"slug": slug,
		})
		return nil, fmt.Errorf("%w: %s", ErrSlugTaken, slug)
	}

	restaurant := &model.Restaurant{
		Name:        input.Name,
		Slug:        slug,
		Description: input.Description,
		Phone:       input.Phone,
		Address:     input.Address,
	}
	if input.OwnerUserID != "" {
		restaurant.OwnerUserID = &input.OwnerUserID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(restaurant).Error; err != nil {
			return err
		}

		categories := model.DefaultCategories(restaurant.ID)
		if err := tx.Create(&categories).Error; err != nil {
			return err
		}

		items := model.DefaultMenuItems(restaurant.ID, categories)
		return tx.Create(&items).Error
	})
	if err != nil {
		logger.Error("Failed to register restaurant", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	logger.Info("Restaurant registered successfully", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})

	return restaurant, nil
}

func (s *restaurantService) GetByID(id string) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return restaurant, nil
}

// GetPublicMenu returns the customer-facing menu for a slug, cached for a
// few minutes to keep QR-driven traffic off the database.
func (s *restaurantService) GetPublicMenu(ctx context.Context, slug string) (*PublicMenu, error) {
	if cached := redis.GetCachedMenu(ctx, slug); cached != nil {
		var menu PublicMenu
		if err := json.Unmarshal(cached, &menu); err == nil {
			logger.Debug("Serving menu from cache", map[string]interface{}{
				"slug": slug,
			})
			return &menu, nil
		}
	}

	restaurant, err := s.restaurantRepo.FindBySlug(slug, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	menu := buildPublicMenu(restaurant)

	if data, err := json.Marshal(menu); err == nil {
		redis.CacheMenu(ctx, slug, data)
	}

	return menu, nil
}

func buildPublicMenu(restaurant *model.Restaurant) *PublicMenu {
	itemsByCategory := make(map[string][]PublicMenuItem, len(restaurant.Categories))
	for _, item := range restaurant.MenuItems {
		itemsByCategory[item.CategoryID] = append(itemsByCategory[item.CategoryID], PublicMenuItem{
			MenuItem:     item,
			DisplayPrice: item.DisplayPrice(),
		})
	}

	categories := make([]PublicMenuCategory, 0, len(restaurant.Categories))
	for _, category := range restaurant.Categories {
		categories = append(categories, PublicMenuCategory{
			Category: category,
			Items:    itemsByCategory[category.ID],
		})
	}

	bare := *restaurant
	bare.Categories = nil
	bare.MenuItems = nil

	return &PublicMenu{
		Restaurant: bare,
		Categories: categories,
	}
}

func (s *restaurantService) List(search string, offset, limit int) ([]model.Restaurant, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.restaurantRepo.FindAll(repository.RestaurantFilter{
		Search: search,
		Offset: offset,
		Limit:  limit,
	})
}

// authorize loads the restaurant and checks that the caller may modify it.
func (s *restaurantService) authorize(id, userID string, role model.UserRole) (*model.Restaurant, error) {
	restaurant, err := s.restaurantRepo.FindByID(id, false)
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

func (s *restaurantService) Update(id, userID string, role model.UserRole, input UpdateRestaurantInput) (*model.Restaurant, error) {
	restaurant, err := s.authorize(id, userID, role)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		restaurant.Name = *input.Name
	}
	if input.Description != nil {
		restaurant.Description = *input.Description
	}
	if input.Phone != nil {
		restaurant.Phone = *input.Phone
	}
	if input.Address != nil {
		restaurant.Address = *input.Address
	}

	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return nil, err
	}

	s.invalidateAndPublish(restaurant.Slug)

	return restaurant, nil
}

// Delete soft-deletes the restaurant. Its categories and menu items are
// left in place.
func (s *restaurantService) Delete(id, userID string, role model.UserRole) error {
	restaurant, err := s.authorize(id, userID, role)
	if err != nil {
		return err
	}

	if err := s.restaurantRepo.Delete(id); err != nil {
		return err
	}

	s.invalidateAndPublish(restaurant.Slug)

	logger.Info("Restaurant deleted", map[string]interface{}{
		"restaurant_id": id,
		"slug":          restaurant.Slug,
	})
	return nil
}

// UploadLogo validates and stores a logo image and persists its URL.
func (s *restaurantService) UploadLogo(ctx context.Context, id, filename, contentType string, size int64, data []byte) (string, error) {
	restaurant, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRestaurantNotFound
		}
		return "", err
	}

	if size > MaxLogoSize {
		return "", ErrFileTooLarge
	}
	if err := s.storage.ValidateContentType(contentType, []string{"image/*"}); err != nil {
		return "", ErrInvalidFileType
	}

	var logoURL string
	if s.storage.Enabled() {
		logoURL, err = s.storage.Upload(ctx, "logos", filename, contentType, data)
		if err != nil {
			logger.Error("Failed to upload logo", err, map[string]interface{}{
				"restaurant_id": id,
			})
			return "", err
		}
	} else {
		logoURL = util.DataURL(contentType, data)
	}

	restaurant.LogoURL = logoURL
	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return "", err
	}

	s.invalidateAndPublish(restaurant.Slug)

	logger.Info("Logo uploaded", map[string]interface{}{
		"restaurant_id": id,
		"size":          size,
	})
	return logoURL, nil
}

// GenerateQR renders a QR code for the public menu URL, stores it, and
// persists the resulting URL on the restaurant.
func (s *restaurantService) GenerateQR(ctx context.Context, id string) (string, error) {
	restaurant, err := s.restaurantRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRestaurantNotFound
		}
		return "", err
	}

	menuURL := fmt.Sprintf("%s/r/%s?src=qr", s.appURL, restaurant.Slug)

	png, err := qrcode.GeneratePNG(menuURL)
	if err != nil {
		logger.Error("Failed to generate QR code", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return "", err
	}

	var qrURL string
	if s.storage.Enabled() {
		qrURL, err = s.storage.Upload(ctx, "qr", restaurant.Slug+".png", "image/png", png)
		if err != nil {
			logger.Error("Failed to upload QR code", err, map[string]interface{}{
				"restaurant_id": id,
			})
			return "", err
		}
	} else {
		qrURL = util.DataURL("image/png", png)
	}

	restaurant.QRURL = qrURL
	if err := s.restaurantRepo.Update(restaurant); err != nil {
		return "", err
	}

	logger.Info("QR code generated", map[string]interface{}{
		"restaurant_id": id,
		"menu_url":      menuURL,
	})
	return qrURL, nil
}

// RecomputeAllRatings refreshes the denormalized rating columns for every
// restaurant. Used by the nightly scheduler.
func (s *restaurantService) RecomputeAllRatings() (int, error) {
	restaurants, _, err := s.restaurantRepo.FindAll(repository.RestaurantFilter{})
	if err != nil {
		return 0, err
	}

	for _, restaurant := range restaurants {
		if err := s.restaurantRepo.UpdateAggregates(nil, restaurant.ID); err != nil {
			return 0, err
		}
	}
	return len(restaurants), nil
}

func (s *restaurantService) invalidateAndPublish(slug string) {
	redis.InvalidateMenu(context.Background(), slug)
	if s.hub != nil {
		s.hub.Publish(slug, ws.EventMenuUpdated, map[string]interface{}{
			"updated_at": time.Now(),
		})
	}
}
