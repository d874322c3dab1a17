package repository

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	CreateBatch(categories []model.Category) error
	Update(category *model.Category) error
	Delete(id string) error
	FindByID(id string) (*model.Category, error)
	FindByRestaurantID(restaurantID string) ([]model.Category, error)
	FindAll() ([]model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":          category.Name,
		"restaurant_id": category.RestaurantID,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name":          category.Name,
			"restaurant_id": category.RestaurantID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) CreateBatch(categories []model.Category) error {
	if len(categories) == 0 {
		return nil
	}

	if err := r.db.Create(&categories).Error; err != nil {
		logger.Error("Failed to create categories in database", err, map[string]interface{}{
			"count": len(categories),
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id string) error {
	if err := r.db.Delete(&model.Category{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) FindByID(id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, "id = ?", id).Error; err != nil {
		logger.Error("Failed to find category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("restaurant_id ASC, sort_order ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByRestaurantID(restaurantID string) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Where("restaurant_id = ?", restaurantID).
		Order("sort_order ASC, created_at ASC").
		Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}
	return categories, nil
}
