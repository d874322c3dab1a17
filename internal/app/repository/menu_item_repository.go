package repository

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

type MenuItemFilter struct {
	RestaurantID string
	CategoryID   string
	ActiveOnly   bool
	Search       string
}

type MenuItemRepository interface {
	Create(item *model.MenuItem) error
	CreateBatch(items []model.MenuItem) error
	Update(item *model.MenuItem) error
	Delete(id string) error
	FindByID(id string) (*model.MenuItem, error)
	FindAll(filter MenuItemFilter) ([]model.MenuItem, error)
	CountByCategoryID(categoryID string) (int64, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) Create(item *model.MenuItem) error {
	logger.Debug("Creating menu item in database", map[string]interface{}{
		"name":          item.Name,
		"restaurant_id": item.RestaurantID,
		"category_id":   item.CategoryID,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"name":          item.Name,
			"restaurant_id": item.RestaurantID,
		})
		return err
	}

	logger.Debug("Menu item created in database", map[string]interface{}{
		"item_id": item.ID,
		"name":    item.Name,
	})
	return nil
}

func (r *menuItemRepository) CreateBatch(items []model.MenuItem) error {
	if len(items) == 0 {
		return nil
	}

	if err := r.db.Create(&items).Error; err != nil {
		logger.Error("Failed to create menu items in database", err, map[string]interface{}{
			"count": len(items),
		})
		return err
	}
	return nil
}

func (r *menuItemRepository) Update(item *model.MenuItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update menu item in database", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *menuItemRepository) Delete(id string) error {
	if err := r.db.Delete(&model.MenuItem{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete menu item from database", err, map[string]interface{}{
			"item_id": id,
		})
		return err
	}
	return nil
}

func (r *menuItemRepository) FindByID(id string) (*model.MenuItem, error) {
	var item model.MenuItem
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		logger.Error("Failed to find menu item", err, map[string]interface{}{
			"item_id": id,
		})
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) FindAll(filter MenuItemFilter) ([]model.MenuItem, error) {
	query := r.db.Model(&model.MenuItem{})
	if filter.RestaurantID != "" {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var items []model.MenuItem
	if err := query.Order("created_at ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items", err, map[string]interface{}{
			"restaurant_id": filter.RestaurantID,
			"category_id":   filter.CategoryID,
		})
		return nil, err
	}
	return items, nil
}

func (r *menuItemRepository) CountByCategoryID(categoryID string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.MenuItem{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		logger.Error("Failed to count menu items", err, map[string]interface{}{
			"category_id": categoryID,
		})
		return 0, err
	}
	return count, nil
}
