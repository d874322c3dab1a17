package repository

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

type RestaurantFilter struct {
	Search      string
	OwnerUserID string
	Offset      int
	Limit       int
	IncludeMenu bool
}

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	BulkCreate(restaurants []model.Restaurant, batchSize int) error
	Update(restaurant *model.Restaurant) error
	Delete(id string) error
	FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error)
	FindByID(id string, includeMenu bool) (*model.Restaurant, error)
	FindBySlug(slug string, includeMenu bool) (*model.Restaurant, error)
	SlugExists(slug string) (bool, error)
	UpdateAggregates(tx *gorm.DB, restaurantID string) error
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name": restaurant.Name,
		"slug": restaurant.Slug,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name": restaurant.Name,
			"slug": restaurant.Slug,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})
	return nil
}

func (r *restaurantRepository) BulkCreate(restaurants []model.Restaurant, batchSize int) error {
	if len(restaurants) == 0 {
		return nil
	}

	logger.Info("Bulk creating restaurants", map[string]interface{}{
		"count":      len(restaurants),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(restaurants, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create restaurants", err, map[string]interface{}{
			"count": len(restaurants),
		})
		return err
	}
	return nil
}

func (r *restaurantRepository) Update(restaurant *model.Restaurant) error {
	logger.Debug("Updating restaurant in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"name":          restaurant.Name,
	})

	if err := r.db.Save(restaurant).Error; err != nil {
		logger.Error("Failed to update restaurant in database", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		return err
	}

	logger.Debug("Restaurant updated in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
	})
	return nil
}

func (r *restaurantRepository) Delete(id string) error {
	logger.Debug("Deleting restaurant from database", map[string]interface{}{
		"restaurant_id": id,
	})

	if err := r.db.Delete(&model.Restaurant{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete restaurant from database", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return err
	}

	logger.Debug("Restaurant deleted from database", map[string]interface{}{
		"restaurant_id": id,
	})
	return nil
}

func (r *restaurantRepository) FindAll(filter RestaurantFilter) ([]model.Restaurant, int64, error) {
	logger.Debug("Finding restaurants", map[string]interface{}{
		"search": filter.Search,
		"owner":  filter.OwnerUserID,
	})

	query := r.db.Model(&model.Restaurant{})
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", like, like)
	}
	if filter.OwnerUserID != "" {
		query = query.Where("owner_user_id = ?", filter.OwnerUserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count restaurants", err, nil)
		return nil, 0, err
	}

	if filter.IncludeMenu {
		query = query.Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).Preload("MenuItems")
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var restaurants []model.Restaurant
	if err := query.Order("name ASC").Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find restaurants", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, 0, err
	}

	logger.Debug("Restaurants found", map[string]interface{}{
		"count": len(restaurants),
		"total": total,
	})
	return restaurants, total, nil
}

func (r *restaurantRepository) FindByID(id string, includeMenu bool) (*model.Restaurant, error) {
	logger.Debug("Finding restaurant by ID", map[string]interface{}{
		"restaurant_id": id,
	})

	query := r.db.Model(&model.Restaurant{})
	if includeMenu {
		query = r.preloadMenu(query)
	}

	var restaurant model.Restaurant
	if err := query.First(&restaurant, "id = ?", id).Error; err != nil {
		logger.Error("Failed to find restaurant", err, map[string]interface{}{
			"restaurant_id": id,
		})
		return nil, err
	}

	logger.Debug("Restaurant found", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})
	return &restaurant, nil
}

func (r *restaurantRepository) FindBySlug(slug string, includeMenu bool) (*model.Restaurant, error) {
	logger.Debug("Finding restaurant by slug", map[string]interface{}{
		"slug": slug,
	})

	query := r.db.Model(&model.Restaurant{})
	if includeMenu {
		query = r.preloadMenu(query)
	}

	var restaurant model.Restaurant
	if err := query.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		logger.Error("Failed to find restaurant by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}

	logger.Debug("Restaurant found by slug", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})
	return &restaurant, nil
}

func (r *restaurantRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Restaurant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		logger.Error("Failed to check slug existence", err, map[string]interface{}{
			"slug": slug,
		})
		return false, err
	}
	return count > 0, nil
}

// UpdateAggregates recomputes the denormalized rating columns from the
// reviews table. Runs inside the caller's transaction so review writes and
// the aggregate update commit together.
func (r *restaurantRepository) UpdateAggregates(tx *gorm.DB, restaurantID string) error {
	if tx == nil {
		tx = r.db
	}

	var stats struct {
		Count int64
		Avg   float64
	}
	if err := tx.Model(&model.Review{}).
		Where("restaurant_id = ?", restaurantID).
		Select("COUNT(*) as count, COALESCE(AVG(rating), 0) as avg").
		Scan(&stats).Error; err != nil {
		logger.Error("Failed to compute rating aggregates", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return err
	}

	if err := tx.Model(&model.Restaurant{}).
		Where("id = ?", restaurantID).
		Updates(map[string]interface{}{
			"avg_rating":   stats.Avg,
			"review_count": stats.Count,
		}).Error; err != nil {
		logger.Error("Failed to update rating aggregates", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return err
	}

	logger.Debug("Rating aggregates updated", map[string]interface{}{
		"restaurant_id": restaurantID,
		"avg_rating":    stats.Avg,
		"review_count":  stats.Count,
	})
	return nil
}

func (r *restaurantRepository) preloadMenu(query *gorm.DB) *gorm.DB {
	return query.Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("MenuItems", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true)
	})
}
