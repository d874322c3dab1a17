package repository

import (
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	Update(review *model.Review) error
	Delete(id string) error
	FindByID(id string) (*model.Review, error)
	FindAll() ([]model.Review, error)
	FindByRestaurantID(restaurantID string, offset, limit int) ([]model.Review, int64, error)
	FindByUserID(userID string, offset, limit int) ([]model.Review, int64, error)
	FindByRestaurantAndUser(restaurantID, userID string) (*model.Review, error)
	WithTx(fn func(tx *gorm.DB) error) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review in database", map[string]interface{}{
		"restaurant_id": review.RestaurantID,
		"user_id":       review.UserID,
		"rating":        review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review in database", err, map[string]interface{}{
			"restaurant_id": review.RestaurantID,
			"user_id":       review.UserID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Update(review *model.Review) error {
	if err := r.db.Save(review).Error; err != nil {
		logger.Error("Failed to update review in database", err, map[string]interface{}{
			"review_id": review.ID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) Delete(id string) error {
	if err := r.db.Delete(&model.Review{}, "id = ?", id).Error; err != nil {
		logger.Error("Failed to delete review from database", err, map[string]interface{}{
			"review_id": id,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id string) (*model.Review, error) {
	var review model.Review
	if err := r.db.Preload("User").First(&review, "id = ?", id).Error; err != nil {
		logger.Error("Failed to find review", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindAll() ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.Order("created_at DESC").Find(&reviews).Error; err != nil {
		logger.Error("Failed to list reviews", err, nil)
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByRestaurantID(restaurantID string, offset, limit int) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("restaurant_id = ?", restaurantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	if err := query.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByUserID(userID string, offset, limit int) ([]model.Review, int64, error) {
	query := r.db.Model(&model.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []model.Review
	if err := query.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		logger.Error("Failed to find reviews by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) FindByRestaurantAndUser(restaurantID, userID string) (*model.Review, error) {
	var review model.Review
	if err := r.db.Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// WithTx runs fn inside a transaction. Review writes and the restaurant
// aggregate recompute must commit or roll back together.
func (r *reviewRepository) WithTx(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}
