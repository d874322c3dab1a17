package service

import (
	"errors"

	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotReviewAuthor = errors.New("review does not belong to this user")
	ErrAlreadyReviewed = errors.New("user has already reviewed this restaurant")
)

type ReviewService interface {
	ListByRestaurant(restaurantID string, offset, limit int) ([]model.Review, int64, error)
	Create(restaurantID, userID string, rating int, comment string) (*model.Review, error)
	Update(reviewID, userID string, role model.UserRole, rating int, comment string) (*model.Review, error)
	Delete(reviewID, userID string, role model.UserRole) error
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	restaurantRepo repository.RestaurantRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	restaurantRepo repository.RestaurantRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		restaurantRepo: restaurantRepo,
	}
}

func (s *reviewService) ListByRestaurant(restaurantID string, offset, limit int) ([]model.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if _, err := s.restaurantRepo.FindByID(restaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrRestaurantNotFound
		}
		return nil, 0, err
	}

	return s.reviewRepo.FindByRestaurantID(restaurantID, offset, limit)
}

// Create inserts a review and recomputes the restaurant's rating columns in
// the same transaction, so the aggregates can never drift from the reviews.
func (s *reviewService) Create(restaurantID, userID string, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.restaurantRepo.FindByID(restaurantID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.FindByRestaurantAndUser(restaurantID, userID); err == nil {
		return nil, ErrAlreadyReviewed
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &model.Review{
		RestaurantID: restaurantID,
		UserID:       userID,
		Rating:       rating,
		Comment:      comment,
	}

	err := s.reviewRepo.WithTx(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return s.restaurantRepo.UpdateAggregates(tx, restaurantID)
	})
	if err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"restaurant_id": restaurantID,
			"user_id":       userID,
		})
		return nil, err
	}

	logger.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"restaurant_id": restaurantID,
		"rating":        rating,
	})

	return review, nil
}

func (s *reviewService) Update(reviewID, userID string, role model.UserRole, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if role != model.RoleAdmin && review.UserID != userID {
		return nil, ErrNotReviewAuthor
	}

	review.Rating = rating
	review.Comment = comment

	err = s.reviewRepo.WithTx(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return s.restaurantRepo.UpdateAggregates(tx, review.RestaurantID)
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

func (s *reviewService) Delete(reviewID, userID string, role model.UserRole) error {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if role != model.RoleAdmin && review.UserID != userID {
		return ErrNotReviewAuthor
	}

	err = s.reviewRepo.WithTx(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.Review{}, "id = ?", reviewID).Error; err != nil {
			return err
		}
		return s.restaurantRepo.UpdateAggregates(tx, review.RestaurantID)
	})
	if err != nil {
		return err
	}

	logger.Info("Review deleted", map[string]interface{}{
		"review_id":     reviewID,
		"restaurant_id": review.RestaurantID,
	})
	return nil
}
