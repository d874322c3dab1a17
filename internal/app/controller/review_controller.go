package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
)

type ReviewController struct {
	reviewService service.ReviewService
}

func NewReviewController(reviewService service.ReviewService) *ReviewController {
	return &ReviewController{reviewService: reviewService}
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

func respondReviewError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
	case errors.Is(err, service.ErrReviewNotFound):
		apperrors.NotFound(c, apperrors.ReviewNotFound, "Review not found")
	case errors.Is(err, service.ErrInvalidRating):
		apperrors.BadRequest(c, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5")
	case errors.Is(err, service.ErrAlreadyReviewed):
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "You have already reviewed this restaurant")
	case errors.Is(err, service.ErrNotReviewAuthor):
		apperrors.Forbidden(c, "You can only modify your own reviews")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// List returns a restaurant's reviews, newest first.
// GET /api/restaurants/:id/reviews
func (ctrl *ReviewController) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	reviews, total, err := ctrl.reviewService.ListByRestaurant(c.Param("id"), (page-1)*limit, limit)
	if err != nil {
		respondReviewError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// Create adds a review for a restaurant. One review per diner.
// POST /api/restaurants/:id/reviews
func (ctrl *ReviewController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A rating is required")
		return
	}

	review, err := ctrl.reviewService.Create(c.Param("id"), userID, req.Rating, req.Comment)
	if err != nil {
		respondReviewError(c, err, "create review")
		return
	}

	log.Info("Review created", map[string]interface{}{
		"review_id":     review.ID,
		"restaurant_id": c.Param("id"),
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

// Update edits the caller's own review. Admins may edit any review.
// PUT /api/reviews/:id
func (ctrl *ReviewController) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A rating is required")
		return
	}

	review, err := ctrl.reviewService.Update(c.Param("id"), userID, role, req.Rating, req.Comment)
	if err != nil {
		respondReviewError(c, err, "update review")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// Delete removes the caller's own review. Admins may delete any review.
// DELETE /api/reviews/:id
func (ctrl *ReviewController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.reviewService.Delete(c.Param("id"), userID, role); err != nil {
		respondReviewError(c, err, "delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
