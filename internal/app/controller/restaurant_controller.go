package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
)

type RestaurantController struct {
	restaurantService service.RestaurantService
}

func NewRestaurantController(restaurantService service.RestaurantService) *RestaurantController {
	return &RestaurantController{restaurantService: restaurantService}
}

type RegisterRestaurantRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Slug        string `json:"slug"`
}

type UpdateRestaurantRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// Register creates a restaurant with its starter menu.
// POST /api/restaurants/register
func (ctrl *RestaurantController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant details")
		return
	}

	userID, _ := middleware.GetUserID(c)

	restaurant, err := ctrl.restaurantService.Register(service.RegisterRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
		Slug:        req.Slug,
		OwnerUserID: userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingRequiredField):
			apperrors.BadRequest(c, apperrors.ValidationRequired, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			apperrors.BadRequest(c, apperrors.RestaurantSlugTaken, "Restaurant name is already taken")
		default:
			log.Error("Restaurant registration failed", err, map[string]interface{}{
				"name": req.Name,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "register restaurant")
		}
		return
	}

	log.Info("Restaurant registered", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant registered successfully",
		"restaurant": restaurant,
	})
}

// List returns restaurants with optional search and pagination.
// GET /api/restaurants
func (ctrl *RestaurantController) List(c *gin.Context) {
	search := c.Query("search")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	restaurants, total, err := ctrl.restaurantService.List(search, (page-1)*limit, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list restaurants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// Get returns a single restaurant by ID.
// GET /api/restaurants/:id
func (ctrl *RestaurantController) Get(c *gin.Context) {
	restaurant, err := ctrl.restaurantService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch restaurant")
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenuBySlug returns the public menu page payload for a restaurant.
// GET /api/restaurants/slug/:slug
func (ctrl *RestaurantController) GetMenuBySlug(c *gin.Context) {
	menu, err := ctrl.restaurantService.GetPublicMenu(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "fetch menu")
		return
	}

	c.JSON(http.StatusOK, menu)
}

// Update edits restaurant details. Owner or admin only.
// PUT /api/restaurants/:id
func (ctrl *RestaurantController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant details")
		return
	}

	restaurant, err := ctrl.restaurantService.Update(c.Param("id"), userID, role, service.UpdateRestaurantInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Address:     req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrNotOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.RestaurantNotOwned, "You do not own this restaurant")
		default:
			log.Error("Restaurant update failed", err, map[string]interface{}{
				"restaurant_id": c.Param("id"),
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant updated successfully",
		"restaurant": restaurant,
	})
}

// Delete soft-deletes a restaurant. Owner or admin only.
// DELETE /api/restaurants/:id
func (ctrl *RestaurantController) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.restaurantService.Delete(c.Param("id"), userID, role); err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrNotOwner):
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.RestaurantNotOwned, "You do not own this restaurant")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Restaurant deleted successfully"})
}

// UploadLogo receives a multipart logo image and stores it.
// POST /api/restaurants/:id/logo
func (ctrl *RestaurantController) UploadLogo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A logo file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "Failed to read the uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxLogoSize+1))
	if err != nil {
		apperrors.InternalError(c, "Failed to read the uploaded file")
		return
	}

	url, err := ctrl.restaurantService.UploadLogo(
		c.Request.Context(),
		c.Param("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		data,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRestaurantNotFound):
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		case errors.Is(err, service.ErrInvalidFileType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed")
		case errors.Is(err, service.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Logo must be 5MB or smaller")
		default:
			log.Error("Logo upload failed", err, map[string]interface{}{
				"restaurant_id": c.Param("id"),
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "upload logo")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GenerateQR creates the QR code image pointing at the public menu page.
// POST /api/restaurants/:id/qr
func (ctrl *RestaurantController) GenerateQR(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	url, err := ctrl.restaurantService.GenerateQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRestaurantNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("QR generation failed", err, map[string]interface{}{
			"restaurant_id": c.Param("id"),
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "generate qr code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_url": url})
}
