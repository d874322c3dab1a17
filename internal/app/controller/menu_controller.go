package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
)

type MenuController struct {
	menuService service.MenuService
}

func NewMenuController(menuService service.MenuService) *MenuController {
	return &MenuController{menuService: menuService}
}

type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

type MenuItemRequest struct {
	CategoryID   string           `json:"category_id" binding:"required"`
	Name         string           `json:"name" binding:"required"`
	Description  string           `json:"description"`
	PriceCents   int64            `json:"price_cents"`
	CurrencyCode string           `json:"currency_code"`
	ImageURL     string           `json:"image_url"`
	Ingredients  string           `json:"ingredients"`
	Allergens    string           `json:"allergens"`
	Nutrition    *model.Nutrition `json:"nutrition"`
	IsActive     *bool            `json:"is_active"`
}

func (r MenuItemRequest) toInput() service.MenuItemInput {
	return service.MenuItemInput{
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Description:  r.Description,
		PriceCents:   r.PriceCents,
		CurrencyCode: r.CurrencyCode,
		ImageURL:     r.ImageURL,
		Ingredients:  r.Ingredients,
		Allergens:    r.Allergens,
		Nutrition:    r.Nutrition,
		IsActive:     r.IsActive,
	}
}

func respondMenuError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
	case errors.Is(err, service.ErrCategoryNotFound):
		apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
	case errors.Is(err, service.ErrMenuItemNotFound):
		apperrors.NotFound(c, apperrors.MenuItemNotFound, "Menu item not found")
	case errors.Is(err, service.ErrNotOwner):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.RestaurantNotOwned, "You do not own this restaurant")
	case errors.Is(err, service.ErrInvalidPrice):
		apperrors.BadRequest(c, apperrors.MenuInvalidPrice, "Price must be zero or greater")
	case errors.Is(err, service.ErrCategoryNotEmpty):
		apperrors.Conflict(c, apperrors.ResourceConflict, "Category still has menu items")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// ListCategories returns a restaurant's menu categories.
// GET /api/restaurants/:id/categories
func (ctrl *MenuController) ListCategories(c *gin.Context) {
	categories, err := ctrl.menuService.ListCategories(c.Param("id"))
	if err != nil {
		respondMenuError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory adds a category to a restaurant's menu.
// POST /api/restaurants/:id/categories
func (ctrl *MenuController) CreateCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.menuService.CreateCategory(c.Param("id"), userID, role, service.CategoryInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondMenuError(c, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": category,
	})
}

// UpdateCategory renames or reorders a category.
// PUT /api/categories/:id
func (ctrl *MenuController) UpdateCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.menuService.UpdateCategory(c.Param("id"), userID, role, service.CategoryInput{
		Name:      req.Name,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondMenuError(c, err, "update category")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": category,
	})
}

// DeleteCategory removes an empty category.
// DELETE /api/categories/:id
func (ctrl *MenuController) DeleteCategory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.menuService.DeleteCategory(c.Param("id"), userID, role); err != nil {
		respondMenuError(c, err, "delete category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

// ListMenuItems returns a restaurant's menu items, optionally scoped to a
// category.
// GET /api/restaurants/:id/menu-items
func (ctrl *MenuController) ListMenuItems(c *gin.Context) {
	activeOnly := c.DefaultQuery("active_only", "false") == "true"

	items, err := ctrl.menuService.ListMenuItems(c.Param("id"), c.Query("category_id"), activeOnly)
	if err != nil {
		respondMenuError(c, err, "list menu items")
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetMenuItem returns a single menu item.
// GET /api/menu-items/:id
func (ctrl *MenuController) GetMenuItem(c *gin.Context) {
	item, err := ctrl.menuService.GetMenuItem(c.Param("id"))
	if err != nil {
		respondMenuError(c, err, "fetch menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"item": item})
}

// CreateMenuItem adds a dish to a restaurant's menu.
// POST /api/restaurants/:id/menu-items
func (ctrl *MenuController) CreateMenuItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid menu item details")
		return
	}

	item, err := ctrl.menuService.CreateMenuItem(c.Param("id"), userID, role, req.toInput())
	if err != nil {
		respondMenuError(c, err, "create menu item")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Menu item created successfully",
		"item":    item,
	})
}

// UpdateMenuItem edits a dish.
// PUT /api/menu-items/:id
func (ctrl *MenuController) UpdateMenuItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid menu item details")
		return
	}

	item, err := ctrl.menuService.UpdateMenuItem(c.Param("id"), userID, role, req.toInput())
	if err != nil {
		respondMenuError(c, err, "update menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Menu item updated successfully",
		"item":    item,
	})
}

// DeleteMenuItem removes a dish from the menu.
// DELETE /api/menu-items/:id
func (ctrl *MenuController) DeleteMenuItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}
	role, _ := middleware.GetUserRole(c)

	if err := ctrl.menuService.DeleteMenuItem(c.Param("id"), userID, role); err != nil {
		respondMenuError(c, err, "delete menu item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
