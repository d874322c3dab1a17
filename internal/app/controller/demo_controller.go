package controller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	"github.com/magicmenu/magicmenu-backend/internal/demo"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/pkg/qrcode"
	"github.com/magicmenu/magicmenu-backend/pkg/util"
)

// DemoController serves the data endpoints when the process runs in demo
// mode: reads go through the fallback resolver, writes through the mutation
// mirror. The live controllers are never consulted.
type DemoController struct {
	resolver *demo.Resolver
	mirror   *demo.Mirror
	appURL   string
}

func NewDemoController(resolver *demo.Resolver, mirror *demo.Mirror, appURL string) *DemoController {
	return &DemoController{resolver: resolver, mirror: mirror, appURL: appURL}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Register creates a demo restaurant with its seeded starter menu.
// POST /api/restaurants/register
func (ctrl *DemoController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var form demo.RestaurantForm
	if err := c.ShouldBindJSON(&form); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid restaurant details")
		return
	}

	restaurant, err := ctrl.mirror.CreateRestaurant(form)
	if err != nil {
		switch {
		case errors.Is(err, demo.ErrMissingField):
			apperrors.BadRequest(c, apperrors.ValidationRequired, err.Error())
		case errors.Is(err, demo.ErrSlugTaken):
			apperrors.BadRequest(c, apperrors.RestaurantSlugTaken, "Restaurant name is already taken")
		default:
			log.Error("Demo restaurant registration failed", err, nil)
			apperrors.InternalError(c, "Failed to register the restaurant")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Restaurant registered successfully",
		"restaurant": restaurant,
	})
}

// List returns every resolvable restaurant.
// GET /api/restaurants
func (ctrl *DemoController) List(c *gin.Context) {
	search := c.Query("search")

	restaurants := ctrl.resolver.Restaurants(nil)
	if search != "" {
		restaurants = ctrl.resolver.Restaurants(func(r model.Restaurant) bool {
			return containsFold(r.Name, search) || containsFold(r.Address, search)
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurants": restaurants,
		"total":       len(restaurants),
	})
}

// GetMenuBySlug assembles the public menu payload from resolved collections.
// GET /api/restaurants/slug/:slug
func (ctrl *DemoController) GetMenuBySlug(c *gin.Context) {
	slug := c.Param("slug")

	restaurant, ok := ctrl.resolver.RestaurantBySlug(slug)
	if !ok {
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		return
	}

	categories := ctrl.resolver.Categories(func(cat model.Category) bool {
		return cat.RestaurantID == restaurant.ID
	})
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].SortOrder < categories[j].SortOrder
	})

	items := ctrl.resolver.MenuItems(func(item model.MenuItem) bool {
		return item.RestaurantID == restaurant.ID && item.IsActive
	})

	type menuCategory struct {
		model.Category
		Items []model.MenuItem `json:"items"`
	}

	menu := make([]menuCategory, 0, len(categories))
	for _, cat := range categories {
		entry := menuCategory{Category: cat, Items: []model.MenuItem{}}
		for _, item := range items {
			if item.CategoryID == cat.ID {
				entry.Items = append(entry.Items, item)
			}
		}
		menu = append(menu, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant,
		"categories": menu,
	})
}

// ListReviews returns a restaurant's resolvable reviews.
// GET /api/restaurants/:id/reviews
func (ctrl *DemoController) ListReviews(c *gin.Context) {
	restaurantID := c.Param("id")

	reviews := ctrl.resolver.Reviews(func(r model.Review) bool {
		return r.RestaurantID == restaurantID
	})

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

func (ctrl *DemoController) restaurantByID(id string) (*model.Restaurant, bool) {
	matches := ctrl.resolver.Restaurants(func(r model.Restaurant) bool {
		return r.ID == id
	})
	if len(matches) == 0 {
		return nil, false
	}
	return &matches[0], true
}

// UploadLogo stores the logo inline as a data URL on the demo record. There
// is no object storage in demo mode.
// POST /api/restaurants/:id/logo
func (ctrl *DemoController) UploadLogo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurant, ok := ctrl.restaurantByID(c.Param("id"))
	if !ok {
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		return
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A logo file is required")
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed")
		return
	}
	if fileHeader.Size > service.MaxLogoSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Logo must be 5MB or smaller")
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
	if int64(len(data)) > service.MaxLogoSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Logo must be 5MB or smaller")
		return
	}

	url := util.DataURL(contentType, data)
	if err := ctrl.mirror.UpdateRecord(demo.CollectionRestaurants, restaurant.ID, map[string]interface{}{
		"logo_url": url,
	}); err != nil {
		if errors.Is(err, demo.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Demo logo upload failed", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		apperrors.InternalError(c, "Failed to store the logo")
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// GenerateQR renders the public menu QR code as a data URL and persists it
// on the demo record.
// POST /api/restaurants/:id/qr
func (ctrl *DemoController) GenerateQR(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurant, ok := ctrl.restaurantByID(c.Param("id"))
	if !ok {
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		return
	}

	menuURL := fmt.Sprintf("%s/r/%s?src=qr", ctrl.appURL, restaurant.Slug)
	qrURL, err := qrcode.GenerateDataURL(menuURL)
	if err != nil {
		log.Error("Demo QR generation failed", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		apperrors.InternalError(c, "Failed to generate the QR code")
		return
	}

	if err := ctrl.mirror.UpdateRecord(demo.CollectionRestaurants, restaurant.ID, map[string]interface{}{
		"qr_url": qrURL,
	}); err != nil {
		if errors.Is(err, demo.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
			return
		}
		log.Error("Demo QR generation failed", err, map[string]interface{}{
			"restaurant_id": restaurant.ID,
		})
		apperrors.InternalError(c, "Failed to store the QR code")
		return
	}

	c.JSON(http.StatusOK, gin.H{"qr_url": qrURL})
}

type demoPatchRequest struct {
	Collection string                 `json:"collection" binding:"required"`
	Patch      map[string]interface{} `json:"patch" binding:"required"`
}

// UpdateRecord merges a patch into one demo record.
// PATCH /api/demo/records/:id
func (ctrl *DemoController) UpdateRecord(c *gin.Context) {
	var req demoPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Collection and patch are required")
		return
	}

	if err := ctrl.mirror.UpdateRecord(req.Collection, c.Param("id"), req.Patch); err != nil {
		if errors.Is(err, demo.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Record not found")
			return
		}
		apperrors.InternalError(c, "Failed to update the record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated successfully"})
}

// DeleteRecord removes one demo record. Related records are left in place.
// DELETE /api/demo/records/:id?collection=..
func (ctrl *DemoController) DeleteRecord(c *gin.Context) {
	collection := c.Query("collection")
	if collection == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "A collection query parameter is required")
		return
	}

	if err := ctrl.mirror.DeleteRecord(collection, c.Param("id")); err != nil {
		if errors.Is(err, demo.ErrRecordNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Record not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete the record")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted successfully"})
}
