package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/pkg/places"
)

type PlacesController struct {
	placesClient *places.Client
}

func NewPlacesController(placesClient *places.Client) *PlacesController {
	return &PlacesController{placesClient: placesClient}
}

// Nearby proxies a nearby-restaurant search so the provider key stays on the
// server.
// GET /api/places/nearby?lat=..&lng=..&radius=..
func (ctrl *PlacesController) Nearby(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr == "" || lngStr == "" {
		apperrors.BadRequest(c, apperrors.PlacesMissingCoords, "lat and lng query parameters are required")
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.PlacesMissingCoords, "lat must be a number")
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		apperrors.BadRequest(c, apperrors.PlacesMissingCoords, "lng must be a number")
		return
	}
	radius, _ := strconv.Atoi(c.DefaultQuery("radius", "0"))

	results, err := ctrl.placesClient.NearbyRestaurants(c.Request.Context(), lat, lng, radius)
	if err != nil {
		var provErr *places.ProviderError
		switch {
		case errors.Is(err, places.ErrMissingAPIKey):
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.PlacesKeyNotConfigured, "Places search is not configured")
		case errors.As(err, &provErr):
			log.Warn("Places provider returned an error", map[string]interface{}{
				"status": provErr.Status,
			})
			apperrors.BadRequest(c, apperrors.PlacesProviderError, "Places search failed")
		default:
			log.Error("Places request failed", err, nil)
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "search nearby places")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
