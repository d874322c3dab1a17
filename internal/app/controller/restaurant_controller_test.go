package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/app/repository"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	"github.com/magicmenu/magicmenu-backend/internal/db"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRestaurantControllerTest(t *testing.T) (*gin.Engine, *model.User, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	owner := &model.User{
		Email:        fmt.Sprintf("owner-%d@example.com", time.Now().UnixNano()),
		PasswordHash: "hashed-password",
		FirstName:    "Maria",
		LastName:     "Rossi",
		Role:         model.RoleOwner,
	}
	require.NoError(t, testDB.Create(owner).Error)

	restaurantRepo := repository.NewRestaurantRepository(testDB)
	hub := ws.NewHub()
	go hub.Run()
	restaurantService := service.NewRestaurantService(testDB, restaurantRepo, nil, hub, "https://menu.example.com")
	ctrl := NewRestaurantController(restaurantService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, owner.ID)
		c.Set(middleware.UserRoleKey, string(owner.Role))
		c.Next()
	})
	router.POST("/api/restaurants/register", ctrl.Register)
	router.GET("/api/restaurants/slug/:slug", ctrl.GetMenuBySlug)
	router.POST("/api/restaurants/:id/logo", ctrl.UploadLogo)
	router.POST("/api/restaurants/:id/qr", ctrl.GenerateQR)

	return router, owner, testDB
}

func registerRestaurant(t *testing.T, router *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRestaurantController_Register_Success(t *testing.T) {
	router, owner, testDB := setupRestaurantControllerTest(t)

	w := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bella-italia", resp.Restaurant.Slug)
	require.NotNil(t, resp.Restaurant.OwnerUserID)
	assert.Equal(t, owner.ID, *resp.Restaurant.OwnerUserID)

	// Starter menu is seeded with the registration.
	var categoryCount, itemCount int64
	testDB.Model(&model.Category{}).Where("restaurant_id = ?", resp.Restaurant.ID).Count(&categoryCount)
	testDB.Model(&model.MenuItem{}).Where("restaurant_id = ?", resp.Restaurant.ID).Count(&itemCount)
	assert.Equal(t, int64(3), categoryCount)
	assert.Equal(t, int64(5), itemCount)
}

func TestRestaurantController_Register_MissingField(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	w := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"address":     "12 Via Roma",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_REQUIRED")
	assert.Contains(t, w.Body.String(), "phone")
}

func TestRestaurantController_Register_DuplicateSlug(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	first := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, first.Code)

	// Different casing and punctuation collapse to the same slug.
	second := registerRestaurant(t, router, map[string]string{
		"name":        "Bella   ITALIA!",
		"description": "Impostor",
		"phone":       "555-0102",
		"address":     "13 Via Roma",
	})

	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "RESTAURANT_SLUG_TAKEN")
}

func TestRestaurantController_GetMenuBySlug(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	created := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, created.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/restaurants/slug/bella-italia", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var menu service.PublicMenu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menu))
	assert.Equal(t, "Bella Italia", menu.Restaurant.Name)
	assert.Len(t, menu.Categories, 3)
}

func TestRestaurantController_GetMenuBySlug_NotFound(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/restaurants/slug/no-such-place", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESTAURANT_NOT_FOUND")
}

func uploadLogo(t *testing.T, router *gin.Engine, restaurantID, contentType string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="logo"; filename="logo.png"`}
	header["Content-Type"] = []string{contentType}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/"+restaurantID+"/logo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRestaurantController_UploadLogo(t *testing.T) {
	router, _, testDB := setupRestaurantControllerTest(t)

	created := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := uploadLogo(t, router, resp.Restaurant.ID, "image/png", []byte("fake-png-bytes"))
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.URL)

	var reloaded model.Restaurant
	require.NoError(t, testDB.First(&reloaded, "id = ?", resp.Restaurant.ID).Error)
	assert.Equal(t, body.URL, reloaded.LogoURL)
}

func TestRestaurantController_UploadLogo_InvalidType(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	created := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	w := uploadLogo(t, router, resp.Restaurant.ID, "application/pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UPLOAD_INVALID_FILE_TYPE")
}

func TestRestaurantController_UploadLogo_UnknownRestaurant(t *testing.T) {
	router, _, _ := setupRestaurantControllerTest(t)

	w := uploadLogo(t, router, "00000000-0000-0000-0000-000000000000", "image/png", []byte("fake"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESTAURANT_NOT_FOUND")
}

func TestRestaurantController_GenerateQR(t *testing.T) {
	router, _, testDB := setupRestaurantControllerTest(t)

	created := registerRestaurant(t, router, map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/"+resp.Restaurant.ID+"/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		QRURL string `json:"qr_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	// Without object storage configured the QR comes back as a data URL.
	assert.Contains(t, body.QRURL, "data:image/png;base64,")

	var reloaded model.Restaurant
	require.NoError(t, testDB.First(&reloaded, "id = ?", resp.Restaurant.ID).Error)
	assert.Equal(t, body.QRURL, reloaded.QRURL)
}
