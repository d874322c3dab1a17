package controller

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/demo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDemoControllerTest(t *testing.T) (*gin.Engine, demo.RecordStore) {
	store := demo.NewMemoryStore()
	resolver := demo.NewResolver(store, nil, nil, nil, nil, nil, nil)
	mirror := demo.NewMirror(store)
	ctrl := NewDemoController(resolver, mirror, "https://menu.example.com")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/restaurants/register", ctrl.Register)
	router.GET("/api/restaurants/slug/:slug", ctrl.GetMenuBySlug)
	router.POST("/api/restaurants/:id/logo", ctrl.UploadLogo)
	router.POST("/api/restaurants/:id/qr", ctrl.GenerateQR)

	return router, store
}

func registerDemoRestaurant(t *testing.T, router *gin.Engine) model.Restaurant {
	payload, err := json.Marshal(map[string]string{
		"name":        "Bella Italia",
		"description": "Family-run trattoria",
		"phone":       "555-0101",
		"address":     "12 Via Roma",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/register", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Restaurant
}

func uploadDemoLogo(t *testing.T, router *gin.Engine, restaurantID, contentType string, data []byte) *httptest.ResponseRecorder {
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

func TestDemoController_UploadLogo(t *testing.T) {
	router, store := setupDemoControllerTest(t)
	restaurant := registerDemoRestaurant(t, router)

	w := uploadDemoLogo(t, router, restaurant.ID, "image/png", []byte("fake-png-bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.URL, "data:image/png;base64,"))

	// The new logo replaces the placeholder on the stored record.
	var restaurants []model.Restaurant
	require.NoError(t, store.Read(demo.CollectionRestaurants, &restaurants))
	require.Len(t, restaurants, 1)
	assert.Equal(t, resp.URL, restaurants[0].LogoURL)
}

func TestDemoController_UploadLogo_InvalidType(t *testing.T) {
	router, _ := setupDemoControllerTest(t)
	restaurant := registerDemoRestaurant(t, router)

	w := uploadDemoLogo(t, router, restaurant.ID, "application/pdf", []byte("%PDF-1.4"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UPLOAD_INVALID_FILE_TYPE")
}

func TestDemoController_UploadLogo_NotFound(t *testing.T) {
	router, _ := setupDemoControllerTest(t)

	w := uploadDemoLogo(t, router, "no-such-id", "image/png", []byte("fake-png-bytes"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "RESTAURANT_NOT_FOUND")
}

func TestDemoController_GenerateQR(t *testing.T) {
	router, store := setupDemoControllerTest(t)
	restaurant := registerDemoRestaurant(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/"+restaurant.ID+"/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		QRURL string `json:"qr_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.QRURL, "data:image/png;base64,"))

	var restaurants []model.Restaurant
	require.NoError(t, store.Read(demo.CollectionRestaurants, &restaurants))
	require.Len(t, restaurants, 1)
	assert.Equal(t, resp.QRURL, restaurants[0].QRURL)
}

func TestDemoController_GenerateQR_NotFound(t *testing.T) {
	router, _ := setupDemoControllerTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/restaurants/no-such-id/qr", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
