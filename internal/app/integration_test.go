package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/internal/app/controller"
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

type TestServer struct {
	Router      *gin.Engine
	DB          *gorm.DB
	AuthService service.AuthService
}

func setupIntegrationTest(t *testing.T) *TestServer {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	restaurantRepo := repository.NewRestaurantRepository(testDB)
	categoryRepo := repository.NewCategoryRepository(testDB)
	menuItemRepo := repository.NewMenuItemRepository(testDB)
	reviewRepo := repository.NewReviewRepository(testDB)

	authService := service.NewAuthService(
		userRepo,
		"test-secret",
		15*time.Minute,
		7*24*time.Hour,
	)

	hub := ws.NewHub()
	go hub.Run()

	restaurantService := service.NewRestaurantService(testDB, restaurantRepo, nil, hub, "https://menu.example.com")
	menuService := service.NewMenuService(restaurantRepo, categoryRepo, menuItemRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, restaurantRepo)

	authController := controller.NewAuthController(authService, nil)
	restaurantController := controller.NewRestaurantController(restaurantService)
	menuController := controller.NewMenuController(menuService)
	reviewController := controller.NewReviewController(reviewService)

	authMiddleware := middleware.NewAuthMiddleware("test-secret")

	router := gin.New()

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.GET("/me", authMiddleware.Authenticate(), authController.Me)
	}

	restaurants := router.Group("/api/restaurants")
	{
		restaurants.GET("", restaurantController.List)
		restaurants.GET("/slug/:slug", restaurantController.GetMenuBySlug)
		restaurants.GET("/:id/reviews", reviewController.List)
		restaurants.POST("/register", authMiddleware.Authenticate(), restaurantController.Register)
		restaurants.POST("/:id/reviews", authMiddleware.Authenticate(), reviewController.Create)
		restaurants.POST("/:id/menu-items",
			authMiddleware.Authenticate(),
			authMiddleware.RequireRole(string(model.RoleOwner), string(model.RoleAdmin)),
			menuController.CreateMenuItem,
		)
	}

	return &TestServer{
		Router:      router,
		DB:          testDB,
		AuthService: authService,
	}
}

func (ts *TestServer) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.Router.ServeHTTP(w, req)
	return w
}

func (ts *TestServer) registerUser(t *testing.T, role string) (string, string) {
	email := fmt.Sprintf("user-%d@example.com", time.Now().UnixNano())
	w := ts.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":      email,
		"password":   "password123",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User   model.User `json:"user"`
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Tokens.AccessToken)
	return resp.User.ID, resp.Tokens.AccessToken
}

// An owner signs up, opens a restaurant, a diner finds the menu and leaves a
// review, and the restaurant's aggregates reflect it.
func TestIntegration_RestaurantLifecycle(t *testing.T) {
	ts := setupIntegrationTest(t)

	_, ownerToken := ts.registerUser(t, "owner")

	created := ts.doJSON(t, http.MethodPost, "/api/restaurants/register", ownerToken, map[string]string{
		"name":        "Bella Italia",
		"description": "Authentic Italian cuisine",
		"phone":       "+1-555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var createResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))
	restaurantID := createResp.Restaurant.ID
	assert.Equal(t, "bella-italia", createResp.Restaurant.Slug)

	// The public menu page is reachable without a token and carries the
	// seeded starter menu.
	menuResp := ts.doJSON(t, http.MethodGet, "/api/restaurants/slug/bella-italia", "", nil)
	require.Equal(t, http.StatusOK, menuResp.Code)

	var menu service.PublicMenu
	require.NoError(t, json.Unmarshal(menuResp.Body.Bytes(), &menu))
	assert.Len(t, menu.Categories, 3)

	itemTotal := 0
	for _, cat := range menu.Categories {
		itemTotal += len(cat.Items)
	}
	assert.Equal(t, 5, itemTotal)

	// A diner leaves a review; the rating aggregate updates with it.
	_, dinerToken := ts.registerUser(t, "customer")

	reviewResp := ts.doJSON(t, http.MethodPost, "/api/restaurants/"+restaurantID+"/reviews", dinerToken, map[string]interface{}{
		"rating":  5,
		"comment": "The salmon was perfect.",
	})
	require.Equal(t, http.StatusCreated, reviewResp.Code)

	var reloaded model.Restaurant
	require.NoError(t, ts.DB.First(&reloaded, "id = ?", restaurantID).Error)
	assert.Equal(t, 1, reloaded.ReviewCount)
	assert.InDelta(t, 5.0, reloaded.AvgRating, 0.001)
}

// A second registration colliding on the slug is rejected, and the original
// record stays untouched.
func TestIntegration_DuplicateSlugRejected(t *testing.T) {
	ts := setupIntegrationTest(t)

	_, ownerToken := ts.registerUser(t, "owner")

	first := ts.doJSON(t, http.MethodPost, "/api/restaurants/register", ownerToken, map[string]string{
		"name":        "Bella Italia",
		"description": "Authentic Italian cuisine",
		"phone":       "+1-555-0101",
		"address":     "12 Via Roma",
	})
	require.Equal(t, http.StatusOK, first.Code)

	second := ts.doJSON(t, http.MethodPost, "/api/restaurants/register", ownerToken, map[string]string{
		"name":        "BELLA iTALIA",
		"description": "Impostor",
		"phone":       "+1-555-0199",
		"address":     "99 Fake Street",
	})
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, second.Body.String(), "RESTAURANT_SLUG_TAKEN")

	var count int64
	ts.DB.Model(&model.Restaurant{}).Where("slug = ?", "bella-italia").Count(&count)
	assert.Equal(t, int64(1), count)
}

// Menu mutations require the owner role; a customer token is rejected.
func TestIntegration_MenuMutationRequiresOwnerRole(t *testing.T) {
	ts := setupIntegrationTest(t)

	_, ownerToken := ts.registerUser(t, "owner")

	created := ts.doJSON(t, http.MethodPost, "/api/restaurants/register", ownerToken, map[string]string{
		"name":        "Tokyo Sushi Bar",
		"description": "Fresh sushi daily",
		"phone":       "+1-555-0102",
		"address":     "88 Sakura Street",
	})
	require.Equal(t, http.StatusOK, created.Code)

	var createResp struct {
		Restaurant model.Restaurant `json:"restaurant"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &createResp))

	var category model.Category
	require.NoError(t, ts.DB.First(&category, "restaurant_id = ?", createResp.Restaurant.ID).Error)

	itemBody := map[string]interface{}{
		"category_id": category.ID,
		"name":        "Dragon Roll",
		"price_cents": 1800,
	}

	_, customerToken := ts.registerUser(t, "customer")
	denied := ts.doJSON(t, http.MethodPost, "/api/restaurants/"+createResp.Restaurant.ID+"/menu-items", customerToken, itemBody)
	assert.Equal(t, http.StatusForbidden, denied.Code)

	allowed := ts.doJSON(t, http.MethodPost, "/api/restaurants/"+createResp.Restaurant.ID+"/menu-items", ownerToken, itemBody)
	assert.Equal(t, http.StatusCreated, allowed.Code)
}
