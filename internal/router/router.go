package router

import (
	"github.com/gin-gonic/gin"
	"github.com/magicmenu/magicmenu-backend/config"
	"github.com/magicmenu/magicmenu-backend/internal/app/controller"
	"github.com/magicmenu/magicmenu-backend/internal/app/model"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	restaurantController *controller.RestaurantController
	menuController       *controller.MenuController
	reviewController     *controller.ReviewController
	placesController     *controller.PlacesController
	adminController      *controller.AdminController
	uploadController     *controller.UploadController
	wsController         *controller.WSController
	demoController       *controller.DemoController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	restaurantController *controller.RestaurantController,
	menuController *controller.MenuController,
	reviewController *controller.ReviewController,
	placesController *controller.PlacesController,
	adminController *controller.AdminController,
	uploadController *controller.UploadController,
	wsController *controller.WSController,
	demoController *controller.DemoController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		restaurantController: restaurantController,
		menuController:       menuController,
		reviewController:     reviewController,
		placesController:     placesController,
		adminController:      adminController,
		uploadController:     uploadController,
		wsController:         wsController,
		demoController:       demoController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MagicMenu API is running",
		})
	})

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", r.authController.Register)
		auth.POST("/login", r.authController.Login)
		auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		auth.POST("/forgot-password", r.authController.ForgotPassword)
		auth.POST("/reset-password", r.authController.ResetPassword)
		auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
	}

	if r.config.App.Mode == config.ModeDemo {
		r.setupDemoRoutes(api)
	} else {
		r.setupLiveRoutes(api)
	}

	places := api.Group("/places")
	{
		places.GET("/nearby", r.placesController.Nearby)
	}

	api.GET("/ws/menu/:slug", r.wsController.SubscribeMenu)

	return router
}

// setupLiveRoutes wires the database-backed controllers.
func (r *Router) setupLiveRoutes(api *gin.RouterGroup) {
	ownerRoles := []string{string(model.RoleOwner), string(model.RoleAdmin)}

	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", r.restaurantController.List)
		restaurants.GET("/slug/:slug", r.restaurantController.GetMenuBySlug)
		restaurants.GET("/:id", r.restaurantController.Get)
		restaurants.GET("/:id/categories", r.menuController.ListCategories)
		restaurants.GET("/:id/menu-items", r.menuController.ListMenuItems)
		restaurants.GET("/:id/reviews", r.reviewController.List)

		// Any authenticated user may open a restaurant; ownership checks
		// guard the mutations that follow.
		restaurants.POST("/register",
			r.authMiddleware.Authenticate(),
			r.restaurantController.Register,
		)
		restaurants.PUT("/:id",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.restaurantController.Update,
		)
		restaurants.DELETE("/:id",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.restaurantController.Delete,
		)
		restaurants.POST("/:id/logo",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.restaurantController.UploadLogo,
		)
		restaurants.POST("/:id/qr",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.restaurantController.GenerateQR,
		)
		restaurants.POST("/:id/categories",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.menuController.CreateCategory,
		)
		restaurants.POST("/:id/menu-items",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.menuController.CreateMenuItem,
		)
		restaurants.POST("/:id/reviews",
			r.authMiddleware.Authenticate(),
			r.reviewController.Create,
		)
	}

	categories := api.Group("/categories")
	categories.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(ownerRoles...))
	{
		categories.PUT("/:id", r.menuController.UpdateCategory)
		categories.DELETE("/:id", r.menuController.DeleteCategory)
	}

	menuItems := api.Group("/menu-items")
	{
		menuItems.GET("/:id", r.menuController.GetMenuItem)
		menuItems.PUT("/:id",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.menuController.UpdateMenuItem,
		)
		menuItems.DELETE("/:id",
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(ownerRoles...),
			r.menuController.DeleteMenuItem,
		)
	}

	reviews := api.Group("/reviews")
	reviews.Use(r.authMiddleware.Authenticate())
	{
		reviews.PUT("/:id", r.reviewController.Update)
		reviews.DELETE("/:id", r.reviewController.Delete)
	}

	admin := api.Group("/admin")
	admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(string(model.RoleAdmin)))
	{
		admin.GET("/users", r.adminController.ListUsers)
		admin.PUT("/users/:id/role", r.adminController.UpdateUserRole)
	}

	uploads := api.Group("/uploads")
	uploads.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(ownerRoles...))
	{
		uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
	}
}

// setupDemoRoutes wires the resolver/mirror-backed controllers. Demo mode is
// unauthenticated; the whole surface works against the local record store.
func (r *Router) setupDemoRoutes(api *gin.RouterGroup) {
	restaurants := api.Group("/restaurants")
	{
		restaurants.GET("", r.demoController.List)
		restaurants.GET("/slug/:slug", r.demoController.GetMenuBySlug)
		restaurants.GET("/:id/reviews", r.demoController.ListReviews)
		restaurants.POST("/register", r.demoController.Register)
		restaurants.POST("/:id/logo", r.demoController.UploadLogo)
		restaurants.POST("/:id/qr", r.demoController.GenerateQR)
	}

	records := api.Group("/demo/records")
	{
		records.PATCH("/:id", r.demoController.UpdateRecord)
		records.DELETE("/:id", r.demoController.DeleteRecord)
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
