package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/magicmenu/magicmenu-backend/internal/app/service"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The menu page is public; origin checks add nothing here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSController upgrades menu-page connections into hub subscriptions.
type WSController struct {
	hub               *ws.Hub
	restaurantService service.RestaurantService
}

func NewWSController(hub *ws.Hub, restaurantService service.RestaurantService) *WSController {
	return &WSController{hub: hub, restaurantService: restaurantService}
}

// SubscribeMenu upgrades the connection and streams menu.updated events for
// one restaurant.
// GET /api/ws/menu/:slug
func (ctrl *WSController) SubscribeMenu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	slug := c.Param("slug")

	// Reject unknown slugs before paying for the upgrade.
	if _, err := ctrl.restaurantService.GetPublicMenu(c.Request.Context(), slug); err != nil {
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "Restaurant not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WebSocket upgrade failed", err, map[string]interface{}{
			"slug": slug,
		})
		return
	}

	client := &ws.Client{
		Hub:  ctrl.hub,
		Conn: &ws.Conn{Conn: conn},
		Slug: slug,
		Send: make(chan []byte, 256),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
