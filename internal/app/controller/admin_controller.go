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

// AdminController holds the admin-only user management endpoints.
type AdminController struct {
	authService service.AuthService
}

func NewAdminController(authService service.AuthService) *AdminController {
	return &AdminController{authService: authService}
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// ListUsers returns all users with pagination.
// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}

	users, total, err := ctrl.authService.ListUsers((page-1)*limit, limit)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// UpdateUserRole changes a user's role.
// PUT /api/admin/users/:id/role
func (ctrl *AdminController) UpdateUserRole(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A role is required")
		return
	}

	user, err := ctrl.authService.UpdateUserRole(c.Param("id"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "User not found")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown role")
		default:
			log.Error("Role update failed", err, map[string]interface{}{
				"user_id": c.Param("id"),
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user role")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Role updated successfully",
		"user":    user,
	})
}
