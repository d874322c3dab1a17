package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/magicmenu/magicmenu-backend/internal/errors"
	"github.com/magicmenu/magicmenu-backend/internal/middleware"
	"github.com/magicmenu/magicmenu-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(store *storage.S3Storage) *UploadController {
	return &UploadController{storage: store}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"`
}

// GeneratePresignedURL hands out a short-lived S3 PUT URL for direct image
// uploads from the dashboard.
// POST /api/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	if !ctrl.storage.Enabled() {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "Direct uploads are not configured")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, []string{"image/*"}); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "uploads"
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
			"folder":   folder,
		})
		apperrors.InternalError(c, "Failed to generate an upload URL")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
