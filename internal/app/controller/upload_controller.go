package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hazique/iotstore-backend/internal/errors"
	"github.com/hazique/iotstore-backend/internal/middleware"
	"github.com/hazique/iotstore-backend/internal/storage"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

var allowedUploadFolders = map[string]bool{
	"product-images":  true,
	"use-case-images": true,
}

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
	Folder      string `json:"folder" binding:"required"`
}

// GeneratePresignedURL issues a short-lived S3 upload URL (Admin only)
// POST /api/uploads/presign
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presign request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if !allowedUploadFolders[req.Folder] {
		apperrors.BadRequest(c, apperrors.UploadFailed, "Invalid upload folder")
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
		log.Warn("Upload rejected: file too large", map[string]interface{}{
			"file_size": req.FileSize,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "File too large")
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Upload rejected: invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Invalid file type")
		return
	}

	resp, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, req.Folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.InternalError(c, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": resp.Key,
	})

	c.JSON(http.StatusOK, resp)
}
