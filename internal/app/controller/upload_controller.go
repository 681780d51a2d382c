package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/rotaguide/rota-backend/internal/errors"
	"github.com/rotaguide/rota-backend/internal/middleware"
	"github.com/rotaguide/rota-backend/internal/storage"
)

// ImagePresigner issues direct-to-bucket upload URLs.
type ImagePresigner interface {
	PresignImageUpload(ctx context.Context, folder, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage ImagePresigner
}

func NewUploadController(presigner ImagePresigner) *UploadController {
	return &UploadController{storage: presigner}
}

type GeneratePresignedURLRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // places (default) or reviews
}

// GeneratePresignedURL returns an upload URL and the public URL to put in an image list.
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if ctrl.storage == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "Uploads are not configured")
		return
	}

	var req GeneratePresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Folder == "" {
		req.Folder = storage.FolderPlaces
	}

	resp, err := ctrl.storage.PresignImageUpload(c.Request.Context(), req.Folder, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG and WEBP images are allowed")
		case errors.Is(err, storage.ErrUnknownFolder):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "folder must be places or reviews")
		default:
			log.Error("Failed to presign upload", err, map[string]interface{}{
				"user_id": actor.UserID,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to prepare upload")
		}
		return
	}

	log.Info("Presigned upload issued", map[string]interface{}{
		"user_id": actor.UserID,
		"key":     resp.Key,
	})
	c.JSON(http.StatusOK, resp)
}
