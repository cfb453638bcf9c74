package handlers

import (
	"encoding/base64"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/httpresp"
	"github.com/fitlifehq/gym-api/internal/middleware"
	"github.com/fitlifehq/gym-api/internal/storage"
)

const maxUploadBytes = 5 << 20

type MediaHandler struct {
	db    *gorm.DB
	store *storage.S3Store
}

func NewMediaHandler(db *gorm.DB, store *storage.S3Store) *MediaHandler {
	return &MediaHandler{db: db, store: store}
}

// UploadAvatar accepts a multipart image, stores it and points the caller's
// profile at the new URL.
func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	url, ok := h.upload(c, "avatars")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.db.Model(user).Update("avatar", url).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not update the profile.")
		return
	}

	httpresp.OKMessage(c, "Avatar updated.", gin.H{"url": url})
}

// UploadMedia stores an image for use in social posts and returns its URL.
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	url, ok := h.upload(c, "posts")
	if !ok {
		return
	}
	httpresp.Created(c, "Media uploaded.", gin.H{"url": url})
}

type base64Upload struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type"`
	Data        string `json:"data" binding:"required"`
}

func (h *MediaHandler) upload(c *gin.Context, folder string) (string, bool) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		return h.uploadBase64(c, folder)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "A file field is required.")
		return "", false
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Files may be at most 5 MB.")
		return "", false
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not read the upload.")
		return "", false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		httperr.Internal(c, "internal_error", "Could not read the upload.")
		return "", false
	}

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.store.Upload(c.Request.Context(), folder, fileHeader.Filename, contentType, data)
	if writeBusiness(c, err) {
		return "", false
	}
	return url, true
}

func (h *MediaHandler) uploadBase64(c *gin.Context, folder string) (string, bool) {
	var req base64Upload
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return "", false
	}

	// tolerate data-URL payloads
	raw := req.Data
	if i := strings.Index(raw, ","); i >= 0 && strings.HasPrefix(raw, "data:") {
		raw = raw[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_request", "The data field must be base64 encoded.")
		return "", false
	}
	if len(data) > maxUploadBytes {
		httperr.BadRequest(c, "file_too_large", "Files may be at most 5 MB.")
		return "", false
	}

	url, err := h.store.Upload(c.Request.Context(), folder, req.Filename, req.ContentType, data)
	if writeBusiness(c, err) {
		return "", false
	}
	return url, true
}
