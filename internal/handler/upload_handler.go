package handler

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"canebill/internal/storage"
	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MB

var allowedUploadTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

type UploadHandler struct {
	uploader storage.Uploader
}

func NewUploadHandler(uploader storage.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/upload", h.upload)
}

// upload stores the file from the "pdf" multipart field and returns its
// public URL. Despite the field name, images are accepted too.
// @Summary      Upload a document to object storage
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        pdf  formData  file  true  "File to upload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /api/upload [post]
func (h *UploadHandler) upload(c *gin.Context) {
	if h.uploader == nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Object storage is not configured"))
		return
	}

	fileHeader, err := c.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "No file uploaded in field 'pdf'"))
		return
	}

	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "File exceeds the 10MB upload limit"))
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedUploadTypes[ext]
	if !ok {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Unsupported file type, expected png, jpg, jpeg, gif or pdf"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to read uploaded file"))
		return
	}
	if int64(len(data)) > maxUploadSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "File exceeds the 10MB upload limit"))
		return
	}

	base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), ext)
	key := fmt.Sprintf("uploads/%s_%d_%d%s", base, time.Now().UnixMilli(), rand.Intn(1e7), ext)

	url, err := h.uploader.Upload(c.Request.Context(), key, contentType, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Upload failed: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"url":          url,
		"key":          key,
		"originalName": fileHeader.Filename,
	}))
}
