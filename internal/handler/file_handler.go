package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/aie-portal-api/internal/models"
	"github.com/noah-isme/aie-portal-api/internal/service"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/response"
)

// multipartOverhead is the allowance for form fields and boundaries on top of the file limit.
const multipartOverhead = 1 << 20

type fileService interface {
	MaxSize() int64
	List(ctx context.Context, filter models.FileFilter) ([]models.FileDetail, error)
	Get(ctx context.Context, id string) (*models.FileDetail, error)
	Upload(ctx context.Context, in service.FileUpload) (*models.FileDetail, error)
	Update(ctx context.Context, id string, req models.FileUpdateRequest) (*models.FileDetail, error)
	Delete(ctx context.Context, id string) error
	DownloadLink(ctx context.Context, id string) (*models.DownloadLink, error)
	Open(ctx context.Context, token string) (*models.FileDetail, io.ReadCloser, error)
}

// FileHandler exposes uploaded files and their signed downloads.
type FileHandler struct {
	service fileService
}

// NewFileHandler creates a file handler.
func NewFileHandler(svc fileService) *FileHandler {
	return &FileHandler{service: svc}
}

func (h *FileHandler) list(c *gin.Context, filter models.FileFilter) {
	files, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"files": files})
}

// List godoc
// @Summary List files
// @Tags Files
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /files [get]
func (h *FileHandler) List(c *gin.Context) {
	h.list(c, models.FileFilter{})
}

// Search godoc
// @Summary Search files by name
// @Tags Files
// @Produce json
// @Param q query string true "Search text"
// @Success 200 {object} map[string]interface{}
// @Router /files/search [get]
func (h *FileHandler) Search(c *gin.Context) {
	if c.Query("q") == "" {
		response.OK(c, gin.H{"files": []models.FileDetail{}})
		return
	}
	h.list(c, models.FileFilter{Query: c.Query("q")})
}

// Filter godoc
// @Summary Filter files by type
// @Tags Files
// @Produce json
// @Param type query string false "File type"
// @Success 200 {object} map[string]interface{}
// @Router /files/filter [get]
func (h *FileHandler) Filter(c *gin.Context) {
	h.list(c, models.FileFilter{FileType: c.Query("type")})
}

// ByCourse godoc
// @Summary Files of a course
// @Tags Files
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Router /files/course/{course_id} [get]
func (h *FileHandler) ByCourse(c *gin.Context) {
	h.list(c, models.FileFilter{CourseID: c.Param("course_id")})
}

// Get godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /files/{id} [get]
func (h *FileHandler) Get(c *gin.Context) {
	file, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"file": file})
}

// Upload godoc
// @Summary Upload a file
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param uploaded_by formData string false "Uploader"
// @Param course_id formData string false "Course"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /files/upload [post]
func (h *FileHandler) Upload(c *gin.Context) {
	if limit := h.service.MaxSize(); limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation(err, fmt.Sprintf("a file of at most %d bytes is required", h.service.MaxSize())))
		return
	}
	body, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer body.Close()

	file, err := h.service.Upload(c.Request.Context(), service.FileUpload{
		Name:        header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Body:        body,
		UploadedBy:  actingUser(c, c.PostForm("uploaded_by")),
		CourseID:    c.PostForm("course_id"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "File uploaded successfully", "file": file})
}

// Update godoc
// @Summary Rename or retype a file
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID"
// @Param payload body models.FileUpdateRequest true "Changed fields"
// @Success 200 {object} map[string]interface{}
// @Router /files/{id} [put]
func (h *FileHandler) Update(c *gin.Context) {
	var req models.FileUpdateRequest
	if err := bindJSON(c, &req, "invalid file payload"); err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "File updated successfully", "file": file})
}

// Delete godoc
// @Summary Delete a file and its stored object
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} map[string]interface{}
// @Router /files/{id} [delete]
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "File deleted successfully"})
}

// DownloadLink godoc
// @Summary Signed download link
// @Tags Files
// @Produce json
// @Param id path string true "File ID"
// @Success 200 {object} models.DownloadLink
// @Router /files/{id}/download [get]
func (h *FileHandler) DownloadLink(c *gin.Context) {
	link, err := h.service.DownloadLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, link)
}

// Stream godoc
// @Summary Stream a file through a signed token
// @Tags Files
// @Produce octet-stream
// @Param token path string true "Download token"
// @Success 200 {file} file
// @Failure 403 {object} response.ErrorBody
// @Router /files/download/{token} [get]
func (h *FileHandler) Stream(c *gin.Context) {
	file, body, err := h.service.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer body.Close()

	contentType := "application/octet-stream"
	if file.MimeType != nil && *file.MimeType != "" {
		contentType = *file.MimeType
	}
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, file.FileSize, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	})
}
