package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"print-order-backend/internal/middleware"
	"print-order-backend/internal/models"
	"print-order-backend/internal/services"
)

// multipartOverhead covers boundaries and part headers around the file.
const multipartOverhead = 1 << 20

type FilesHandler struct {
	files   *services.FileService
	maxSize int64
}

func NewFilesHandler(files *services.FileService, maxSize int64) *FilesHandler {
	return &FilesHandler{
		files:   files,
		maxSize: maxSize,
	}
}

// Upload godoc
// @Summary     Upload a document
// @Description Estimates the page count of a PDF or Word document and stores it for a later order.
// @Tags        files
// @Accept      multipart/form-data
// @Produce     json
// @Param       file formData file true "PDF, DOC or DOCX document"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     413 {object} models.ErrorResponse
// @Failure     422 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /files/upload [post]
func (h *FilesHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, services.ErrFileTooLarge)
			return
		}
		badRequest(c, "file is required", err)
		return
	}
	if header.Size > h.maxSize {
		respondError(c, services.ErrFileTooLarge)
		return
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, "failed to read uploaded file", err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxSize+1))
	if err != nil {
		badRequest(c, "failed to read uploaded file", err)
		return
	}

	if user := middleware.CurrentUser(c); user != nil {
		slog.DebugContext(c.Request.Context(), "upload by user", "username", user.Username)
	}

	uploaded, err := h.files.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.UploadResponse{
		FileID:       uploaded.FileID,
		Filename:     uploaded.Filename,
		OriginalName: uploaded.OriginalName,
		ContentType:  uploaded.ContentType,
		Pages:        uploaded.Pages,
	})
}

// GetFile godoc
// @Summary     Download a stored document
// @Tags        files
// @Produce     octet-stream
// @Param       filename path string true "Stored file name"
// @Success     200 {file} binary
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /files/{filename} [get]
func (h *FilesHandler) GetFile(c *gin.Context) {
	filename := c.Param("filename")

	data, err := h.files.Open(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "File not found"})
			return
		}
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", data)
}
