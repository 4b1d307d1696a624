package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyeonwoo-dev/community-board-api/internal/service"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/response"
)

// ExportHandler exposes admin dataset exports and signed downloads.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// ExportPosts godoc
// @Summary Export posts (admin)
// @Description Render every post to CSV or PDF and return a signed download token
// @Tags Exports
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/posts [post]
func (h *ExportHandler) ExportPosts(c *gin.Context) {
	result, err := h.service.ExportPosts(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// ExportUsers godoc
// @Summary Export users (admin)
// @Description Render the user roster to CSV or PDF and return a signed download token
// @Tags Exports
// @Produce json
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/users [post]
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	result, err := h.service.ExportUsers(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Download godoc
// @Summary Download an export (admin)
// @Description Stream a previously generated export file via its signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token query parameter required"))
		return
	}

	path, err := h.service.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}

	name := filepath.Base(path)
	contentType := "text/csv"
	if strings.HasSuffix(name, ".pdf") {
		contentType = "application/pdf"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", contentType)
	c.File(path)
}
