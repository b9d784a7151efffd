package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type catalogService interface {
	Config() models.AcademicConfig
	AddItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error)
	EditItem(ctx context.Context, kind models.CatalogKind, oldValue, newValue string) (models.AcademicConfig, error)
	DeleteItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error)
}

// CatalogHandler exposes the academic configuration lists.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(svc catalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Get godoc
// @Summary Academic configuration
// @Description Sections, courses, parallels, subjects, templates and course assignments
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /config [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Config(), nil)
}

// AddItem godoc
// @Summary Add catalog value
// @Tags Configuration
// @Accept json
// @Produce json
// @Param kind path string true "sections, courses, parallels or subjects"
// @Param payload body dto.CatalogItemRequest true "Value"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /config/{kind} [post]
func (h *CatalogHandler) AddItem(c *gin.Context) {
	var req dto.CatalogItemRequest
	if !bindJSON(c, &req, "invalid catalog payload") {
		return
	}
	cfg, err := h.service.AddItem(c.Request.Context(), models.CatalogKind(c.Param("kind")), req.Value)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// EditItem godoc
// @Summary Rename catalog value
// @Description Renaming a course keeps its schedule template
// @Tags Configuration
// @Accept json
// @Produce json
// @Param kind path string true "sections, courses, parallels or subjects"
// @Param payload body dto.CatalogRenameRequest true "Rename"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /config/{kind} [put]
func (h *CatalogHandler) EditItem(c *gin.Context) {
	var req dto.CatalogRenameRequest
	if !bindJSON(c, &req, "invalid catalog payload") {
		return
	}
	cfg, err := h.service.EditItem(c.Request.Context(), models.CatalogKind(c.Param("kind")), req.OldValue, req.NewValue)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// DeleteItem godoc
// @Summary Remove catalog value
// @Tags Configuration
// @Produce json
// @Param kind path string true "sections, courses, parallels or subjects"
// @Param value path string true "Value"
// @Success 200 {object} response.Envelope
// @Router /config/{kind}/{value} [delete]
func (h *CatalogHandler) DeleteItem(c *gin.Context) {
	cfg, err := h.service.DeleteItem(c.Request.Context(), models.CatalogKind(c.Param("kind")), c.Param("value"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}
