package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type templateService interface {
	ListTemplates() []models.ScheduleTemplate
	GetTemplate(id string) (models.ScheduleTemplate, bool)
	CreateTemplate(ctx context.Context, name string) (models.ScheduleTemplate, error)
	DeleteTemplate(ctx context.Context, id string) error
	AddSlot(ctx context.Context, templateID, label, start, end string) (models.TimeSlot, error)
	EditSlot(ctx context.Context, templateID, slotID string, fields timetable.SlotFields) (models.TimeSlot, error)
	DeleteSlot(ctx context.Context, templateID, slotID string) error
	AssignTemplate(ctx context.Context, course, templateID string) (models.AcademicConfig, error)
	ResolveTemplate(course string) (models.ScheduleTemplate, bool)
}

// TemplateHandler manages bell schedule templates and course assignments.
type TemplateHandler struct {
	service templateService
}

// NewTemplateHandler constructs the handler.
func NewTemplateHandler(svc templateService) *TemplateHandler {
	return &TemplateHandler{service: svc}
}

// List godoc
// @Summary List schedule templates
// @Tags Templates
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListTemplates(), nil)
}

// Get godoc
// @Summary Get schedule template
// @Description Slots are returned in start-time order
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id} [get]
func (h *TemplateHandler) Get(c *gin.Context) {
	tmpl, ok := h.service.GetTemplate(c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "template not found"))
		return
	}
	response.JSON(c, http.StatusOK, tmpl, nil)
}

// Create godoc
// @Summary Create schedule template
// @Tags Templates
// @Accept json
// @Produce json
// @Param payload body dto.CreateTemplateRequest true "Template"
// @Success 201 {object} response.Envelope
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if !bindJSON(c, &req, "invalid template payload") {
		return
	}
	tmpl, err := h.service.CreateTemplate(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tmpl)
}

// Delete godoc
// @Summary Delete schedule template
// @Description Courses assigned to it fall back to the first template
// @Tags Templates
// @Param id path string true "Template ID"
// @Success 204
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddSlot godoc
// @Summary Add time slot
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param payload body dto.TimeSlotRequest true "Slot"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /templates/{id}/slots [post]
func (h *TemplateHandler) AddSlot(c *gin.Context) {
	var req dto.TimeSlotRequest
	if !bindJSON(c, &req, "invalid slot payload") {
		return
	}
	slot, err := h.service.AddSlot(c.Request.Context(), c.Param("id"), req.Label, req.Start, req.End)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// EditSlot godoc
// @Summary Edit time slot
// @Description Existing schedule entries keep the times they were created with
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param slotId path string true "Slot ID"
// @Param payload body dto.UpdateTimeSlotRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /templates/{id}/slots/{slotId} [put]
func (h *TemplateHandler) EditSlot(c *gin.Context) {
	var req dto.UpdateTimeSlotRequest
	if !bindJSON(c, &req, "invalid slot payload") {
		return
	}
	fields := timetable.SlotFields{Label: req.Label, Start: req.Start, End: req.End}
	slot, err := h.service.EditSlot(c.Request.Context(), c.Param("id"), c.Param("slotId"), fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// DeleteSlot godoc
// @Summary Delete time slot
// @Tags Templates
// @Param id path string true "Template ID"
// @Param slotId path string true "Slot ID"
// @Success 204
// @Router /templates/{id}/slots/{slotId} [delete]
func (h *TemplateHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("id"), c.Param("slotId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Assign godoc
// @Summary Assign template to course
// @Tags Templates
// @Accept json
// @Produce json
// @Param course path string true "Course name"
// @Param payload body dto.AssignTemplateRequest true "Template"
// @Success 200 {object} response.Envelope
// @Router /assignments/{course} [put]
func (h *TemplateHandler) Assign(c *gin.Context) {
	var req dto.AssignTemplateRequest
	if !bindJSON(c, &req, "invalid assignment payload") {
		return
	}
	cfg, err := h.service.AssignTemplate(c.Request.Context(), c.Param("course"), req.TemplateID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg.CourseSchedules, nil)
}

// Resolve godoc
// @Summary Template used by a course
// @Tags Templates
// @Produce json
// @Param course path string true "Course name"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /assignments/{course} [get]
func (h *TemplateHandler) Resolve(c *gin.Context) {
	tmpl, ok := h.service.ResolveTemplate(c.Param("course"))
	if !ok {
		response.Error(c, appErrors.ErrNoTemplate)
		return
	}
	response.JSON(c, http.StatusOK, tmpl, nil)
}
