package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type scheduleService interface {
	List(teacherID string) ([]models.ScheduleEntry, error)
	AddEntry(ctx context.Context, teacherID string, req dto.AddScheduleEntryRequest) (*models.ScheduleEntry, error)
	RemoveEntry(ctx context.Context, teacherID, entryID string) error
}

// ScheduleHandler edits the weekly schedule of a user.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// List godoc
// @Summary Weekly schedule
// @Tags Schedule
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	id, ok := requireSelfOrAdmin(c)
	if !ok {
		return
	}
	entries, err := h.service.List(id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Add godoc
// @Summary Add schedule entry
// @Description Places the user in a slot of the course template. timeSlotIndex counts slots in start-time order.
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.AddScheduleEntryRequest true "Entry"
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /users/{id}/schedule [post]
func (h *ScheduleHandler) Add(c *gin.Context) {
	var req dto.AddScheduleEntryRequest
	if !bindJSON(c, &req, "invalid schedule payload") {
		return
	}
	entry, err := h.service.AddEntry(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Remove godoc
// @Summary Remove schedule entry
// @Tags Schedule
// @Param id path string true "User ID"
// @Param entryId path string true "Entry ID"
// @Success 204
// @Router /users/{id}/schedule/{entryId} [delete]
func (h *ScheduleHandler) Remove(c *gin.Context) {
	if err := h.service.RemoveEntry(c.Request.Context(), c.Param("id"), c.Param("entryId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
