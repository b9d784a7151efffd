package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type logService interface {
	List(ctx context.Context, teacherID string, query dto.LogRangeQuery) ([]models.DailyLog, error)
	Save(ctx context.Context, teacherID string, req dto.SaveLogRequest) (*models.DailyLog, error)
}

// LogHandler reads and writes class logs.
type LogHandler struct {
	service logService
}

// NewLogHandler constructs the handler.
func NewLogHandler(svc logService) *LogHandler {
	return &LogHandler{service: svc}
}

// List godoc
// @Summary Class logs
// @Tags Logs
// @Produce json
// @Param id path string true "User ID"
// @Param from query string false "First date (YYYY-MM-DD)"
// @Param to query string false "Last date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/logs [get]
func (h *LogHandler) List(c *gin.Context) {
	id, ok := requireSelfOrAdmin(c)
	if !ok {
		return
	}
	var query dto.LogRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	logs, err := h.service.List(c.Request.Context(), id, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Save godoc
// @Summary Save class log
// @Description Updates the log of the entry on that date or creates it
// @Tags Logs
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body dto.SaveLogRequest true "Log"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users/{id}/logs [put]
func (h *LogHandler) Save(c *gin.Context) {
	id, ok := requireSelfOrAdmin(c)
	if !ok {
		return
	}
	var req dto.SaveLogRequest
	if !bindJSON(c, &req, "invalid log payload") {
		return
	}
	log, err := h.service.Save(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, log, nil)
}
