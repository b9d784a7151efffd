package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/service"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/response"
)

type timetableService interface {
	Daily(ctx context.Context, teacherID, date string) (*dto.DailyPlannerResponse, error)
	Weekly(ctx context.Context, teacherID, date string) (*dto.WeeklyPlannerResponse, error)
	CourseGrid(query dto.GridQuery) dto.CourseGridResponse
	LoadReport(query dto.GridQuery) dto.LoadReportResponse
	ExportLoadReport(ctx context.Context, query dto.GridQuery, format service.ExportFormat) (*service.ExportFile, error)
	ExportCourseGrid(ctx context.Context, query dto.GridQuery, format service.ExportFormat) (*service.ExportFile, error)
}

// PlannerHandler serves the teacher planners, course grids and load reports.
type PlannerHandler struct {
	service timetableService
}

// NewPlannerHandler constructs the handler.
func NewPlannerHandler(svc timetableService) *PlannerHandler {
	return &PlannerHandler{service: svc}
}

// Daily godoc
// @Summary Daily planner
// @Description Periods of the day in start-time order with their class logs
// @Tags Planner
// @Produce json
// @Param id path string true "User ID"
// @Param date query string false "Date (YYYY-MM-DD), today when empty"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users/{id}/planner/daily [get]
func (h *PlannerHandler) Daily(c *gin.Context) {
	id, ok := requireSelfOrAdmin(c)
	if !ok {
		return
	}
	resp, err := h.service.Daily(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// Weekly godoc
// @Summary Weekly planner
// @Description Monday to Friday of the week containing date
// @Tags Planner
// @Produce json
// @Param id path string true "User ID"
// @Param date query string false "Any date of the week (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /users/{id}/planner/weekly [get]
func (h *PlannerHandler) Weekly(c *gin.Context) {
	id, ok := requireSelfOrAdmin(c)
	if !ok {
		return
	}
	resp, err := h.service.Weekly(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil, middleware.ExtractMeta(c))
}

// CourseGrid godoc
// @Summary Course timetable
// @Description Weekly grid of a course and parallel laid out on its template
// @Tags Reports
// @Produce json
// @Param course query string false "Course, first catalog course when empty"
// @Param parallel query string false "Parallel, first catalog parallel when empty"
// @Success 200 {object} response.Envelope
// @Router /courses/grid [get]
func (h *PlannerHandler) CourseGrid(c *gin.Context) {
	query, ok := bindGridQuery(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, h.service.CourseGrid(query), nil, middleware.ExtractMeta(c))
}

// LoadReport godoc
// @Summary Subject load report
// @Description Weekly period count per subject for a course and parallel
// @Tags Reports
// @Produce json
// @Param course query string false "Course"
// @Param parallel query string false "Parallel"
// @Success 200 {object} response.Envelope
// @Router /reports/load [get]
func (h *PlannerHandler) LoadReport(c *gin.Context) {
	query, ok := bindGridQuery(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, h.service.LoadReport(query), nil, middleware.ExtractMeta(c))
}

// ExportLoadReport godoc
// @Summary Export load report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param course query string false "Course"
// @Param parallel query string false "Parallel"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /reports/load/export [get]
func (h *PlannerHandler) ExportLoadReport(c *gin.Context) {
	h.export(c, h.service.ExportLoadReport)
}

// ExportCourseGrid godoc
// @Summary Export course timetable
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param course query string false "Course"
// @Param parallel query string false "Parallel"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /courses/grid/export [get]
func (h *PlannerHandler) ExportCourseGrid(c *gin.Context) {
	h.export(c, h.service.ExportCourseGrid)
}

func (h *PlannerHandler) export(c *gin.Context, render func(context.Context, dto.GridQuery, service.ExportFormat) (*service.ExportFile, error)) {
	query, ok := bindGridQuery(c)
	if !ok {
		return
	}
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := render(c.Request.Context(), query, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, file.Cached)
	c.Header("X-Cache-Hit", strconv.FormatBool(file.Cached))
	response.File(c, file.Filename, file.ContentType, file.Content)
}

func bindGridQuery(c *gin.Context) (dto.GridQuery, bool) {
	var query dto.GridQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return query, false
	}
	return query, true
}
