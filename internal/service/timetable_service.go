package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/export"
)

// ExportFormat selects the rendering of an exported report.
type ExportFormat string

const (
	ExportCSV ExportFormat = "csv"
	ExportPDF ExportFormat = "pdf"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// ParseExportFormat defaults to CSV for an empty value.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportCSV:
		return ExportCSV, nil
	case ExportPDF:
		return ExportPDF, nil
	}
	return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
}

type logIndexer interface {
	Index(ctx context.Context, teacherID string) (models.LogIndex, error)
}

type exportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// TimetableConfig tunes the planner views.
type TimetableConfig struct {
	Location *time.Location
	CacheTTL time.Duration
}

// ExportFile is a rendered report.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	Cached      bool
}

// TimetableService answers the read side: teacher planners, course grids and
// subject load reports.
type TimetableService struct {
	state   snapshotReader
	logs    logIndexer
	engine  *timetable.Engine
	cache   exportCache
	metrics *MetricsService
	csv     datasetRenderer
	pdf     datasetRenderer
	logger  *zap.Logger
	cfg     TimetableConfig
	now     func() time.Time
}

// NewTimetableService constructs the service.
func NewTimetableService(state snapshotReader, logs logIndexer, cache exportCache, metrics *MetricsService, cfg TimetableConfig, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &TimetableService{
		state:   state,
		logs:    logs,
		engine:  timetable.NewEngine(logger),
		cache:   cache,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Daily lists the teacher's periods on date (today when empty).
func (s *TimetableService) Daily(ctx context.Context, teacherID, date string) (*dto.DailyPlannerResponse, error) {
	teacher, day, logs, err := s.plannerInput(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}
	resp := s.engine.Daily(teacher, day, logs)
	return &resp, nil
}

// Weekly lists Monday to Friday of the week containing date (today when empty).
func (s *TimetableService) Weekly(ctx context.Context, teacherID, date string) (*dto.WeeklyPlannerResponse, error) {
	teacher, day, logs, err := s.plannerInput(ctx, teacherID, date)
	if err != nil {
		return nil, err
	}
	resp := s.engine.Weekly(teacher, day, logs)
	return &resp, nil
}

func (s *TimetableService) plannerInput(ctx context.Context, teacherID, date string) (models.Teacher, time.Time, models.LogIndex, error) {
	teacher, ok := s.state.Current().Teacher(teacherID)
	if !ok {
		return models.Teacher{}, time.Time{}, nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	day := s.now().In(s.cfg.Location)
	if date != "" {
		parsed, err := timetable.ParseDate(date, s.cfg.Location)
		if err != nil {
			return models.Teacher{}, time.Time{}, nil, err
		}
		day = parsed
	}
	var logs models.LogIndex
	if s.logs != nil {
		idx, err := s.logs.Index(ctx, teacherID)
		if err != nil {
			return models.Teacher{}, time.Time{}, nil, err
		}
		logs = idx
	}
	return teacher, day, logs, nil
}

// CourseGrid renders the weekly timetable of a course/parallel pair. Empty
// selectors default to the first catalog values.
func (s *TimetableService) CourseGrid(query dto.GridQuery) dto.CourseGridResponse {
	snap := s.state.Current()
	course, parallel := s.selection(snap.Config, query)
	grid := s.engine.CourseGrid(&snap.Config, snap.Teachers, course, parallel)
	if len(grid.Ambiguities) > 0 {
		s.metrics.RecordGridAmbiguities(len(grid.Ambiguities))
	}
	return grid
}

// LoadReport counts weekly periods per subject for a course/parallel pair.
func (s *TimetableService) LoadReport(query dto.GridQuery) dto.LoadReportResponse {
	snap := s.state.Current()
	course, parallel := s.selection(snap.Config, query)
	return s.engine.LoadReport(&snap.Config, snap.Teachers, course, parallel)
}

// ExportLoadReport renders the load report. Output is cached per snapshot
// content so unchanged data is not rendered twice.
func (s *TimetableService) ExportLoadReport(ctx context.Context, query dto.GridQuery, format ExportFormat) (*ExportFile, error) {
	snap := s.state.Current()
	course, parallel := s.selection(snap.Config, query)
	return s.exportCached(ctx, "load", snap.ContentHash(), course, parallel, format, func() export.Dataset {
		return loadDataset(s.engine.LoadReport(&snap.Config, snap.Teachers, course, parallel))
	})
}

// ExportCourseGrid renders the course grid with one column per school day.
func (s *TimetableService) ExportCourseGrid(ctx context.Context, query dto.GridQuery, format ExportFormat) (*ExportFile, error) {
	snap := s.state.Current()
	course, parallel := s.selection(snap.Config, query)
	return s.exportCached(ctx, "grid", snap.ContentHash(), course, parallel, format, func() export.Dataset {
		return gridDataset(s.engine.CourseGrid(&snap.Config, snap.Teachers, course, parallel))
	})
}

func (s *TimetableService) exportCached(ctx context.Context, report string, contentHash uint64, course, parallel string, format ExportFormat, build func() export.Dataset) (*ExportFile, error) {
	key := ExportKey(report, contentHash, course, parallel, format)
	file := &ExportFile{
		Filename:    fmt.Sprintf("%s-%s-%s.%s", report, slug(course), slug(parallel), format),
		ContentType: format.ContentType(),
	}
	if s.cache != nil {
		var content []byte
		hit, err := s.cache.Get(ctx, key, &content)
		if err == nil && hit {
			file.Content = content
			file.Cached = true
			return file, nil
		}
	}

	renderer := s.csv
	if format == ExportPDF {
		renderer = s.pdf
	}
	content, err := renderer.Render(build())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}
	file.Content = content
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, content, s.cfg.CacheTTL)
	}
	s.logger.Debug("report rendered", zap.String("report", report), zap.String("format", string(format)), zap.Int("bytes", len(content)))
	return file, nil
}

func (s *TimetableService) selection(cfg models.AcademicConfig, query dto.GridQuery) (string, string) {
	course := firstNonEmpty(strings.TrimSpace(query.Course), first(cfg.Courses))
	parallel := firstNonEmpty(strings.TrimSpace(query.Parallel), first(cfg.Parallels))
	return course, parallel
}

func loadDataset(report dto.LoadReportResponse) export.Dataset {
	data := export.Dataset{
		Title:    "Academic load",
		Subtitle: fmt.Sprintf("%s - %s", report.Course, report.Parallel),
		Headers:  []string{"Subject", "Periods"},
		Rows:     make([]map[string]string, 0, len(report.Subjects)),
		Footer:   map[string]string{"Subject": "Total", "Periods": strconv.Itoa(report.Total)},
	}
	for _, load := range report.Subjects {
		data.Rows = append(data.Rows, map[string]string{"Subject": load.Subject, "Periods": strconv.Itoa(load.Count)})
	}
	return data
}

func gridDataset(grid dto.CourseGridResponse) export.Dataset {
	headers := []string{"Slot"}
	for _, day := range grid.Days {
		headers = append(headers, string(day))
	}
	data := export.Dataset{
		Title:    "Course schedule",
		Subtitle: fmt.Sprintf("%s - %s", grid.Course, grid.Parallel),
		Headers:  headers,
		Rows:     make([]map[string]string, 0, len(grid.Rows)),
	}
	for _, row := range grid.Rows {
		record := map[string]string{"Slot": fmt.Sprintf("%s %s-%s", row.Slot.Label, row.Slot.Start, row.Slot.End)}
		for _, cell := range row.Cells {
			if cell.Entry == nil {
				continue
			}
			value := cell.Entry.Subject
			if cell.Teacher != nil {
				value = fmt.Sprintf("%s (%s)", value, cell.Teacher.Name)
			}
			record[string(cell.Day)] = value
		}
		data.Rows = append(data.Rows, record)
	}
	return data
}

func slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return strings.Join(strings.Fields(value), "-")
}
