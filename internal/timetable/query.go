package timetable

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
)

// Engine computes read projections over a snapshot. Results are never cached
// here; every call recomputes from its inputs.
type Engine struct {
	logger *zap.Logger
}

// NewEngine constructs a query engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Daily lists the teacher's periods on date ordered by start time and joined
// with the logs written for that date.
func (e *Engine) Daily(teacher models.Teacher, date time.Time, logs models.LogIndex) dto.DailyPlannerResponse {
	day := models.WeekdayOf(date)
	iso := date.Format(models.DateLayout)
	return dto.DailyPlannerResponse{
		Date:  iso,
		Day:   day,
		Items: e.itemsFor(teacher, day, iso, logs),
	}
}

// Weekly lists Monday to Friday of the week containing ref.
func (e *Engine) Weekly(teacher models.Teacher, ref time.Time, logs models.LogIndex) dto.WeeklyPlannerResponse {
	dates := WeekDates(ref)
	resp := dto.WeeklyPlannerResponse{
		WeekStart: dates[0].Format(models.DateLayout),
		Days:      make([]dto.WeeklyPlannerDay, 0, len(dates)),
	}
	for _, date := range dates {
		day := models.WeekdayOf(date)
		iso := date.Format(models.DateLayout)
		resp.Days = append(resp.Days, dto.WeeklyPlannerDay{
			Date:  iso,
			Day:   day,
			Items: e.itemsFor(teacher, day, iso, logs),
		})
	}
	return resp
}

func (e *Engine) itemsFor(teacher models.Teacher, day models.Weekday, iso string, logs models.LogIndex) []dto.DailyPlannerItem {
	entries := make([]models.ScheduleEntry, 0)
	for _, entry := range teacher.Schedule {
		if entry.Weekday() == day {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartTime < entries[j].StartTime
	})

	items := make([]dto.DailyPlannerItem, 0, len(entries))
	for _, entry := range entries {
		item := dto.DailyPlannerItem{Entry: entry, Date: iso}
		if log, ok := logs.Lookup(entry.ID, iso); ok {
			logCopy := log
			item.Log = &logCopy
			item.Completed = log.Completed()
		}
		items = append(items, item)
	}
	return items
}

type gridCandidate struct {
	teacher models.Teacher
	entry   models.ScheduleEntry
}

// CourseGrid lays out the weekly timetable of course/parallel on its template.
// A cell takes entries matching the slot id; entries without such a match are
// tried by start time. When several entries qualify the first one wins and the
// cell is reported in Ambiguities.
func (e *Engine) CourseGrid(cfg *models.AcademicConfig, teachers []models.Teacher, course, parallel string) dto.CourseGridResponse {
	resp := dto.CourseGridResponse{
		Course:   course,
		Parallel: parallel,
		Days:     append([]models.Weekday(nil), models.SchoolDays...),
		Rows:     []dto.GridRow{},
	}
	tmpl := ResolveTemplate(cfg, course)
	if tmpl == nil {
		return resp
	}
	resp.TemplateID = tmpl.ID

	for _, slot := range tmpl.SortedSlots() {
		row := dto.GridRow{Slot: slot, Cells: make([]dto.GridCell, 0, len(models.SchoolDays))}
		for _, day := range models.SchoolDays {
			cell := dto.GridCell{Day: day}
			candidates := matchCell(teachers, day, slot, course, parallel)
			if len(candidates) > 0 {
				winner := candidates[0]
				entry := winner.entry
				cell.Entry = &entry
				cell.Teacher = &dto.GridTeacher{ID: winner.teacher.ID, Name: winner.teacher.Name}
			}
			if len(candidates) > 1 {
				resp.Ambiguities = append(resp.Ambiguities, dto.GridAmbiguity{
					Day:        day,
					SlotID:     slot.ID,
					Candidates: len(candidates),
				})
				e.logger.Warn("course grid cell has multiple entries",
					zap.String("course", course),
					zap.String("parallel", parallel),
					zap.String("day", string(day)),
					zap.String("slot_id", slot.ID),
					zap.Int("candidates", len(candidates)),
				)
			}
			row.Cells = append(row.Cells, cell)
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}

func matchCell(teachers []models.Teacher, day models.Weekday, slot models.TimeSlot, course, parallel string) []gridCandidate {
	var byID, byStart []gridCandidate
	for _, teacher := range teachers {
		for _, entry := range teacher.Schedule {
			if entry.Weekday() != day || !entry.Teaches(course, parallel) {
				continue
			}
			switch {
			case entry.TimeSlotID != "" && entry.TimeSlotID == slot.ID:
				byID = append(byID, gridCandidate{teacher: teacher, entry: entry})
			case entry.StartTime == slot.Start:
				byStart = append(byStart, gridCandidate{teacher: teacher, entry: entry})
			}
		}
	}
	if len(byID) > 0 {
		return byID
	}
	return byStart
}

// LoadReport counts weekly periods per subject for course/parallel. Catalog
// subjects come first in catalog order, then subjects missing from the catalog
// in the order they were met. Subjects without periods are omitted.
func (e *Engine) LoadReport(cfg *models.AcademicConfig, teachers []models.Teacher, course, parallel string) dto.LoadReportResponse {
	counts := make(map[string]int)
	order := make([]string, 0)
	if cfg != nil {
		for _, subject := range cfg.Subjects {
			if _, seen := counts[subject]; !seen {
				counts[subject] = 0
				order = append(order, subject)
			}
		}
	}

	resp := dto.LoadReportResponse{Course: course, Parallel: parallel, Subjects: []dto.SubjectLoad{}}
	for _, teacher := range teachers {
		for _, entry := range teacher.Schedule {
			if !entry.Teaches(course, parallel) {
				continue
			}
			if _, seen := counts[entry.Subject]; !seen {
				order = append(order, entry.Subject)
			}
			counts[entry.Subject]++
			resp.Total++
		}
	}

	for _, subject := range order {
		if counts[subject] > 0 {
			resp.Subjects = append(resp.Subjects, dto.SubjectLoad{Subject: subject, Count: counts[subject]})
		}
	}
	return resp
}
