package dto

import "github.com/noah-isme/class-planner-api/internal/models"

// DailyPlannerItem is one scheduled period on a concrete date with its log.
type DailyPlannerItem struct {
	Entry     models.ScheduleEntry `json:"entry"`
	Date      string               `json:"date"`
	Log       *models.DailyLog     `json:"log,omitempty"`
	Completed bool                 `json:"completed"`
}

// DailyPlannerResponse lists the periods of a day in start-time order.
type DailyPlannerResponse struct {
	Date  string             `json:"date"`
	Day   models.Weekday     `json:"day"`
	Items []DailyPlannerItem `json:"items"`
}

// WeeklyPlannerDay is one column of the weekly planner.
type WeeklyPlannerDay struct {
	Date  string             `json:"date"`
	Day   models.Weekday     `json:"day"`
	Items []DailyPlannerItem `json:"items"`
}

// WeeklyPlannerResponse covers Monday to Friday of the week containing a date.
type WeeklyPlannerResponse struct {
	WeekStart string             `json:"weekStart"`
	Days      []WeeklyPlannerDay `json:"days"`
}

// GridTeacher identifies the teacher occupying a grid cell.
type GridTeacher struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GridCell is the class taught in one slot on one day. Empty cells carry no entry.
type GridCell struct {
	Day     models.Weekday        `json:"day"`
	Entry   *models.ScheduleEntry `json:"entry,omitempty"`
	Teacher *GridTeacher          `json:"teacher,omitempty"`
}

// GridRow is a template slot with one cell per school day.
type GridRow struct {
	Slot  models.TimeSlot `json:"slot"`
	Cells []GridCell      `json:"cells"`
}

// GridAmbiguity records a cell where more than one entry matched.
type GridAmbiguity struct {
	Day        models.Weekday `json:"day"`
	SlotID     string         `json:"slotId"`
	Candidates int            `json:"candidates"`
}

// CourseGridResponse is the weekly timetable of a course/parallel pair.
type CourseGridResponse struct {
	Course      string           `json:"course"`
	Parallel    string           `json:"parallel"`
	TemplateID  string           `json:"templateId,omitempty"`
	Days        []models.Weekday `json:"days"`
	Rows        []GridRow        `json:"rows"`
	Ambiguities []GridAmbiguity  `json:"ambiguities,omitempty"`
}

// SubjectLoad is the weekly period count of one subject.
type SubjectLoad struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// LoadReportResponse summarises weekly periods per subject for a course/parallel.
type LoadReportResponse struct {
	Course   string        `json:"course"`
	Parallel string        `json:"parallel"`
	Subjects []SubjectLoad `json:"subjects"`
	Total    int           `json:"total"`
}

// GridQuery captures the course selector of grid and report endpoints.
type GridQuery struct {
	Course   string `form:"course" json:"course"`
	Parallel string `form:"parallel" json:"parallel"`
}
