package timetable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
)

func mustDate(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := ParseDate(raw, time.UTC)
	require.NoError(t, err)
	return d
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates(mustDate(t, "2024-06-12"))
	require.Len(t, dates, 5)
	got := make([]string, len(dates))
	for i, d := range dates {
		got[i] = d.Format(models.DateLayout)
	}
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14"}, got)

	assert.Equal(t, "2024-06-10", WeekStart(mustDate(t, "2024-06-16")).Format(models.DateLayout), "sunday belongs to the previous week")
	assert.Equal(t, "2024-06-10", WeekStart(mustDate(t, "2024-06-10")).Format(models.DateLayout))
	assert.Equal(t, "2024-12-30", WeekStart(mustDate(t, "2025-01-01")).Format(models.DateLayout))
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("12/06/2024", nil)
	assert.Error(t, err)
}

func TestDailyJoinsLogsInStartOrder(t *testing.T) {
	teacher := models.Teacher{
		ID: "t1",
		Schedule: []models.ScheduleEntry{
			{ID: "late", Day: models.Wednesday, StartTime: "10:00"},
			{ID: "early", Day: "Miércoles", StartTime: "07:00"},
			{ID: "other", Day: models.Thursday, StartTime: "07:00"},
		},
	}
	logs := models.NewLogIndex([]models.DailyLog{
		{PeriodID: "early", Date: "2024-06-12", Topic: "Fractions"},
		{PeriodID: "late", Date: "2024-06-12", Observations: "noisy"},
		{PeriodID: "early", Date: "2024-06-05", Topic: "old"},
	})

	view := NewEngine(nil).Daily(teacher, mustDate(t, "2024-06-12"), logs)

	assert.Equal(t, models.Wednesday, view.Day)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "early", view.Items[0].Entry.ID)
	assert.True(t, view.Items[0].Completed)
	assert.Equal(t, "Fractions", view.Items[0].Log.Topic)
	assert.Equal(t, "late", view.Items[1].Entry.ID)
	assert.False(t, view.Items[1].Completed, "observations alone do not complete a log")
	assert.NotNil(t, view.Items[1].Log)
}

func TestWeeklyCoversSchoolDays(t *testing.T) {
	teacher := models.Teacher{Schedule: []models.ScheduleEntry{
		{ID: "m", Day: models.Monday, StartTime: "08:00"},
		{ID: "f", Day: models.Friday, StartTime: "08:00"},
		{ID: "s", Day: models.Saturday, StartTime: "08:00"},
	}}

	view := NewEngine(nil).Weekly(teacher, mustDate(t, "2024-06-12"), nil)

	assert.Equal(t, "2024-06-10", view.WeekStart)
	require.Len(t, view.Days, 5)
	assert.Equal(t, models.Monday, view.Days[0].Day)
	assert.Len(t, view.Days[0].Items, 1)
	assert.Empty(t, view.Days[2].Items)
	assert.Equal(t, "2024-06-14", view.Days[4].Date)
	assert.Len(t, view.Days[4].Items, 1)
}

func TestDailyLogCompletion(t *testing.T) {
	assert.True(t, models.DailyLog{Topic: "Algebra"}.Completed())
	assert.False(t, models.DailyLog{Topic: "   "}.Completed())
	assert.False(t, models.DailyLog{Observations: "absent"}.Completed())
}

func TestCourseGridPlacesEntry(t *testing.T) {
	cfg := gridConfig()
	teachers := []models.Teacher{{
		ID:   "t1",
		Name: "Ana",
		Schedule: []models.ScheduleEntry{
			{ID: "e1", Day: models.Monday, TimeSlotID: "slot-1", StartTime: "08:00", Course: "CourseX", Parallel: "A", Subject: "Math"},
			{ID: "e2", Day: models.Monday, TimeSlotID: "slot-1", StartTime: "08:00", Course: "CourseX", Parallel: "B", Subject: "Art"},
		},
	}}

	grid := NewEngine(nil).CourseGrid(&cfg, teachers, "CourseX", "A")

	assert.Equal(t, "tmpl", grid.TemplateID)
	require.Len(t, grid.Rows, 2)
	assert.Equal(t, "slot-1", grid.Rows[0].Slot.ID, "rows follow start order")
	for r, row := range grid.Rows {
		require.Len(t, row.Cells, 5)
		for c, cell := range row.Cells {
			if r == 0 && c == 0 {
				require.NotNil(t, cell.Entry)
				assert.Equal(t, "Math", cell.Entry.Subject)
				assert.Equal(t, &dto.GridTeacher{ID: "t1", Name: "Ana"}, cell.Teacher)
				continue
			}
			assert.Nil(t, cell.Entry, "row %d cell %d", r, c)
		}
	}
	assert.Empty(t, grid.Ambiguities)
}

func TestCourseGridPrefersSlotIDOverStartTime(t *testing.T) {
	cfg := gridConfig()
	teachers := []models.Teacher{
		{ID: "legacy", Schedule: []models.ScheduleEntry{
			{ID: "old", Day: "LUNES", StartTime: "08:00", Course: "CourseX", Parallel: "A", Subject: "History"},
		}},
		{ID: "current", Schedule: []models.ScheduleEntry{
			{ID: "new", Day: models.Monday, TimeSlotID: "slot-1", StartTime: "08:00", Course: "CourseX", Parallel: "A", Subject: "Math"},
		}},
	}

	grid := NewEngine(nil).CourseGrid(&cfg, teachers, "CourseX", "A")
	cell := grid.Rows[0].Cells[0]
	require.NotNil(t, cell.Entry)
	assert.Equal(t, "new", cell.Entry.ID)
	assert.Empty(t, grid.Ambiguities)

	grid = NewEngine(nil).CourseGrid(&cfg, teachers[:1], "CourseX", "A")
	require.NotNil(t, grid.Rows[0].Cells[0].Entry)
	assert.Equal(t, "old", grid.Rows[0].Cells[0].Entry.ID, "legacy entries match by start time")
}

func TestCourseGridFlagsAmbiguousCells(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := gridConfig()
	teachers := []models.Teacher{
		{ID: "t1", Schedule: []models.ScheduleEntry{
			{ID: "a", Day: models.Tuesday, TimeSlotID: "slot-2", StartTime: "08:40", Course: "CourseX", Parallel: "A", Subject: "Math"},
		}},
		{ID: "t2", Schedule: []models.ScheduleEntry{
			{ID: "b", Day: models.Tuesday, TimeSlotID: "slot-2", StartTime: "08:40", Course: "CourseX", Parallel: "A", Subject: "Science"},
		}},
	}

	grid := NewEngine(zap.New(core)).CourseGrid(&cfg, teachers, "CourseX", "A")

	assert.Equal(t, "a", grid.Rows[1].Cells[1].Entry.ID, "first match wins")
	assert.Equal(t, []dto.GridAmbiguity{{Day: models.Tuesday, SlotID: "slot-2", Candidates: 2}}, grid.Ambiguities)
	assert.Equal(t, 1, logs.FilterMessage("course grid cell has multiple entries").Len())
}

func TestCourseGridWithoutTemplate(t *testing.T) {
	grid := NewEngine(nil).CourseGrid(&models.AcademicConfig{}, nil, "CourseX", "A")
	assert.Empty(t, grid.Rows)
	assert.Empty(t, grid.TemplateID)
	assert.Len(t, grid.Days, 5)
}

func TestLoadReport(t *testing.T) {
	cfg := gridConfig()
	teachers := []models.Teacher{
		{ID: "a", Schedule: []models.ScheduleEntry{
			{Subject: "Math", Course: "CourseX", Parallel: "A"},
			{Subject: "Math", Course: "CourseX", Parallel: "A"},
			{Subject: "Math", Course: "CourseX", Parallel: "B"},
		}},
		{ID: "b", Schedule: []models.ScheduleEntry{
			{Subject: "Science", Course: "CourseX", Parallel: "A"},
		}},
	}

	report := NewEngine(nil).LoadReport(&cfg, teachers, "CourseX", "A")

	assert.Equal(t, []dto.SubjectLoad{{Subject: "Math", Count: 2}, {Subject: "Science", Count: 1}}, report.Subjects)
	assert.Equal(t, 3, report.Total)
}

func TestLoadReportOrdersUnknownSubjectsLast(t *testing.T) {
	cfg := models.AcademicConfig{Subjects: []string{"Science", "Math", "Art"}}
	teachers := []models.Teacher{{Schedule: []models.ScheduleEntry{
		{Subject: "Robotics", Course: "C", Parallel: "A"},
		{Subject: "Math", Course: "C", Parallel: "A"},
		{Subject: "Science", Course: "C", Parallel: "A"},
	}}}

	report := NewEngine(nil).LoadReport(&cfg, teachers, "C", "A")
	assert.Equal(t, []dto.SubjectLoad{
		{Subject: "Science", Count: 1},
		{Subject: "Math", Count: 1},
		{Subject: "Robotics", Count: 1},
	}, report.Subjects)

	empty := NewEngine(nil).LoadReport(nil, nil, "C", "A")
	assert.Empty(t, empty.Subjects)
	assert.Zero(t, empty.Total)
}
