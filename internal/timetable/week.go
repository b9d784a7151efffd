package timetable

import (
	"time"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// WeekStart returns midnight of the Monday of the week containing ref. Sunday
// belongs to the week that started six days earlier.
func WeekStart(ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	offset := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns Monday through Friday of the week containing ref.
func WeekDates(ref time.Time) []time.Time {
	monday := WeekStart(ref)
	dates := make([]time.Time, len(models.SchoolDays))
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}
	return dates
}

// ParseDate reads an ISO calendar date in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(models.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	return t, nil
}
