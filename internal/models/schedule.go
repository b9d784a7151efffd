package models

import (
	"strings"
	"time"
)

// Weekday is the canonical upper-case English day name stored on schedule entries.
type Weekday string

const (
	Sunday    Weekday = "SUNDAY"
	Monday    Weekday = "MONDAY"
	Tuesday   Weekday = "TUESDAY"
	Wednesday Weekday = "WEDNESDAY"
	Thursday  Weekday = "THURSDAY"
	Friday    Weekday = "FRIDAY"
	Saturday  Weekday = "SATURDAY"
)

// Weekdays lists the seven days indexed like time.Weekday.
var Weekdays = [7]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// SchoolDays are the columns of the course grid.
var SchoolDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// legacy documents were written with Spanish day names.
var weekdayAliases = map[string]Weekday{
	"DOMINGO":   Sunday,
	"LUNES":     Monday,
	"MARTES":    Tuesday,
	"MIÉRCOLES": Wednesday,
	"MIERCOLES": Wednesday,
	"JUEVES":    Thursday,
	"VIERNES":   Friday,
	"SÁBADO":    Saturday,
	"SABADO":    Saturday,
}

// WeekdayOf returns the day name for the given date.
func WeekdayOf(t time.Time) Weekday {
	return Weekdays[t.Weekday()]
}

// ParseWeekday normalises a day name. The boolean is false for unknown names.
func ParseWeekday(raw string) (Weekday, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	for _, day := range Weekdays {
		if string(day) == name {
			return day, true
		}
	}
	day, ok := weekdayAliases[name]
	return day, ok
}

// ScheduleEntry is one weekly commitment of a teacher. StartTime and EndTime are
// copied from the template slot when the entry is created and are not updated
// when the slot is edited later.
type ScheduleEntry struct {
	ID         string  `json:"id"`
	Day        Weekday `json:"day"`
	TemplateID string  `json:"templateId"`
	TimeSlotID string  `json:"timeSlotId,omitempty"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
	Course     string  `json:"course"`
	Parallel   string  `json:"parallel"`
	Subject    string  `json:"subject"`
}

// Weekday returns the normalised day of the entry, accepting legacy names.
func (e ScheduleEntry) Weekday() Weekday {
	if day, ok := ParseWeekday(string(e.Day)); ok {
		return day
	}
	return e.Day
}

// Teaches reports whether the entry belongs to the course/parallel pair.
func (e ScheduleEntry) Teaches(course, parallel string) bool {
	return e.Course == course && e.Parallel == parallel
}
