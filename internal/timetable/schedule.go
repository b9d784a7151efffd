package timetable

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// EntryValidator may veto a new schedule entry before it is appended. None are
// registered by default, so overlapping entries are accepted.
type EntryValidator func(teacher models.Teacher, entry models.ScheduleEntry) error

// EntryRequest describes the entry to add. TimeSlotIndex addresses the
// resolved template's slots in start-time order.
type EntryRequest struct {
	Day           models.Weekday
	Course        string
	Parallel      string
	Subject       string
	TimeSlotIndex int
}

// Scheduler edits teacher schedules against the template configuration.
type Scheduler struct {
	validators []EntryValidator
	newID      IDFunc
	logger     *zap.Logger
}

// NewScheduler builds a scheduler with optional entry validators.
func NewScheduler(logger *zap.Logger, validators ...EntryValidator) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{validators: validators, newID: uuid.NewString, logger: logger}
}

// WithIDs overrides the identifier generator.
func (s *Scheduler) WithIDs(fn IDFunc) *Scheduler {
	if fn != nil {
		s.newID = fn
	}
	return s
}

// AddEntry returns a copy of teacher with the new entry appended. The input
// teacher is never modified.
func (s *Scheduler) AddEntry(cfg *models.AcademicConfig, teacher models.Teacher, req EntryRequest) (models.Teacher, models.ScheduleEntry, error) {
	day, ok := models.ParseWeekday(string(req.Day))
	if !ok {
		return teacher, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrValidation, "invalid day")
	}
	if strings.TrimSpace(req.Course) == "" || strings.TrimSpace(req.Parallel) == "" || strings.TrimSpace(req.Subject) == "" {
		return teacher, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrValidation, "course, parallel and subject are required")
	}

	tmpl := ResolveTemplate(cfg, req.Course)
	if tmpl == nil {
		return teacher, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrNoTemplate, "course has no schedule template")
	}
	slots := tmpl.SortedSlots()
	if req.TimeSlotIndex < 0 || req.TimeSlotIndex >= len(slots) {
		return teacher, models.ScheduleEntry{}, appErrors.Clone(appErrors.ErrInvalidSlot, "time slot index out of range")
	}
	slot := slots[req.TimeSlotIndex]

	entry := models.ScheduleEntry{
		ID:         s.newID(),
		Day:        day,
		TemplateID: tmpl.ID,
		TimeSlotID: slot.ID,
		StartTime:  slot.Start,
		EndTime:    slot.End,
		Course:     req.Course,
		Parallel:   req.Parallel,
		Subject:    req.Subject,
	}
	for _, validate := range s.validators {
		if err := validate(teacher, entry); err != nil {
			return teacher, models.ScheduleEntry{}, err
		}
	}

	for _, existing := range teacher.Schedule {
		if existing.Weekday() == day && existing.StartTime == entry.StartTime {
			s.logger.Warn("schedule entry overlaps existing period",
				zap.String("teacher_id", teacher.ID),
				zap.String("day", string(day)),
				zap.String("start_time", entry.StartTime),
				zap.String("existing_entry", existing.ID),
			)
			break
		}
	}

	updated := teacher.Clone()
	updated.Schedule = append(updated.Schedule, entry)
	return updated, entry, nil
}

// RemoveEntry returns a copy of teacher without the entry. Unknown ids are a
// no-op.
func RemoveEntry(teacher models.Teacher, entryID string) models.Teacher {
	updated := teacher.Clone()
	kept := updated.Schedule[:0]
	for _, entry := range updated.Schedule {
		if entry.ID != entryID {
			kept = append(kept, entry)
		}
	}
	updated.Schedule = kept
	return updated
}

// FindEntry looks up an entry by id.
func FindEntry(teacher models.Teacher, entryID string) (models.ScheduleEntry, bool) {
	for _, entry := range teacher.Schedule {
		if entry.ID == entryID {
			return entry, true
		}
	}
	return models.ScheduleEntry{}, false
}
