package service

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// ScheduleService edits the weekly schedule of a user.
type ScheduleService struct {
	writer    documentWriter
	state     snapshotReader
	scheduler *timetable.Scheduler
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the service.
func NewScheduleService(writer documentWriter, state snapshotReader, scheduler *timetable.Scheduler, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if scheduler == nil {
		scheduler = timetable.NewScheduler(logger)
	}
	return &ScheduleService{writer: writer, state: state, scheduler: scheduler, validator: validate, logger: logger}
}

// List returns the schedule ordered by weekday and start time.
func (s *ScheduleService) List(teacherID string) ([]models.ScheduleEntry, error) {
	teacher, ok := s.state.Current().Teacher(teacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	entries := append([]models.ScheduleEntry{}, teacher.Schedule...)
	order := make(map[models.Weekday]int, len(models.Weekdays))
	for i, day := range models.Weekdays {
		order[day] = (i + 6) % 7
	}
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := order[entries[i].Weekday()], order[entries[j].Weekday()]
		if di != dj {
			return di < dj
		}
		return entries[i].StartTime < entries[j].StartTime
	})
	return entries, nil
}

// AddEntry places the teacher in a slot of the course template. Empty course
// and parallel default to the first catalog values; an empty subject defaults
// to the teacher's first assigned subject, then the first catalog subject.
func (s *ScheduleService) AddEntry(ctx context.Context, teacherID string, req dto.AddScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	snap := s.state.Current()
	teacher, ok := snap.Teacher(teacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	cfg := snap.Config

	entryReq := timetable.EntryRequest{
		Day:           models.Weekday(req.Day),
		Course:        firstNonEmpty(req.Course, first(cfg.Courses)),
		Parallel:      firstNonEmpty(req.Parallel, first(cfg.Parallels)),
		Subject:       firstNonEmpty(req.Subject, first(teacher.AssignedSubjects), first(cfg.Subjects)),
		TimeSlotIndex: req.TimeSlotIndex,
	}
	updated, entry, err := s.scheduler.AddEntry(&cfg, teacher, entryReq)
	if err != nil {
		return nil, err
	}
	if err := s.writeSchedule(ctx, updated); err != nil {
		return nil, err
	}
	s.logger.Info("schedule entry added",
		zap.String("user_id", teacherID),
		zap.String("entry_id", entry.ID),
		zap.String("day", string(entry.Day)),
		zap.String("start_time", entry.StartTime),
	)
	return &entry, nil
}

// RemoveEntry deletes an entry; unknown entries are ignored.
func (s *ScheduleService) RemoveEntry(ctx context.Context, teacherID, entryID string) error {
	teacher, ok := s.state.Current().Teacher(teacherID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if _, found := timetable.FindEntry(teacher, entryID); !found {
		return nil
	}
	return s.writeSchedule(ctx, timetable.RemoveEntry(teacher, entryID))
}

func (s *ScheduleService) writeSchedule(ctx context.Context, teacher models.Teacher) error {
	schedule := teacher.Schedule
	if schedule == nil {
		schedule = []models.ScheduleEntry{}
	}
	return s.writer.Merge(ctx, models.CollectionUsers, teacher.ID, map[string]interface{}{"schedule": schedule})
}

func first(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
