package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/dto"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// LogService reads and writes the class logs of a teacher.
type LogService struct {
	writer    documentWriter
	state     snapshotReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLogService constructs the service.
func NewLogService(writer documentWriter, state snapshotReader, validate *validator.Validate, logger *zap.Logger) *LogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LogService{writer: writer, state: state, validator: validate, logger: logger, now: time.Now}
}

// List returns the teacher's logs between from and to inclusive, ordered by
// date. Empty bounds are open.
func (s *LogService) List(ctx context.Context, teacherID string, query dto.LogRangeQuery) ([]models.DailyLog, error) {
	for _, bound := range []string{query.From, query.To} {
		if bound == "" {
			continue
		}
		if _, err := timetable.ParseDate(bound, time.UTC); err != nil {
			return nil, err
		}
	}
	logs, err := s.load(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	filtered := make([]models.DailyLog, 0, len(logs))
	for _, log := range logs {
		if query.From != "" && log.Date < query.From {
			continue
		}
		if query.To != "" && log.Date > query.To {
			continue
		}
		filtered = append(filtered, log)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Date != filtered[j].Date {
			return filtered[i].Date < filtered[j].Date
		}
		return filtered[i].PeriodID < filtered[j].PeriodID
	})
	return filtered, nil
}

// Index loads every log of the teacher keyed by entry and date.
func (s *LogService) Index(ctx context.Context, teacherID string) (models.LogIndex, error) {
	logs, err := s.load(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return models.NewLogIndex(logs), nil
}

// Save updates the log of (periodId, date) when one exists, otherwise creates it.
func (s *LogService) Save(ctx context.Context, teacherID string, req dto.SaveLogRequest) (*models.DailyLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid log payload")
	}
	if _, err := timetable.ParseDate(req.Date, time.UTC); err != nil {
		return nil, err
	}
	teacher, ok := s.state.Current().Teacher(teacherID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
	}
	if _, found := timetable.FindEntry(teacher, req.PeriodID); !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
	}

	index, err := s.Index(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	collection := models.LogCollection(teacherID)
	now := s.now().UTC()

	if existing, found := index.Lookup(req.PeriodID, req.Date); found {
		existing.Topic = strings.TrimSpace(req.Topic)
		existing.Activities = req.Activities
		existing.Observations = req.Observations
		existing.LastEdited = &now
		if err := s.writer.Put(ctx, collection, existing.ID, existing); err != nil {
			return nil, err
		}
		return &existing, nil
	}

	log := models.DailyLog{
		UserID:       teacherID,
		PeriodID:     req.PeriodID,
		Date:         req.Date,
		Topic:        strings.TrimSpace(req.Topic),
		Activities:   req.Activities,
		Observations: req.Observations,
		CreatedAt:    &now,
	}
	id, err := s.writer.Create(ctx, collection, log)
	if err != nil {
		return nil, err
	}
	log.ID = id
	s.logger.Debug("class log created", zap.String("user_id", teacherID), zap.String("log_id", id))
	return &log, nil
}

func (s *LogService) load(ctx context.Context, teacherID string) ([]models.DailyLog, error) {
	docs, err := s.writer.GetAll(ctx, models.LogCollection(teacherID))
	if err != nil {
		return nil, err
	}
	logs := make([]models.DailyLog, 0, len(docs))
	for _, doc := range docs {
		log, err := decodeLog(doc)
		if err != nil {
			s.logger.Warn("skipping unreadable class log", zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		logs = append(logs, log)
	}
	return logs, nil
}
