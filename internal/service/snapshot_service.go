package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
)

type documentSubscriber interface {
	Subscribe(ctx context.Context, collection string, onChange ChangeListener) (func(), error)
	Put(ctx context.Context, collection, id string, value interface{}) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// SnapshotService keeps the timetable state in step with the configuration
// and user collections.
type SnapshotService struct {
	source  documentSubscriber
	state   *timetable.State
	cache   cacheInvalidator
	metrics *MetricsService
	logger  *zap.Logger

	mu     sync.Mutex
	unsubs []func()
}

// NewSnapshotService constructs the service.
func NewSnapshotService(source documentSubscriber, state *timetable.State, cache cacheInvalidator, metrics *MetricsService, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{source: source, state: state, cache: cache, metrics: metrics, logger: logger}
}

// Start subscribes to both collections; the state is populated on return.
func (s *SnapshotService) Start(ctx context.Context) error {
	unsubConfig, err := s.source.Subscribe(ctx, models.CollectionConfig, func(docs []models.Document) {
		s.applyConfig(ctx, docs)
	})
	if err != nil {
		return err
	}
	unsubUsers, err := s.source.Subscribe(ctx, models.CollectionUsers, func(docs []models.Document) {
		s.applyUsers(ctx, docs)
	})
	if err != nil {
		unsubConfig()
		return err
	}

	s.mu.Lock()
	s.unsubs = append(s.unsubs, unsubConfig, unsubUsers)
	s.mu.Unlock()
	return nil
}

// Stop removes the subscriptions.
func (s *SnapshotService) Stop() {
	s.mu.Lock()
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}

// State exposes the live state container.
func (s *SnapshotService) State() *timetable.State {
	return s.state
}

func (s *SnapshotService) applyConfig(ctx context.Context, docs []models.Document) {
	for _, doc := range docs {
		if doc.ID != models.AcademicConfigKey {
			continue
		}
		cfg, err := decodeAcademicConfig(doc)
		if err != nil {
			s.logger.Error("ignoring unreadable academic config", zap.Error(err))
			return
		}
		s.published(ctx, s.state.ApplyConfig(cfg))
		return
	}

	defaults := models.DefaultAcademicConfig()
	s.logger.Info("academic config missing, writing defaults")
	if err := s.source.Put(ctx, models.CollectionConfig, models.AcademicConfigKey, defaults); err != nil {
		s.logger.Error("failed to write default academic config", zap.Error(err))
	}
	s.published(ctx, s.state.ApplyConfig(defaults))
}

func (s *SnapshotService) applyUsers(ctx context.Context, docs []models.Document) {
	teachers := make([]models.Teacher, 0, len(docs))
	for _, doc := range docs {
		teacher, err := decodeTeacher(doc)
		if err != nil {
			s.logger.Warn("skipping unreadable user document", zap.String("document_id", doc.ID), zap.Error(err))
			continue
		}
		teachers = append(teachers, teacher)
	}
	s.published(ctx, s.state.ApplyTeachers(teachers))
}

func (s *SnapshotService) published(ctx context.Context, snap timetable.Snapshot) {
	s.metrics.SetSnapshotVersion(snap.Version)
	s.logger.Debug("snapshot applied", zap.Uint64("version", snap.Version), zap.Int("teachers", len(snap.Teachers)))
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, reportCachePattern)
	}
}
