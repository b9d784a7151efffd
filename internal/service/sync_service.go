package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
	"github.com/noah-isme/class-planner-api/pkg/jobs"
)

const refreshJobType = "collection_refresh"

// DocumentStore persists JSON documents by collection.
type DocumentStore interface {
	GetAll(ctx context.Context, collection string) ([]models.Document, error)
	Get(ctx context.Context, collection, id string) (*models.Document, error)
	Put(ctx context.Context, collection, id string, data types.JSONText) error
	Merge(ctx context.Context, collection, id string, data types.JSONText) error
	Create(ctx context.Context, collection string, data types.JSONText) (string, error)
	Delete(ctx context.Context, collection, id string) error
}

// ChangeFeed carries change notices between processes.
type ChangeFeed interface {
	Publish(ctx context.Context, event models.ChangeEvent) error
	Subscribe(ctx context.Context) (<-chan models.ChangeEvent, func(), error)
}

type refreshQueue interface {
	Enqueue(job jobs.Job) (bool, error)
}

// ChangeListener receives the full contents of a collection after every change.
type ChangeListener func(docs []models.Document)

// SyncConfig tunes the refresh worker pool.
type SyncConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// SyncService is the document gateway of the planner. Writes go to the store
// and are announced on the change feed; subscribers reload the whole
// collection when a notice arrives.
type SyncService struct {
	store   DocumentStore
	feed    ChangeFeed
	metrics *MetricsService
	logger  *zap.Logger
	cfg     SyncConfig

	mu        sync.Mutex
	listeners map[string]map[int]ChangeListener
	notices   map[string]uint64
	nextID    int
	queue     refreshQueue
	worker    *jobs.Queue
	stopFeed  func()
	done      chan struct{}
}

// NewSyncService constructs the gateway.
func NewSyncService(store DocumentStore, feed ChangeFeed, metrics *MetricsService, cfg SyncConfig, logger *zap.Logger) *SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncService{
		store:     store,
		feed:      feed,
		metrics:   metrics,
		logger:    logger,
		cfg:       cfg,
		listeners: make(map[string]map[int]ChangeListener),
		notices:   make(map[string]uint64),
	}
}

// Start launches the refresh workers and begins consuming the change feed.
func (s *SyncService) Start(ctx context.Context) error {
	worker := jobs.NewQueue("sync", s.handleRefresh, jobs.QueueConfig{
		Workers:    s.cfg.Workers,
		BufferSize: 32,
		MaxRetries: s.cfg.MaxRetries,
		RetryDelay: s.cfg.RetryDelay,
		Logger:     s.logger,
	})
	worker.Start(ctx)

	events, stop, err := s.feed.Subscribe(ctx)
	if err != nil {
		worker.Stop()
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to subscribe to change feed")
	}

	s.mu.Lock()
	s.worker = worker
	s.queue = worker
	s.stopFeed = stop
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		for event := range events {
			s.scheduleRefresh(event.Collection)
		}
	}()
	return nil
}

// Stop ends feed consumption and waits for in-flight refreshes.
func (s *SyncService) Stop() {
	s.mu.Lock()
	stop, worker, done := s.stopFeed, s.worker, s.done
	s.stopFeed, s.queue = nil, nil
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	if done != nil {
		<-done
	}
	if worker != nil {
		worker.Stop()
	}
}

// Subscribe registers onChange for collection and delivers the current
// contents before returning. Notices that arrive during the initial load
// trigger one more refresh once it has been delivered.
func (s *SyncService) Subscribe(ctx context.Context, collection string, onChange ChangeListener) (func(), error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.listeners[collection] == nil {
		s.listeners[collection] = make(map[int]ChangeListener)
	}
	s.listeners[collection][id] = onChange
	seen := s.notices[collection]
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		delete(s.listeners[collection], id)
		s.mu.Unlock()
	}

	docs, err := s.GetAll(ctx, collection)
	if err != nil {
		unsubscribe()
		return nil, err
	}
	onChange(docs)

	s.mu.Lock()
	missed := s.notices[collection] != seen
	s.mu.Unlock()
	if missed {
		s.scheduleRefresh(collection)
	}
	return unsubscribe, nil
}

// GetAll loads every document of collection.
func (s *SyncService) GetAll(ctx context.Context, collection string) ([]models.Document, error) {
	start := time.Now()
	docs, err := s.store.GetAll(ctx, collection)
	s.metrics.ObserveDBQuery("documents.get_all", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load documents")
	}
	return docs, nil
}

// Put replaces a whole document.
func (s *SyncService) Put(ctx context.Context, collection, id string, value interface{}) error {
	data, err := encodeDocument(value)
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.store.Put(ctx, collection, id, data)
	s.metrics.ObserveDBQuery("documents.put", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save document")
	}
	s.announce(ctx, collection, id, models.ChangeOpPut)
	return nil
}

// Merge writes only the top-level fields present in value.
func (s *SyncService) Merge(ctx context.Context, collection, id string, value interface{}) error {
	data, err := encodeDocument(value)
	if err != nil {
		return err
	}
	start := time.Now()
	err = s.store.Merge(ctx, collection, id, data)
	s.metrics.ObserveDBQuery("documents.merge", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update document")
	}
	s.announce(ctx, collection, id, models.ChangeOpPut)
	return nil
}

// Create stores value under a generated id.
func (s *SyncService) Create(ctx context.Context, collection string, value interface{}) (string, error) {
	data, err := encodeDocument(value)
	if err != nil {
		return "", err
	}
	start := time.Now()
	id, err := s.store.Create(ctx, collection, data)
	s.metrics.ObserveDBQuery("documents.create", time.Since(start))
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create document")
	}
	s.announce(ctx, collection, id, models.ChangeOpCreate)
	return id, nil
}

// Delete removes a document; missing documents are ignored.
func (s *SyncService) Delete(ctx context.Context, collection, id string) error {
	start := time.Now()
	err := s.store.Delete(ctx, collection, id)
	s.metrics.ObserveDBQuery("documents.delete", time.Since(start))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete document")
	}
	s.announce(ctx, collection, id, models.ChangeOpDelete)
	return nil
}

// announce publishes the change. A failed publish is logged only: the write
// already succeeded and the next notice for the collection resyncs readers.
func (s *SyncService) announce(ctx context.Context, collection, id, op string) {
	event := models.ChangeEvent{Collection: collection, DocumentID: id, Op: op, At: time.Now().UTC()}
	if err := s.feed.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish change", zap.String("collection", collection), zap.String("document_id", id), zap.Error(err))
	}
}

func (s *SyncService) scheduleRefresh(collection string) {
	s.mu.Lock()
	s.notices[collection]++
	_, watched := s.listeners[collection]
	queue := s.queue
	s.mu.Unlock()
	if !watched || queue == nil {
		return
	}
	coalesced, err := queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: refreshJobType, Key: collection, Payload: collection})
	if err != nil {
		s.logger.Warn("failed to schedule refresh", zap.String("collection", collection), zap.Error(err))
		return
	}
	if coalesced {
		s.logger.Debug("refresh coalesced", zap.String("collection", collection))
	}
}

func (s *SyncService) handleRefresh(ctx context.Context, job jobs.Job) error {
	collection, _ := job.Payload.(string)
	docs, err := s.GetAll(ctx, collection)
	s.metrics.RecordSyncRefresh(collection, err)
	if err != nil {
		return err
	}

	s.mu.Lock()
	listeners := make([]ChangeListener, 0, len(s.listeners[collection]))
	for _, listener := range s.listeners[collection] {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(docs)
	}
	return nil
}

func encodeDocument(value interface{}) (types.JSONText, error) {
	if raw, ok := value.(types.JSONText); ok {
		return raw, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode document")
	}
	return types.JSONText(payload), nil
}
