package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/timetable"
)

type documentWriter interface {
	GetAll(ctx context.Context, collection string) ([]models.Document, error)
	Put(ctx context.Context, collection, id string, value interface{}) error
	Merge(ctx context.Context, collection, id string, value interface{}) error
	Create(ctx context.Context, collection string, value interface{}) (string, error)
	Delete(ctx context.Context, collection, id string) error
}

type snapshotReader interface {
	Current() timetable.Snapshot
}

// CatalogService edits the academic configuration: catalog lists, schedule
// templates and the course to template map. Every command edits a copy of
// the current snapshot and writes the whole document; the state picks the
// change up from the change feed.
type CatalogService struct {
	writer documentWriter
	state  snapshotReader
	logger *zap.Logger
	newID  timetable.IDFunc
}

// NewCatalogService constructs the service.
func NewCatalogService(writer documentWriter, state snapshotReader, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{writer: writer, state: state, logger: logger}
}

// Config returns the current academic configuration with template slots in
// start order.
func (s *CatalogService) Config() models.AcademicConfig {
	return withSortedSlots(s.state.Current().Config)
}

// AddItem appends value to a catalog list.
func (s *CatalogService) AddItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error) {
	return s.edit(ctx, func(c *timetable.Catalog) error {
		return c.AddItem(kind, value)
	})
}

// EditItem renames a catalog value. Course renames keep their template.
func (s *CatalogService) EditItem(ctx context.Context, kind models.CatalogKind, oldValue, newValue string) (models.AcademicConfig, error) {
	return s.edit(ctx, func(c *timetable.Catalog) error {
		return c.EditItem(kind, oldValue, newValue)
	})
}

// DeleteItem removes value from a catalog list.
func (s *CatalogService) DeleteItem(ctx context.Context, kind models.CatalogKind, value string) (models.AcademicConfig, error) {
	return s.edit(ctx, func(c *timetable.Catalog) error {
		return c.DeleteItem(kind, value)
	})
}

// ListTemplates returns the templates in storage order, each with its slots
// in start order.
func (s *CatalogService) ListTemplates() []models.ScheduleTemplate {
	templates := timetable.NewCatalog(s.state.Current().Config).Templates()
	for i := range templates {
		templates[i].Slots = templates[i].SortedSlots()
	}
	return templates
}

// GetTemplate returns one template with its slots in start order.
func (s *CatalogService) GetTemplate(id string) (models.ScheduleTemplate, bool) {
	tmpl, ok := timetable.NewCatalog(s.state.Current().Config).Template(id)
	if !ok {
		return models.ScheduleTemplate{}, false
	}
	tmpl.Slots = tmpl.SortedSlots()
	return tmpl, true
}

// CreateTemplate adds an empty template.
func (s *CatalogService) CreateTemplate(ctx context.Context, name string) (models.ScheduleTemplate, error) {
	var created models.ScheduleTemplate
	_, err := s.edit(ctx, func(c *timetable.Catalog) error {
		var err error
		created, err = c.CreateTemplate(name)
		return err
	})
	return created, err
}

// AddSlot appends a slot to a template.
func (s *CatalogService) AddSlot(ctx context.Context, templateID, label, start, end string) (models.TimeSlot, error) {
	var slot models.TimeSlot
	_, err := s.edit(ctx, func(c *timetable.Catalog) error {
		var err error
		slot, err = c.AddSlot(templateID, label, start, end)
		return err
	})
	return slot, err
}

// EditSlot updates a slot. Schedule entries keep the times they were created with.
func (s *CatalogService) EditSlot(ctx context.Context, templateID, slotID string, fields timetable.SlotFields) (models.TimeSlot, error) {
	var slot models.TimeSlot
	_, err := s.edit(ctx, func(c *timetable.Catalog) error {
		var err error
		slot, err = c.EditSlot(templateID, slotID, fields)
		return err
	})
	return slot, err
}

// DeleteSlot removes a slot.
func (s *CatalogService) DeleteSlot(ctx context.Context, templateID, slotID string) error {
	_, err := s.edit(ctx, func(c *timetable.Catalog) error {
		c.DeleteSlot(templateID, slotID)
		return nil
	})
	return err
}

// DeleteTemplate removes a template without touching its references.
func (s *CatalogService) DeleteTemplate(ctx context.Context, id string) error {
	_, err := s.edit(ctx, func(c *timetable.Catalog) error {
		c.DeleteTemplate(id)
		return nil
	})
	return err
}

// AssignTemplate maps course to templateID.
func (s *CatalogService) AssignTemplate(ctx context.Context, course, templateID string) (models.AcademicConfig, error) {
	return s.edit(ctx, func(c *timetable.Catalog) error {
		return c.Assign(course, templateID)
	})
}

// ResolveTemplate returns the template used by course.
func (s *CatalogService) ResolveTemplate(course string) (models.ScheduleTemplate, bool) {
	cfg := s.state.Current().Config
	tmpl := timetable.ResolveTemplate(&cfg, course)
	if tmpl == nil {
		return models.ScheduleTemplate{}, false
	}
	out := tmpl.Clone()
	out.Slots = out.SortedSlots()
	return out, true
}

func (s *CatalogService) edit(ctx context.Context, apply func(*timetable.Catalog) error) (models.AcademicConfig, error) {
	catalog := timetable.NewCatalog(s.state.Current().Config)
	if s.newID != nil {
		catalog.WithIDs(s.newID)
	}
	if err := apply(catalog); err != nil {
		return models.AcademicConfig{}, err
	}
	cfg := catalog.Config()
	if err := s.writer.Put(ctx, models.CollectionConfig, models.AcademicConfigKey, cfg); err != nil {
		return models.AcademicConfig{}, err
	}
	s.logger.Info("academic config updated",
		zap.Int("templates", len(cfg.ScheduleTemplates)),
		zap.Int("courses", len(cfg.Courses)),
	)
	return withSortedSlots(cfg), nil
}

// withSortedSlots copies cfg for display. The stored slot order is kept.
func withSortedSlots(cfg models.AcademicConfig) models.AcademicConfig {
	out := cfg.Clone()
	for i := range out.ScheduleTemplates {
		out.ScheduleTemplates[i].Slots = out.ScheduleTemplates[i].SortedSlots()
	}
	return out
}
