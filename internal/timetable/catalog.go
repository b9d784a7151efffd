// Package timetable holds the storage-agnostic scheduling model: schedule
// templates, the course to template assignment map, teacher schedules and the
// read projections built from them.
package timetable

import (
	"strings"

	"github.com/google/uuid"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// IDFunc generates identifiers for templates, slots and schedule entries.
type IDFunc func() string

// Catalog edits a private copy of the academic configuration. The caller
// persists Config() once every change succeeded; a failed call leaves the copy
// untouched.
type Catalog struct {
	cfg   models.AcademicConfig
	newID IDFunc
}

// NewCatalog copies cfg so edits never reach the shared snapshot.
func NewCatalog(cfg models.AcademicConfig) *Catalog {
	return &Catalog{cfg: cfg.Clone(), newID: uuid.NewString}
}

// WithIDs overrides the identifier generator.
func (c *Catalog) WithIDs(fn IDFunc) *Catalog {
	if fn != nil {
		c.newID = fn
	}
	return c
}

// Config returns a copy of the edited configuration.
func (c *Catalog) Config() models.AcademicConfig {
	return c.cfg.Clone()
}

// AddItem appends a trimmed value to a catalog list.
func (c *Catalog) AddItem(kind models.CatalogKind, value string) error {
	if !models.ValidCatalogKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown catalog list")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return appErrors.Clone(appErrors.ErrValidation, "value is required")
	}
	c.cfg.SetList(kind, append(c.cfg.List(kind), value))
	return nil
}

// EditItem replaces every occurrence of oldValue. Renaming a course moves its
// template assignment to the new name.
func (c *Catalog) EditItem(kind models.CatalogKind, oldValue, newValue string) error {
	if !models.ValidCatalogKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown catalog list")
	}
	newValue = strings.TrimSpace(newValue)
	if newValue == "" {
		return appErrors.Clone(appErrors.ErrValidation, "value is required")
	}
	items := c.cfg.List(kind)
	found := false
	updated := make([]string, len(items))
	for i, item := range items {
		if item == oldValue {
			updated[i] = newValue
			found = true
			continue
		}
		updated[i] = item
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "catalog item not found")
	}
	if newValue == oldValue {
		return nil
	}
	c.cfg.SetList(kind, updated)
	if kind == models.CatalogCourses {
		c.RenameCourse(oldValue, newValue)
	}
	return nil
}

// DeleteItem removes every occurrence of value. Missing values are ignored.
func (c *Catalog) DeleteItem(kind models.CatalogKind, value string) error {
	if !models.ValidCatalogKind(kind) {
		return appErrors.Clone(appErrors.ErrValidation, "unknown catalog list")
	}
	items := c.cfg.List(kind)
	kept := make([]string, 0, len(items))
	for _, item := range items {
		if item != value {
			kept = append(kept, item)
		}
	}
	c.cfg.SetList(kind, kept)
	return nil
}
