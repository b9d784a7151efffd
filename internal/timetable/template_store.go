package timetable

import (
	"regexp"
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// SlotFields carries a partial slot edit; nil fields are left unchanged.
type SlotFields struct {
	Label *string
	Start *string
	End   *string
}

// Templates lists the templates in storage order.
func (c *Catalog) Templates() []models.ScheduleTemplate {
	out := make([]models.ScheduleTemplate, len(c.cfg.ScheduleTemplates))
	for i, tmpl := range c.cfg.ScheduleTemplates {
		out[i] = tmpl.Clone()
	}
	return out
}

// Template returns a copy of the template with id.
func (c *Catalog) Template(id string) (models.ScheduleTemplate, bool) {
	if idx := c.templateIndex(id); idx >= 0 {
		return c.cfg.ScheduleTemplates[idx].Clone(), true
	}
	return models.ScheduleTemplate{}, false
}

// CreateTemplate appends an empty template.
func (c *Catalog) CreateTemplate(name string) (models.ScheduleTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ScheduleTemplate{}, appErrors.Clone(appErrors.ErrValidation, "template name is required")
	}
	tmpl := models.ScheduleTemplate{ID: c.newID(), Name: name, Slots: []models.TimeSlot{}}
	c.cfg.ScheduleTemplates = append(c.cfg.ScheduleTemplates, tmpl)
	return tmpl.Clone(), nil
}

// AddSlot appends a slot to the template.
func (c *Catalog) AddSlot(templateID, label, start, end string) (models.TimeSlot, error) {
	idx := c.templateIndex(templateID)
	if idx < 0 {
		return models.TimeSlot{}, appErrors.Clone(appErrors.ErrNotFound, "template not found")
	}
	slot := models.TimeSlot{
		ID:    c.newID(),
		Label: strings.TrimSpace(label),
		Start: strings.TrimSpace(start),
		End:   strings.TrimSpace(end),
	}
	if err := validateSlot(slot); err != nil {
		return models.TimeSlot{}, err
	}
	tmpl := &c.cfg.ScheduleTemplates[idx]
	tmpl.Slots = append(tmpl.Slots, slot)
	return slot, nil
}

// EditSlot updates slot fields in place; the slot id never changes.
func (c *Catalog) EditSlot(templateID, slotID string, fields SlotFields) (models.TimeSlot, error) {
	idx := c.templateIndex(templateID)
	if idx < 0 {
		return models.TimeSlot{}, appErrors.Clone(appErrors.ErrNotFound, "template not found")
	}
	tmpl := &c.cfg.ScheduleTemplates[idx]
	for i := range tmpl.Slots {
		if tmpl.Slots[i].ID != slotID {
			continue
		}
		edited := tmpl.Slots[i]
		if fields.Label != nil {
			edited.Label = strings.TrimSpace(*fields.Label)
		}
		if fields.Start != nil {
			edited.Start = strings.TrimSpace(*fields.Start)
		}
		if fields.End != nil {
			edited.End = strings.TrimSpace(*fields.End)
		}
		if err := validateSlot(edited); err != nil {
			return models.TimeSlot{}, err
		}
		tmpl.Slots[i] = edited
		return edited, nil
	}
	return models.TimeSlot{}, appErrors.Clone(appErrors.ErrNotFound, "time slot not found")
}

// DeleteSlot removes a slot; unknown ids are ignored.
func (c *Catalog) DeleteSlot(templateID, slotID string) {
	idx := c.templateIndex(templateID)
	if idx < 0 {
		return
	}
	tmpl := &c.cfg.ScheduleTemplates[idx]
	kept := make([]models.TimeSlot, 0, len(tmpl.Slots))
	for _, slot := range tmpl.Slots {
		if slot.ID != slotID {
			kept = append(kept, slot)
		}
	}
	tmpl.Slots = kept
}

// DeleteTemplate removes a template. Assignments and schedule entries that
// reference it are left as they are.
func (c *Catalog) DeleteTemplate(id string) {
	kept := make([]models.ScheduleTemplate, 0, len(c.cfg.ScheduleTemplates))
	for _, tmpl := range c.cfg.ScheduleTemplates {
		if tmpl.ID != id {
			kept = append(kept, tmpl)
		}
	}
	c.cfg.ScheduleTemplates = kept
}

func (c *Catalog) templateIndex(id string) int {
	for i, tmpl := range c.cfg.ScheduleTemplates {
		if tmpl.ID == id {
			return i
		}
	}
	return -1
}

func validateSlot(slot models.TimeSlot) error {
	if slot.Label == "" || slot.Start == "" || slot.End == "" {
		return appErrors.Clone(appErrors.ErrValidation, "label, start and end are required")
	}
	if !clockPattern.MatchString(slot.Start) || !clockPattern.MatchString(slot.End) {
		return appErrors.Clone(appErrors.ErrValidation, "times must use HH:MM")
	}
	if slot.Start >= slot.End {
		return appErrors.Clone(appErrors.ErrValidation, "start must be before end")
	}
	return nil
}
