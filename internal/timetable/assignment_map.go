package timetable

import (
	"strings"

	"github.com/noah-isme/class-planner-api/internal/models"
	appErrors "github.com/noah-isme/class-planner-api/pkg/errors"
)

// Assign binds course to a template id. Neither side is checked against the
// catalog; an unknown template id resolves through the default.
func (c *Catalog) Assign(course, templateID string) error {
	if strings.TrimSpace(course) == "" || strings.TrimSpace(templateID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course and template are required")
	}
	if c.cfg.CourseSchedules == nil {
		c.cfg.CourseSchedules = make(map[string]string)
	}
	c.cfg.CourseSchedules[course] = templateID
	return nil
}

// RenameCourse moves the assignment of oldName to newName.
func (c *Catalog) RenameCourse(oldName, newName string) {
	templateID, ok := c.cfg.CourseSchedules[oldName]
	if !ok || oldName == newName {
		return
	}
	c.cfg.CourseSchedules[newName] = templateID
	delete(c.cfg.CourseSchedules, oldName)
}

// Resolve returns the template for course using the edited configuration.
func (c *Catalog) Resolve(course string) (models.ScheduleTemplate, bool) {
	tmpl := ResolveTemplate(&c.cfg, course)
	if tmpl == nil {
		return models.ScheduleTemplate{}, false
	}
	return tmpl.Clone(), true
}

// ResolveTemplate returns the assigned template of course when it still
// exists, otherwise the first template, otherwise nil. The returned pointer
// aliases cfg and must not be modified.
func ResolveTemplate(cfg *models.AcademicConfig, course string) *models.ScheduleTemplate {
	if cfg == nil || len(cfg.ScheduleTemplates) == 0 {
		return nil
	}
	if templateID, ok := cfg.CourseSchedules[course]; ok {
		for i := range cfg.ScheduleTemplates {
			if cfg.ScheduleTemplates[i].ID == templateID {
				return &cfg.ScheduleTemplates[i]
			}
		}
	}
	return &cfg.ScheduleTemplates[0]
}
