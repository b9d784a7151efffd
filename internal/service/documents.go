package service

import (
	"encoding/json"
	"fmt"

	"github.com/noah-isme/class-planner-api/internal/models"
)

// decodeAcademicConfig reads the configuration document. Lists missing from
// the document fall back to the defaults; a legacy top-level timeSlots list is
// exposed as the "legacy" template when no templates were stored.
func decodeAcademicConfig(doc models.Document) (models.AcademicConfig, error) {
	var stored models.AcademicConfig
	if err := json.Unmarshal(doc.Data, &stored); err != nil {
		return models.AcademicConfig{}, fmt.Errorf("decode academic config: %w", err)
	}
	defaults := models.DefaultAcademicConfig()

	cfg := stored
	if cfg.Sections == nil {
		cfg.Sections = defaults.Sections
	}
	if cfg.Courses == nil {
		cfg.Courses = defaults.Courses
	}
	if cfg.Parallels == nil {
		cfg.Parallels = defaults.Parallels
	}
	if cfg.Subjects == nil {
		cfg.Subjects = defaults.Subjects
	}
	if cfg.ScheduleTemplates == nil {
		cfg.ScheduleTemplates = defaults.ScheduleTemplates
	}
	if cfg.CourseSchedules == nil {
		cfg.CourseSchedules = map[string]string{}
	}
	if len(stored.TimeSlots) > 0 && len(stored.ScheduleTemplates) == 0 {
		cfg.ScheduleTemplates = append(cfg.ScheduleTemplates, models.ScheduleTemplate{
			ID:    models.LegacyTemplateID,
			Name:  "Base Schedule",
			Slots: stored.TimeSlots,
		})
	}
	cfg.TimeSlots = nil
	return cfg, nil
}

func decodeTeacher(doc models.Document) (models.Teacher, error) {
	var teacher models.Teacher
	if err := json.Unmarshal(doc.Data, &teacher); err != nil {
		return models.Teacher{}, fmt.Errorf("decode user %s: %w", doc.ID, err)
	}
	teacher.ID = doc.ID
	return teacher, nil
}

func decodeLog(doc models.Document) (models.DailyLog, error) {
	var log models.DailyLog
	if err := json.Unmarshal(doc.Data, &log); err != nil {
		return models.DailyLog{}, fmt.Errorf("decode log %s: %w", doc.ID, err)
	}
	log.ID = doc.ID
	return log, nil
}
