package dto

import "github.com/noah-isme/class-planner-api/internal/models"

// CatalogItemRequest adds a value to a catalog list.
type CatalogItemRequest struct {
	Value string `json:"value" validate:"required"`
}

// CatalogRenameRequest renames a catalog value.
type CatalogRenameRequest struct {
	OldValue string `json:"oldValue" validate:"required"`
	NewValue string `json:"newValue" validate:"required"`
}

// CreateTemplateRequest names a new schedule template.
type CreateTemplateRequest struct {
	Name string `json:"name" validate:"required"`
}

// TimeSlotRequest is the payload of POST /templates/:id/slots.
type TimeSlotRequest struct {
	Label string `json:"label" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// UpdateTimeSlotRequest edits selected slot fields.
type UpdateTimeSlotRequest struct {
	Label *string `json:"label"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// AssignTemplateRequest binds a course to a template.
type AssignTemplateRequest struct {
	TemplateID string `json:"templateId" validate:"required"`
}

// CreateUserRequest registers an application user.
type CreateUserRequest struct {
	Name             string            `json:"name" validate:"required"`
	Email            string            `json:"email" validate:"required,email"`
	Password         string            `json:"password" validate:"required,min=6"`
	Roles            []models.UserRole `json:"roles" validate:"required,min=1"`
	WorkSection      string            `json:"workSection"`
	AssignedSubjects []string          `json:"assignedSubjects"`
}

// UpdateUserRequest edits profile fields; the schedule is never touched here.
type UpdateUserRequest struct {
	Name             *string            `json:"name"`
	Email            *string            `json:"email" validate:"omitempty,email"`
	Password         *string            `json:"password" validate:"omitempty,min=6"`
	Roles            *[]models.UserRole `json:"roles" validate:"omitempty,min=1"`
	WorkSection      *string            `json:"workSection"`
	AssignedSubjects *[]string          `json:"assignedSubjects"`
}

// UserFilter narrows the user directory listing.
type UserFilter struct {
	Role   models.UserRole
	Search string
}

// AddScheduleEntryRequest places a teacher in a template slot. Empty course,
// parallel or subject fall back to catalog defaults.
type AddScheduleEntryRequest struct {
	Day           string `json:"day" validate:"required"`
	TimeSlotIndex int    `json:"timeSlotIndex"`
	Course        string `json:"course"`
	Parallel      string `json:"parallel"`
	Subject       string `json:"subject"`
}

// SaveLogRequest writes the class log of a schedule entry on a date.
type SaveLogRequest struct {
	PeriodID     string `json:"periodId" validate:"required"`
	Date         string `json:"date" validate:"required"`
	Topic        string `json:"topic"`
	Activities   string `json:"activities"`
	Observations string `json:"observations"`
}

// LogRangeQuery filters logs by date range.
type LogRangeQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}
