package models

import (
	"strings"
	"time"
)

// CollectionUsers holds one document per application user.
const CollectionUsers = "app_users"

// Teacher is an application user document. Every user may carry a weekly
// schedule, whatever their roles.
type Teacher struct {
	ID               string          `json:"-"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	PasswordHash     string          `json:"passwordHash,omitempty"`
	LegacyPassword   string          `json:"password,omitempty"`
	Roles            []UserRole      `json:"roles"`
	WorkSection      string          `json:"workSection"`
	AssignedSubjects []string        `json:"assignedSubjects"`
	Schedule         []ScheduleEntry `json:"schedule"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
}

// HasRole reports whether the user carries the given role.
func (t Teacher) HasRole(role UserRole) bool {
	for _, r := range t.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SameEmail compares addresses case-insensitively.
func (t Teacher) SameEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(t.Email), strings.TrimSpace(email))
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (t Teacher) Clone() Teacher {
	out := t
	out.Roles = append([]UserRole(nil), t.Roles...)
	out.AssignedSubjects = append([]string(nil), t.AssignedSubjects...)
	out.Schedule = append([]ScheduleEntry(nil), t.Schedule...)
	return out
}

// Profile strips credentials from the document.
func (t Teacher) Profile() UserProfile {
	schedule := t.Schedule
	if schedule == nil {
		schedule = []ScheduleEntry{}
	}
	subjects := t.AssignedSubjects
	if subjects == nil {
		subjects = []string{}
	}
	return UserProfile{
		ID:               t.ID,
		Name:             t.Name,
		Email:            t.Email,
		Roles:            t.Roles,
		WorkSection:      t.WorkSection,
		AssignedSubjects: subjects,
		Schedule:         schedule,
		CreatedAt:        t.CreatedAt,
	}
}
