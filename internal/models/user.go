package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin          UserRole = "ADMIN"
	RoleAdministrative UserRole = "ADMINISTRATIVE"
	RoleTeacher        UserRole = "TEACHER"
	RoleAreaDirector   UserRole = "AREA_DIRECTOR"
)

// ValidRole reports whether the role is one the directory accepts.
func ValidRole(role UserRole) bool {
	switch role {
	case RoleAdmin, RoleAdministrative, RoleTeacher, RoleAreaDirector:
		return true
	}
	return false
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// UserProfile is the public view of an application user.
type UserProfile struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	Roles            []UserRole      `json:"roles"`
	WorkSection      string          `json:"workSection,omitempty"`
	AssignedSubjects []string        `json:"assignedSubjects"`
	Schedule         []ScheduleEntry `json:"schedule"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
}
