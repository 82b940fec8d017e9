package models

import "fmt"

// RoleName is the closed set of roles the system knows about. The wire
// format and the roles table use plain strings; everything past the
// boundary operates on this type.
type RoleName string

const (
	RoleTeacher RoleName = "Teacher"
	RoleStudent RoleName = "Student"
)

// AllRoles lists every role created at bootstrap.
var AllRoles = []RoleName{RoleTeacher, RoleStudent}

// ParseRoleName validates a role string against the closed set. The match
// is case-sensitive.
func ParseRoleName(s string) (RoleName, error) {
	switch RoleName(s) {
	case RoleTeacher, RoleStudent:
		return RoleName(s), nil
	}
	return "", fmt.Errorf("invalid role: %q, only 'Teacher' or 'Student' roles are allowed", s)
}

// Role represents a role membership group persisted in the store.
type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName returns the database table name for the Role model.
func (Role) TableName() string {
	return "roles"
}
