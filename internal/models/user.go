// Package models contains data models for the LMS API.
package models

import "time"

// User represents an account in the system. Students carry an optional
// course enrollment; teachers are not tied to a course.
type User struct {
	ID           string  `json:"id" gorm:"primaryKey"`
	Username     string  `json:"username" gorm:"uniqueIndex;not null"`
	Email        string  `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string  `json:"-" gorm:"not null"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	CourseID     *uint   `json:"course_id" gorm:"column:course_id"`
	Course       *Course `json:"-" gorm:"foreignKey:CourseID"`
	Roles        []Role  `json:"-" gorm:"many2many:user_roles"`
	RefreshToken *string `json:"-"`
	// RefreshTokenExpireTime is the hard deadline for the stored refresh
	// token. An expired token is treated as absent regardless of its value.
	RefreshTokenExpireTime *time.Time `json:"-"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}
