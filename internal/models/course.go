package models

import "time"

// Course is the top of the content hierarchy. Enrollment scopes a
// student's read access to exactly one course.
type Course struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	Modules     []Module  `json:"-" gorm:"foreignKey:CourseID"`
	Users       []User    `json:"-" gorm:"foreignKey:CourseID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Course model.
func (Course) TableName() string {
	return "courses"
}

// Module belongs to one course and groups activities.
type Module struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Description string     `json:"description"`
	CourseID    uint       `json:"course_id" gorm:"not null;index"`
	Course      *Course    `json:"-" gorm:"foreignKey:CourseID"`
	Activities  []Activity `json:"-" gorm:"foreignKey:ModuleID"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for the Module model.
func (Module) TableName() string {
	return "modules"
}

// Activity belongs to one module and one activity type.
type Activity struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	Name        string        `json:"name" gorm:"not null"`
	Description string        `json:"description"`
	Details     string        `json:"details"`
	TypeID      uint          `json:"type_id" gorm:"not null"`
	Type        *ActivityType `json:"-" gorm:"foreignKey:TypeID"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	ModuleID    uint          `json:"module_id" gorm:"not null;index"`
	Module      *Module       `json:"-" gorm:"foreignKey:ModuleID"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName returns the database table name for the Activity model.
func (Activity) TableName() string {
	return "activities"
}

// ActivityType categorizes activities (lecture, assignment, ...).
type ActivityType struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	Name       string     `json:"name" gorm:"uniqueIndex;not null"`
	Activities []Activity `json:"-" gorm:"foreignKey:TypeID"`
}

// TableName returns the database table name for the ActivityType model.
func (ActivityType) TableName() string {
	return "activity_types"
}
