package models

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentWithdrawn = "withdrawn"
)

// Enrollment is one member's relationship to one course. The row doubles as
// the member's resume state (last lesson, last access).
type Enrollment struct {
	ID             uint `gorm:"primarykey"`
	UserID         uint `gorm:"uniqueIndex:idx_user_course;not null"`
	CourseID       uint `gorm:"uniqueIndex:idx_user_course;not null"`
	EnrolledAt     *time.Time
	StartedAt      *time.Time
	Status         string `gorm:"default:active"` // active, withdrawn
	LastLessonID   *uint
	LastAccessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Enrollment) TableName() string {
	return "user_course_progress"
}

// EnrollmentTime is the instant the member's cohort clock may start from:
// EnrolledAt when recorded, otherwise StartedAt.
func (e *Enrollment) EnrollmentTime() *time.Time {
	if e.EnrolledAt != nil {
		return e.EnrolledAt
	}
	return e.StartedAt
}

type LessonProgress struct {
	ID              uint `gorm:"primarykey"`
	UserID          uint `gorm:"uniqueIndex:idx_user_lesson;not null"`
	LessonID        uint `gorm:"uniqueIndex:idx_user_lesson;not null"`
	CourseID        uint `gorm:"index;not null"`
	IsComplete      bool `gorm:"default:false"`
	CompletedAt     *time.Time
	LastPositionSec int `gorm:"default:0"` // advisory resume point, seeks backward are valid
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (LessonProgress) TableName() string {
	return "user_lesson_progress"
}
