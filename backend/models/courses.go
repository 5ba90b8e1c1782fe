package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonTypeVideo = "video"
	LessonTypeAudio = "audio"
	LessonTypePDF   = "pdf"
	LessonTypeText  = "text"
	LessonTypeLive  = "live"
)

type Course struct {
	gorm.Model
	TenantID     uint   `gorm:"index;not null"`
	Title        string `gorm:"not null"`
	Description  string
	CoverURL     string
	PromoMedia   datatypes.JSON
	Status       string `gorm:"default:draft"` // draft, scheduled, live
	ReleaseAt    *time.Time
	InstructorID uint
	Modules      []Module `gorm:"constraint:OnDelete:CASCADE;"`
}

type Module struct {
	gorm.Model
	CourseID        uint `gorm:"index;not null"`
	Title           string
	OrderIndex      int
	Status          string `gorm:"default:draft"`
	ReleaseAt       *time.Time
	UnlockAfterDays int      `gorm:"default:0"` // days after the member's effective start
	Lessons         []Lesson `gorm:"constraint:OnDelete:CASCADE;"`
}

type Lesson struct {
	gorm.Model
	ModuleID        uint `gorm:"index;not null"`
	Title           string
	Type            string `gorm:"default:text"` // video, audio, pdf, text, live
	ContentURL      string
	ContentText     string
	ScheduledAt     *time.Time // live lessons only
	MeetingURL      string
	ReplayURL       string
	DurationSec     *int // video/audio only
	OrderIndex      int
	Status          string `gorm:"default:draft"`
	ReleaseAt       *time.Time
	ContentCategory string // orientation, transmission, clarification, embodiment, inquiry, meditation, assignment
}
