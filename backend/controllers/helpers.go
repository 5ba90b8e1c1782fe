package controllers

import (
	"time"

	"project/backend/drip"
	"project/backend/models"

	"gorm.io/gorm"
)

// findTenantCourse loads a course scoped to the caller's tenant. Courses
// outside the tenant look exactly like missing ones.
func findTenantCourse(db *gorm.DB, tenantID uint, courseID int) (*models.Course, error) {
	var course models.Course
	err := db.Where("tenant_id = ?", tenantID).First(&course, courseID).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// activeEnrollment returns the member's active enrollment for the course, or
// nil when there is none. Not being enrolled is a state, not an error.
func activeEnrollment(db *gorm.DB, userID uint, courseID uint) *models.Enrollment {
	var enrollment models.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, models.EnrollmentActive).
		First(&enrollment).Error
	if err != nil {
		return nil
	}
	return &enrollment
}

// touchEnrollment records resume state on every lesson interaction.
func touchEnrollment(db *gorm.DB, enrollment *models.Enrollment, lessonID uint, now time.Time) error {
	enrollment.LastLessonID = &lessonID
	enrollment.LastAccessedAt = &now
	if enrollment.StartedAt == nil {
		enrollment.StartedAt = &now
	}
	return db.Save(enrollment).Error
}

// publishedLessonCounts computes (completed, total) over live lessons in live
// modules of the course for the member. Lookup failures degrade to zero so a
// broken sub-query never fails a whole read response.
func publishedLessonCounts(db *gorm.DB, userID uint, courseID uint) (int, int) {
	var total int64
	db.Model(&models.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("modules.course_id = ? AND modules.status = ? AND lessons.status = ?",
			courseID, drip.StatusLive, drip.StatusLive).
		Count(&total)

	var completed int64
	db.Model(&models.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = user_lesson_progress.lesson_id AND lessons.deleted_at IS NULL").
		Joins("JOIN modules ON modules.id = lessons.module_id AND modules.deleted_at IS NULL").
		Where("user_lesson_progress.user_id = ? AND user_lesson_progress.course_id = ? AND user_lesson_progress.is_complete = ?",
			userID, courseID, true).
		Where("lessons.status = ? AND modules.status = ?", drip.StatusLive, drip.StatusLive).
		Count(&completed)

	return int(completed), int(total)
}

// courseReleasePointer adapts the release resolver's result for the cohort
// calculator, which expects nil when the course is not released.
func courseReleasePointer(course *models.Course) *time.Time {
	releaseAt, ok := drip.EffectiveReleaseAt(course.Status, course.ReleaseAt)
	if !ok {
		return nil
	}
	return &releaseAt
}
