package database

import (
	"time"

	"project/backend/drip"
	"project/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed loads a small demo fixture. It is selected explicitly at startup via
// SEED_DATA and is idempotent, so restarting a dev container is safe.
func Seed(db *gorm.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		TenantID:     1,
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Where(models.User{Username: "admin"}).FirstOrCreate(&admin).Error; err != nil {
		return err
	}

	member := models.User{
		TenantID:     1,
		Username:     "member",
		Email:        "member@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleMember,
	}
	if err := db.Where(models.User{Username: "member"}).FirstOrCreate(&member).Error; err != nil {
		return err
	}

	releaseAt := time.Now().UTC().AddDate(0, 0, -7)
	course := models.Course{
		TenantID:     1,
		Title:        "Foundations",
		Description:  "Demo drip course",
		Status:       drip.StatusLive,
		ReleaseAt:    &releaseAt,
		InstructorID: admin.ID,
	}
	if err := db.Where(models.Course{TenantID: 1, Title: "Foundations"}).FirstOrCreate(&course).Error; err != nil {
		return err
	}

	modules := []models.Module{
		{CourseID: course.ID, Title: "Week 1: Orientation", OrderIndex: 1, Status: drip.StatusLive, UnlockAfterDays: 0},
		{CourseID: course.ID, Title: "Week 2: Practice", OrderIndex: 2, Status: drip.StatusLive, UnlockAfterDays: 7},
		{CourseID: course.ID, Title: "Week 3: Integration", OrderIndex: 3, Status: drip.StatusLive, UnlockAfterDays: 14},
	}
	for i := range modules {
		if err := db.Where(models.Module{CourseID: course.ID, Title: modules[i].Title}).
			FirstOrCreate(&modules[i]).Error; err != nil {
			return err
		}
		lesson := models.Lesson{
			ModuleID:   modules[i].ID,
			Title:      modules[i].Title + " — Welcome",
			Type:       models.LessonTypeText,
			OrderIndex: 1,
			Status:     drip.StatusLive,
		}
		if err := db.Where(models.Lesson{ModuleID: modules[i].ID, OrderIndex: 1}).
			FirstOrCreate(&lesson).Error; err != nil {
			return err
		}
	}

	return nil
}
