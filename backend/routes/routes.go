package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	staffMiddleware := middleware.StaffMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg)

	// User routes
	userController := controllers.NewUserController(db, cfg)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetUserCourses)
	courses.Get("/available", coursesController.GetAvailableCourses)
	courses.Get("/continue", coursesController.GetContinueLearning)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Get("/:id/progress", coursesController.GetCourseProgress)
	courses.Post("/:id/enroll", coursesController.Enroll)

	// Lessons routes
	lessonsController := controllers.NewLessonsController(db, cfg)
	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Post("/:id/complete", lessonsController.MarkComplete)
	lessons.Post("/:id/incomplete", lessonsController.MarkIncomplete)
	lessons.Post("/:id/position", lessonsController.UpdatePosition)
	lessons.Get("/:id/next", lessonsController.GetNext)
	lessons.Get("/:id/previous", lessonsController.GetPrevious)

	// Staff routes for content
	adminCoursesController := controllers.NewAdminCoursesController(db, cfg)
	adminCourses := app.Group("/api/admin/courses", authMiddleware, staffMiddleware)
	adminCourses.Post("/", adminCoursesController.CreateCourse)
	adminCourses.Put("/:id", adminCoursesController.UpdateCourse)
	adminCourses.Put("/:id/publish", adminCoursesController.PublishCourse)
	adminCourses.Delete("/:id", adminMiddleware, adminCoursesController.DeleteCourse)

	contentController := controllers.NewAdminContentController(db, cfg)
	adminCourses.Post("/:id/modules", contentController.AddModule)

	adminModules := app.Group("/api/admin/modules", authMiddleware, staffMiddleware)
	adminModules.Put("/reorder", contentController.ReorderModules)
	adminModules.Put("/:id", contentController.UpdateModule)
	adminModules.Delete("/:id", contentController.DeleteModule)
	adminModules.Post("/:id/lessons", contentController.AddLesson)

	adminLessons := app.Group("/api/admin/lessons", authMiddleware, staffMiddleware)
	adminLessons.Put("/reorder", contentController.ReorderLessons)
	adminLessons.Put("/:id", contentController.UpdateLesson)
	adminLessons.Delete("/:id", contentController.DeleteLesson)

	// Staff routes for member access
	unlocksController := controllers.NewAdminUnlocksController(db, cfg)
	adminUsers := app.Group("/api/admin/users", authMiddleware, staffMiddleware)
	adminUsers.Post("/:userId/modules/:moduleId/unlock", unlocksController.UnlockModule)
	adminUsers.Delete("/:userId/modules/:moduleId/unlock", unlocksController.RevokeUnlock)
}
