package routes

import (
	"asistencia_colegio_go/controllers"
	"asistencia_colegio_go/middleware"
	"asistencia_colegio_go/services"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	authController := &controllers.AuthController{}
	userController := &controllers.UserController{}
	studentController := &controllers.StudentController{}
	importController := &controllers.StudentImportController{}
	attendanceController := &controllers.AttendanceController{}
	conductController := &controllers.ConductController{}
	profileController := &controllers.ProfileController{}
	reportController := &controllers.ReportController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}
	healthController := controllers.NewHealthController(services.NewHealthService("", ""))

	// API group
	api := app.Group("/api")

	// Health (no auth)
	api.Get("/health", healthController.GetHealthStatus)

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management (admin only)
	users := protected.Group("/usuarios", middleware.RequireAdmin())
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.CreateUser)
	users.Put("/:id", userController.UpdateUser)

	// Student management
	students := protected.Group("/estudiantes")
	students.Get("/", studentController.GetStudents)
	students.Post("/", studentController.CreateStudent)
	students.Post("/importar-csv", middleware.RequireAdmin(), importController.ImportCSV)
	students.Post("/importar-archivo", middleware.RequireAdmin(), importController.ImportFile)
	students.Get("/:id", studentController.GetStudent)
	students.Put("/:id", studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireAdmin(), studentController.DeleteStudent)

	// Attendance history (nested under the student)
	students.Post("/:id/asistencia", attendanceController.CreateAttendance)
	students.Put("/:id/asistencia/:recordId", attendanceController.UpdateAttendance)
	students.Delete("/:id/asistencia/:recordId", attendanceController.DeleteAttendance)
	students.Post("/:id/asistencia/:recordId/foto", attendanceController.UploadAttendancePhoto)

	// Conduct reports (nested under the student)
	students.Post("/:id/convivencia", conductController.CreateConductReport)
	students.Put("/:id/convivencia/:reportId", conductController.UpdateConductReport)
	students.Delete("/:id/convivencia/:reportId", middleware.RequireAdmin(), conductController.DeleteConductReport)

	// Composed student profile
	protected.Get("/perfil/:id", profileController.GetStudentProfile)

	// Reporting
	reports := protected.Group("/reportes")
	reports.Get("/general", reportController.GetGeneralReport)
	reports.Get("/por-grupo", reportController.GetGroupReport)
	reports.Get("/estadisticas", reportController.GetGlobalStats)
	reports.Get("/riesgo", reportController.GetRiskReport)

	// Notifications
	notifications := protected.Group("/notificaciones")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Post("/", middleware.RequireAdmin(), notificationController.CreateNotification)
	notifications.Patch("/:id/read", notificationController.MarkAsRead)
	notifications.Patch("/mark-all-read", notificationController.MarkAllAsRead)

	// Log management (admin only)
	logs := protected.Group("/logs", middleware.RequireAdmin())
	logs.Get("/", logController.GetLogs)
	logs.Get("/stats", logController.GetLogStats)
	logs.Get("/export", logController.ExportLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Get("/archives/:id/download", logController.DownloadLogArchive)
	logs.Get("/:id", logController.GetLog)
	logs.Delete("/old", logController.DeleteOldLogs)
	logs.Post("/flush-cache", logController.FlushCachedLogs)
}
