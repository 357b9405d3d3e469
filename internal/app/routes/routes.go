package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/controllers"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	attendanceController *controllers.AttendanceController,
	teacherController *controllers.TeacherController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.TeacherAuth())
	{
		attendance := authenticated.Group("/attendance")
		{
			attendance.POST("", attendanceController.TakeAttendance)
			attendance.GET("", attendanceController.ListAttendance)
			attendance.POST("/sync", attendanceController.SyncOfflineAttendance)
			attendance.GET("/summary/daily", attendanceController.GetDailySummary)
			attendance.GET("/statistics", attendanceController.GetStatistics)
		}

		teachers := authenticated.Group("/teachers")
		{
			teachers.GET("/profile", teacherController.GetProfile)
			teachers.PUT("/profile", teacherController.UpdateProfile)
			teachers.GET("/dashboard", teacherController.GetDashboard)
		}
	}
}
