package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/attendease/attendease-api/internal/middleware"
	"github.com/attendease/attendease-api/internal/models"
	"github.com/attendease/attendease-api/internal/service"
)

// Services groups everything the router needs.
type Services struct {
	Auth       *service.AuthService
	Attendance *service.AttendanceService
	Reports    *service.ReportService
	Accounts   *service.AccountService
	Dashboard  *service.DashboardService
	Classes    *service.ClassService
}

// RegisterRoutes mounts every API endpoint under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, svcs Services) {
	authHandler := NewAuthHandler(svcs.Auth)
	attendanceHandler := NewAttendanceHandler(svcs.Attendance)
	reportHandler := NewReportHandler(svcs.Reports)
	adminUserHandler := NewAdminUserHandler(svcs.Accounts)
	dashboardHandler := NewDashboardHandler(svcs.Dashboard)
	classHandler := NewClassHandler(svcs.Classes)

	api := r.Group(prefix)

	api.POST("/auth/login/:role", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(svcs.Auth))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.GET("/auth/me", authHandler.Me)
	authed.GET("/dashboard", dashboardHandler.Dashboard)

	classes := authed.Group("/classes")
	classes.GET("", classHandler.List)
	classes.GET("/:id", classHandler.Get)

	teacherOnly := classes.Group("")
	teacherOnly.Use(middleware.RequireRoles(models.RoleTeacher))
	teacherOnly.GET("/:id/roster", classHandler.Roster)
	teacherOnly.GET("/:id/attendance", attendanceHandler.Sheet)
	teacherOnly.GET("/:id/attendance/:date", attendanceHandler.Sheet)
	teacherOnly.POST("/:id/attendance", attendanceHandler.Record)
	teacherOnly.POST("/:id/attendance/:date", attendanceHandler.Record)

	students := authed.Group("/students/me")
	students.Use(middleware.RequireRoles(models.RoleStudent))
	students.GET("/absences", attendanceHandler.MyAbsences)
	students.GET("/history", attendanceHandler.MyHistory)

	reports := authed.Group("/reports")
	reports.Use(middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin))
	reports.GET("/summary", reportHandler.Summary)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.GET("/users", adminUserHandler.List)
	admin.POST("/users", adminUserHandler.Create)
	admin.GET("/users/:id", adminUserHandler.Get)
	admin.PUT("/users/:id", adminUserHandler.Update)
	admin.DELETE("/users/:id", adminUserHandler.Delete)
}
