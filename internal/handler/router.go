package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/storeops/opsdash-api/internal/middleware"
	"github.com/storeops/opsdash-api/internal/models"
)

// Handlers bundles every dashboard handler mounted by RegisterRoutes.
type Handlers struct {
	Attendance          *AttendanceHandler
	Cleaning            *ApprovalHandler
	Production          *ApprovalHandler
	Theft               *ApprovalHandler
	Feedback            *FeedbackHandler
	SecuritySchedules   *ScheduleHandler
	ThirdpartySchedules *ScheduleHandler
	Metrics             *MetricsHandler
	// Audit receives applied status transitions; nil disables auditing.
	Audit middleware.AuditSink
}

var (
	readRoles   = []models.UserRole{models.RoleAdmin, models.RoleReviewer, models.RoleViewer}
	reviewRoles = []models.UserRole{models.RoleAdmin, models.RoleReviewer}
)

// RegisterRoutes mounts the dashboard API on group. Everything except signed
// export downloads requires a bearer token.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, verifier middleware.TokenVerifier) {
	if h.Attendance != nil {
		group.GET("/attendance/exports/:token", h.Attendance.Download)
	}

	secured := group.Group("")
	secured.Use(middleware.JWT(verifier))
	read := middleware.RequireRoles(readRoles...)
	review := middleware.RequireRoles(reviewRoles...)

	if h.Attendance != nil {
		secured.GET("/attendance", read, h.Attendance.Dashboard)
		secured.GET("/attendance/stats", read, h.Attendance.Stats)
		secured.GET("/attendance/filters", read, h.Attendance.Filters)
		secured.GET("/attendance/export", read, h.Attendance.Export)
		secured.POST("/attendance/exports", read, h.Attendance.CreateExport)
	}

	approvals := map[string]*ApprovalHandler{
		"/cleaning-requests": h.Cleaning,
		"/production-extras": h.Production,
		"/theft-incidents":   h.Theft,
	}
	for path, handler := range approvals {
		if handler == nil {
			continue
		}
		secured.GET(path, read, handler.List)
		secured.GET(path+"/stats", read, handler.Stats)
		secured.GET(path+"/:id", read, handler.Get)
		secured.POST(path+"/:id/status", review, middleware.Audit(h.Audit, "status_update", string(handler.kind)), handler.UpdateStatus)
	}

	if h.Feedback != nil {
		secured.GET("/feedback", read, h.Feedback.List)
		secured.GET("/feedback/stats", read, h.Feedback.Stats)
	}

	schedules := map[string]*ScheduleHandler{
		"/security-schedules":   h.SecuritySchedules,
		"/thirdparty-schedules": h.ThirdpartySchedules,
	}
	for path, handler := range schedules {
		if handler == nil {
			continue
		}
		secured.GET(path, read, handler.List)
		secured.GET(path+"/stats", read, handler.Stats)
		secured.GET(path+"/:id", read, handler.Get)
	}

	if h.Metrics != nil {
		secured.GET("/system/metrics", middleware.RequireRoles(models.RoleAdmin), h.Metrics.Snapshot)
	}
}
