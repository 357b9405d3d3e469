// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/services"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/middleware"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/helpers"
)

// AttendanceController handles attendance recording, offline sync and
// reporting endpoints.
type AttendanceController struct {
	attendanceService *services.AttendanceService
	reportService     *services.ReportService
	logger            zerolog.Logger
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService, reportService *services.ReportService, logger zerolog.Logger) *AttendanceController {
	return &AttendanceController{
		attendanceService: attendanceService,
		reportService:     reportService,
		logger:            logger,
	}
}

// requireTeacher fetches the authenticated teacher or aborts with 401.
func requireTeacher(ctx *gin.Context) (*models.Teacher, bool) {
	teacher, ok := middleware.CurrentTeacher(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return teacher, true
}

// TakeAttendance records attendance for one student
// @Summary Record attendance
// @Description Records a student's attendance for a course on a date. Submitting the same student, course and date again updates the existing record instead of creating a duplicate.
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body dto.TakeAttendanceRequest true "Attendance information"
// @Success 201 {object} dto.APIResponse{data=dto.AttendanceRef} "Attendance recorded"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceRef} "Existing attendance updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or student/course association"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /attendance [post]
func (c *AttendanceController) TakeAttendance(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	var req dto.TakeAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid attendance request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	record, created, err := c.attendanceService.RecordAttendance(ctx.Request.Context(), teacher, &req)
	if err != nil {
		c.logger.Warn().Err(err).Int64("teacherId", teacher.ID).Msg("Failed to record attendance")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ref := dto.AttendanceRef{
		ID:        record.ID,
		StudentID: record.StudentID,
		CourseID:  record.CourseID,
		Date:      record.Date.Format(models.DateLayout),
		Status:    string(record.Status),
	}

	if created {
		ctx.JSON(http.StatusCreated, dto.NewAPIResponse("Attendance recorded successfully", ref))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Attendance updated successfully", ref))
}

// SyncOfflineAttendance reconciles a batch of offline records
// @Summary Sync offline attendance
// @Description Applies a batch of attendance records captured offline. Entries are processed independently: a failing entry is reported in failedRecords while the rest of the batch still lands.
// @Tags attendance
// @Accept json
// @Produce json
// @Param request body dto.SyncAttendanceRequest true "Offline attendance batch"
// @Success 200 {object} dto.APIResponse{data=dto.SyncBatchResult} "Batch processed"
// @Failure 400 {object} dto.ErrorResponse "Empty batch or invalid request"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /attendance/sync [post]
func (c *AttendanceController) SyncOfflineAttendance(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	var req dto.SyncAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid sync request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	result, err := c.attendanceService.SyncOfflineBatch(ctx.Request.Context(), teacher, req.AttendanceRecords)
	if err != nil {
		c.logger.Warn().Err(err).Int64("teacherId", teacher.ID).Msg("Failed to sync attendance batch")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Attendance records synced successfully", result))
}

// ListAttendance lists attendance records
// @Summary List attendance records
// @Description Returns the teacher's attendance records, newest first, optionally filtered by course, student, date or status.
// @Tags attendance
// @Produce json
// @Param courseId query int false "Filter by course"
// @Param studentId query int false "Filter by student"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param status query string false "Filter by status" Enums(Present, Late, Absent)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceListResponse} "Attendance records"
// @Failure 400 {object} dto.ErrorResponse "Invalid filters"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /attendance [get]
func (c *AttendanceController) ListAttendance(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	filter := services.ListFilter{
		CourseID:  parseIDParam(ctx, "courseId"),
		StudentID: parseIDParam(ctx, "studentId"),
		Date:      ctx.Query("date"),
		Status:    ctx.Query("status"),
	}
	page, limit := helpers.ParsePaginationParams(ctx)

	resp, err := c.reportService.ListAttendance(ctx.Request.Context(), teacher, filter, page, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Attendance records retrieved successfully", resp))
}

// GetDailySummary returns one day's attendance summary
// @Summary Daily attendance summary
// @Description Returns totals by status, a per-course breakdown and the most recent records for one day. Defaults to today.
// @Tags attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.APIResponse{data=dto.DailySummaryResponse} "Daily summary"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /attendance/summary/daily [get]
func (c *AttendanceController) GetDailySummary(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	resp, err := c.reportService.GetDailySummary(ctx.Request.Context(), teacher, ctx.Query("date"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Daily summary retrieved successfully", resp))
}

// GetStatistics returns attendance statistics over a date range
// @Summary Attendance statistics
// @Description Returns overall and per-day attendance counts with percentages over a date range. Defaults to the last 30 days.
// @Tags attendance
// @Produce json
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Param courseId query int false "Restrict to one course"
// @Success 200 {object} dto.APIResponse{data=dto.AttendanceStatisticsResponse} "Statistics"
// @Failure 400 {object} dto.ErrorResponse "Invalid range"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /attendance/statistics [get]
func (c *AttendanceController) GetStatistics(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	resp, err := c.reportService.GetStatistics(
		ctx.Request.Context(),
		teacher,
		ctx.Query("startDate"),
		ctx.Query("endDate"),
		parseIDParam(ctx, "courseId"),
	)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Statistics retrieved successfully", resp))
}

// parseIDParam reads an int64 query parameter; 0 means absent or invalid.
func parseIDParam(ctx *gin.Context, name string) int64 {
	value := ctx.Query(name)
	if value == "" {
		return 0
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
