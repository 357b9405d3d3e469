package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/services"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/middleware"
)

// TeacherController handles teacher profile and dashboard endpoints.
type TeacherController struct {
	teacherService *services.TeacherService
	logger         zerolog.Logger
}

// NewTeacherController creates a new TeacherController
func NewTeacherController(teacherService *services.TeacherService, logger zerolog.Logger) *TeacherController {
	return &TeacherController{
		teacherService: teacherService,
		logger:         logger,
	}
}

// GetProfile returns the authenticated teacher's profile
// @Summary Get own profile
// @Tags teachers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.TeacherProfile} "Teacher profile"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /teachers/profile [get]
func (c *TeacherController) GetProfile(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	profile := c.teacherService.GetProfile(teacher)
	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Profile retrieved successfully", profile))
}

// UpdateProfile updates the authenticated teacher's profile
// @Summary Update own profile
// @Description Updates phone and qualification. Changing the password requires the current password.
// @Tags teachers
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherProfile} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Security BearerAuth
// @Router /teachers/profile [put]
func (c *TeacherController) UpdateProfile(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid profile update payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	profile, err := c.teacherService.UpdateProfile(ctx.Request.Context(), teacher, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Profile updated successfully", profile))
}

// GetDashboard returns the teacher's dashboard
// @Summary Teacher dashboard
// @Description Returns course and student counts, today's attendance totals and the last offline sync time.
// @Tags teachers
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Dashboard"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /teachers/dashboard [get]
func (c *TeacherController) GetDashboard(ctx *gin.Context) {
	teacher, ok := requireTeacher(ctx)
	if !ok {
		return
	}

	resp, err := c.teacherService.GetDashboard(ctx.Request.Context(), teacher)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse("Dashboard retrieved successfully", resp))
}
