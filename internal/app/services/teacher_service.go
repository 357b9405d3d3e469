package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/apperrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/auth"
)

// TeacherService handles teacher profile and dashboard operations.
type TeacherService struct {
	teacherRepo TeacherStore
	reportRepo  ReportStore
	logger      zerolog.Logger
}

// NewTeacherService creates a new TeacherService
func NewTeacherService(teacherRepo TeacherStore, reportRepo ReportStore, logger zerolog.Logger) *TeacherService {
	return &TeacherService{
		teacherRepo: teacherRepo,
		reportRepo:  reportRepo,
		logger:      logger,
	}
}

// GetProfile returns the teacher's own profile.
func (s *TeacherService) GetProfile(teacher *models.Teacher) dto.TeacherProfile {
	return toTeacherProfile(teacher)
}

// UpdateProfile applies the teacher-editable fields. A password change
// requires the current password to match.
func (s *TeacherService) UpdateProfile(ctx context.Context, teacher *models.Teacher, req *dto.UpdateProfileRequest) (dto.TeacherProfile, error) {
	if req.Phone != "" {
		teacher.Phone = req.Phone
	}
	if req.Qualification != "" {
		teacher.Qualification = req.Qualification
	}

	if req.NewPassword != "" {
		if !auth.CheckPassword(teacher.Password, req.CurrentPassword) {
			return dto.TeacherProfile{}, fmt.Errorf("%w: current password is incorrect", apperrors.ErrInvalidCredentials)
		}
		hashed, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			return dto.TeacherProfile{}, err
		}
		teacher.Password = hashed
	}

	if err := s.teacherRepo.UpdateProfile(ctx, nil, teacher); err != nil {
		return dto.TeacherProfile{}, err
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Msg("Teacher profile updated")

	return toTeacherProfile(teacher), nil
}

// GetDashboard assembles the teacher's dashboard: course and student
// counts, today's attendance totals and the last offline sync time.
func (s *TeacherService) GetDashboard(ctx context.Context, teacher *models.Teacher) (*dto.DashboardResponse, error) {
	courses, err := s.reportRepo.CountCourses(ctx, nil, teacher.ID)
	if err != nil {
		return nil, err
	}

	students, err := s.reportRepo.CountStudents(ctx, nil, teacher.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	statusRows, err := s.reportRepo.StatusCounts(ctx, nil, repositories.AttendanceFilter{
		TeacherID:   teacher.ID,
		InstituteID: teacher.InstituteID,
		Date:        &today,
	})
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Courses:  courses,
		Students: students,
		Today:    foldStatusCounts(statusRows),
		LastSync: teacher.LastSync,
	}, nil
}
