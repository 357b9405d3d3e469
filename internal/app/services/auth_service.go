package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/apperrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/auth"
)

// AuthService handles teacher authentication and token issuance.
type AuthService struct {
	teacherRepo TeacherStore
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(teacherRepo TeacherStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		teacherRepo: teacherRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// toTeacherProfile maps a teacher row to its API representation.
func toTeacherProfile(teacher *models.Teacher) dto.TeacherProfile {
	return dto.TeacherProfile{
		ID:            teacher.ID,
		EmployeeID:    teacher.EmployeeID,
		FirstName:     teacher.FirstName,
		LastName:      teacher.LastName,
		Email:         teacher.Email,
		Phone:         teacher.Phone,
		Qualification: teacher.Qualification,
		LastLogin:     teacher.LastLogin,
		LastSync:      teacher.LastSync,
		InstituteID:   teacher.InstituteID,
	}
}

// Login authenticates a teacher by email and password and issues a token
// pair. Disabled accounts are rejected even with valid credentials.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	teacher, err := s.teacherRepo.GetByEmail(ctx, nil, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrTeacherNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(teacher.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !teacher.Active {
		return nil, apperrors.ErrAccountDisabled
	}

	accessToken, refreshToken, expiresIn, err := s.jwtService.GenerateTokenPair(teacher)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.teacherRepo.UpdateLastLogin(ctx, nil, teacher.ID, now); err != nil {
		s.logger.Warn().Err(err).Int64("teacherId", teacher.ID).Msg("Failed to stamp last login")
	} else {
		teacher.LastLogin = &now
	}

	s.logger.Info().Int64("teacherId", teacher.ID).Str("email", teacher.Email).Msg("Teacher logged in")

	return &dto.LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		Teacher:      toTeacherProfile(teacher),
	}, nil
}
