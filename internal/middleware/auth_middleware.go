package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/auth"
)

// teacherContextKey is where the authenticated teacher lives in the gin
// context.
const teacherContextKey = "teacher"

// AuthMiddleware authenticates teachers from bearer tokens.
type AuthMiddleware struct {
	jwtService  *auth.JWTService
	teacherRepo *repositories.TeacherRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, teacherRepo *repositories.TeacherRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:  jwtService,
		teacherRepo: teacherRepo,
	}
}

// TeacherAuth validates the bearer token, loads the teacher it belongs to
// and puts it in the request context. Requests from disabled accounts are
// rejected even with a valid token.
func (m *AuthMiddleware) TeacherAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		teacher, err := m.teacherRepo.GetByID(c.Request.Context(), nil, claims.TeacherID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeacherNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication failed")
				errorDetail = errorDetail.WithDetails("Account no longer exists")
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(errorDetail))
			return
		}

		if !teacher.Active {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account disabled")
			errorDetail = errorDetail.WithDetails("This account has been deactivated")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(teacherContextKey, teacher)
		c.Next()
	}
}

// CurrentTeacher returns the teacher set by TeacherAuth.
func CurrentTeacher(c *gin.Context) (*models.Teacher, bool) {
	value, exists := c.Get(teacherContextKey)
	if !exists {
		return nil, false
	}
	teacher, ok := value.(*models.Teacher)
	return teacher, ok
}
