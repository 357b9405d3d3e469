package services

import (
	"context"
	"time"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
)

// Services defined in this package:
// - AttendanceService: Live attendance recording and offline batch sync
// - ReportService: Attendance listings, daily summaries and statistics
// - AuthService: Teacher login, token issuance, profile and dashboard
//
// Each service declares the slice of the repository layer it consumes as
// an interface, so tests can substitute in-memory stores. The Querier
// parameter carries the transaction the call must run in; nil means the
// default pool.

// AttendanceStore is the attendance persistence surface the recorder and
// reconciler depend on.
type AttendanceStore interface {
	GetByNaturalKey(ctx context.Context, q repositories.Querier, studentID, courseID int64, date time.Time, teacherID int64) (*models.Attendance, error)
	GetByOfflineID(ctx context.Context, q repositories.Querier, offlineID string) (*models.Attendance, error)
	Insert(ctx context.Context, q repositories.Querier, record *models.Attendance) error
	Update(ctx context.Context, q repositories.Querier, record *models.Attendance) error
}

// EnrollmentStore answers the student/course association checks.
type EnrollmentStore interface {
	IsStudentActive(ctx context.Context, q repositories.Querier, studentID int64) (bool, error)
	IsEnrolled(ctx context.Context, q repositories.Querier, studentID, courseID, teacherID int64) (bool, error)
}

// TeacherStore is the teacher persistence surface.
type TeacherStore interface {
	GetByID(ctx context.Context, q repositories.Querier, id int64) (*models.Teacher, error)
	GetByEmail(ctx context.Context, q repositories.Querier, email string) (*models.Teacher, error)
	UpdateLastLogin(ctx context.Context, q repositories.Querier, id int64, at time.Time) error
	UpdateLastSync(ctx context.Context, q repositories.Querier, id int64, at time.Time) error
	UpdateProfile(ctx context.Context, q repositories.Querier, teacher *models.Teacher) error
}

// ReportStore runs the read-only listing and aggregation queries.
type ReportStore interface {
	ListAttendance(ctx context.Context, q repositories.Querier, filter repositories.AttendanceFilter, offset, limit int) ([]models.AttendanceDetail, int64, error)
	RecentAttendance(ctx context.Context, q repositories.Querier, filter repositories.AttendanceFilter, limit int) ([]models.AttendanceDetail, error)
	StatusCounts(ctx context.Context, q repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.StatusCountRow, error)
	CourseStatusCounts(ctx context.Context, q repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.CourseStatusRow, error)
	DailyStatusCounts(ctx context.Context, q repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.DailyStatusRow, error)
	CountCourses(ctx context.Context, q repositories.Querier, teacherID int64) (int, error)
	CountStudents(ctx context.Context, q repositories.Querier, teacherID int64) (int, error)
}
