package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations repositories run. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository method can
// execute against the pool or inside an explicit transaction scope.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories is a container for all repositories
type Repositories struct {
	AttendanceRepository *AttendanceRepository
	EnrollmentRepository *EnrollmentRepository
	TeacherRepository    *TeacherRepository
	ReportRepository     *ReportRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		AttendanceRepository: NewAttendanceRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		TeacherRepository:    NewTeacherRepository(db),
		ReportRepository:     NewReportRepository(db),
	}
}
