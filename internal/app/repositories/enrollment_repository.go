package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository answers the association questions the attendance
// core asks before accepting a submission: is the student active, and is
// the student enrolled in a course owned by the submitting teacher.
type EnrollmentRepository struct {
	db *pgxpool.Pool
}

// NewEnrollmentRepository creates a new enrollment repository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
	}
}

func (r *EnrollmentRepository) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return r.db
}

// IsStudentActive reports whether the student exists and is active.
func (r *EnrollmentRepository) IsStudentActive(ctx context.Context, q Querier, studentID int64) (bool, error) {
	var active bool
	err := r.querier(q).QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM students WHERE id = $1 AND active = TRUE)`,
		studentID).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("error checking student status: %w", err)
	}

	return active, nil
}

// IsEnrolled reports whether the student has an active enrollment in the
// course and the course belongs to the given teacher.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, q Querier, studentID, courseID, teacherID int64) (bool, error) {
	var enrolled bool
	err := r.querier(q).QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM student_courses sc
			JOIN courses c ON c.id = sc.course_id
			WHERE sc.student_id = $1
			  AND sc.course_id = $2
			  AND sc.status = 'Active'
			  AND c.teacher_id = $3
		)`,
		studentID, courseID, teacherID).Scan(&enrolled)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return enrolled, nil
}
