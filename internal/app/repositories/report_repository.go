package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
)

// AttendanceFilter narrows attendance listings and aggregates. TeacherID
// and InstituteID are always set by the caller; the rest are optional
// (zero value = no filter).
type AttendanceFilter struct {
	TeacherID   int64
	InstituteID int64
	CourseID    int64
	StudentID   int64
	Date        *time.Time
	FromDate    *time.Time
	ToDate      *time.Time
	Status      models.AttendanceStatus
}

// StatusCountRow is one row of a GROUP BY status aggregate.
type StatusCountRow struct {
	Status models.AttendanceStatus
	Count  int
}

// CourseStatusRow is one row of a GROUP BY course, status aggregate.
type CourseStatusRow struct {
	CourseID   int64
	CourseName string
	CourseCode string
	Status     models.AttendanceStatus
	Count      int
}

// DailyStatusRow is one row of a GROUP BY day, status aggregate.
type DailyStatusRow struct {
	Day    time.Time
	Status models.AttendanceStatus
	Count  int
}

// ReportRepository runs the read-only listing and aggregation queries
// behind the attendance reporting endpoints.
type ReportRepository struct {
	db *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{
		db: db,
	}
}

func (r *ReportRepository) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return r.db
}

// buildWhere renders the filter as a WHERE clause over alias a (attendance).
func buildWhere(filter AttendanceFilter) (string, []any) {
	clauses := []string{"a.teacher_id = $1", "a.institute_id = $2"}
	args := []any{filter.TeacherID, filter.InstituteID}

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.CourseID > 0 {
		add("a.course_id = $%d", filter.CourseID)
	}
	if filter.StudentID > 0 {
		add("a.student_id = $%d", filter.StudentID)
	}
	if filter.Date != nil {
		add("a.date = $%d", *filter.Date)
	}
	if filter.FromDate != nil {
		add("a.date >= $%d", *filter.FromDate)
	}
	if filter.ToDate != nil {
		add("a.date <= $%d", *filter.ToDate)
	}
	if filter.Status != "" {
		add("a.status = $%d", filter.Status)
	}

	return strings.Join(clauses, " AND "), args
}

const detailColumns = `
	a.id, a.student_id, a.course_id, a.date, a.status,
	COALESCE(a.time_in::text, ''), COALESCE(a.remarks, ''),
	a.fingerprint_verified, a.verified, a.synced_from_offline,
	COALESCE(a.offline_id, ''), a.teacher_id, a.institute_id,
	a.created_at, a.updated_at,
	s.id, s.registration_number, s.first_name, s.last_name,
	c.id, c.name, c.code
`

func scanDetailRows(rows pgx.Rows) ([]models.AttendanceDetail, error) {
	defer rows.Close()

	var details []models.AttendanceDetail
	for rows.Next() {
		var d models.AttendanceDetail
		if err := rows.Scan(
			&d.ID,
			&d.StudentID,
			&d.CourseID,
			&d.Date,
			&d.Status,
			&d.TimeIn,
			&d.Remarks,
			&d.FingerprintVerified,
			&d.Verified,
			&d.SyncedFromOffline,
			&d.OfflineID,
			&d.TeacherID,
			&d.InstituteID,
			&d.CreatedAt,
			&d.UpdatedAt,
			&d.Student.ID,
			&d.Student.RegistrationNumber,
			&d.Student.FirstName,
			&d.Student.LastName,
			&d.Course.ID,
			&d.Course.Name,
			&d.Course.Code,
		); err != nil {
			return nil, err
		}
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return details, nil
}

// ListAttendance returns one page of attendance rows with student/course
// references, newest date first, plus the unpaginated total.
func (r *ReportRepository) ListAttendance(ctx context.Context, q Querier, filter AttendanceFilter, offset, limit int) ([]models.AttendanceDetail, int64, error) {
	where, args := buildWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendance a WHERE ` + where
	if err := r.querier(q).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting attendance records: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT `+detailColumns+`
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		JOIN courses c ON c.id = a.course_id
		WHERE `+where+`
		ORDER BY a.date DESC, a.created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.querier(q).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing attendance records: %w", err)
	}

	details, err := scanDetailRows(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("error scanning attendance records: %w", err)
	}

	return details, total, nil
}

// RecentAttendance returns the most recently created rows matching the
// filter, up to limit.
func (r *ReportRepository) RecentAttendance(ctx context.Context, q Querier, filter AttendanceFilter, limit int) ([]models.AttendanceDetail, error) {
	where, args := buildWhere(filter)

	query := fmt.Sprintf(`
		SELECT `+detailColumns+`
		FROM attendance a
		JOIN students s ON s.id = a.student_id
		JOIN courses c ON c.id = a.course_id
		WHERE `+where+`
		ORDER BY a.created_at DESC
		LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.querier(q).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recent attendance: %w", err)
	}

	details, err := scanDetailRows(rows)
	if err != nil {
		return nil, fmt.Errorf("error scanning recent attendance: %w", err)
	}

	return details, nil
}

// StatusCounts groups matching rows by status.
func (r *ReportRepository) StatusCounts(ctx context.Context, q Querier, filter AttendanceFilter) ([]StatusCountRow, error) {
	where, args := buildWhere(filter)

	query := `
		SELECT a.status, COUNT(a.id)
		FROM attendance a
		WHERE ` + where + `
		GROUP BY a.status`

	rows, err := r.querier(q).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance by status: %w", err)
	}
	defer rows.Close()

	var counts []StatusCountRow
	for rows.Next() {
		var row StatusCountRow
		if err := rows.Scan(&row.Status, &row.Count); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}

	return counts, rows.Err()
}

// CourseStatusCounts groups matching rows by course and status.
func (r *ReportRepository) CourseStatusCounts(ctx context.Context, q Querier, filter AttendanceFilter) ([]CourseStatusRow, error) {
	where, args := buildWhere(filter)

	query := `
		SELECT c.id, c.name, c.code, a.status, COUNT(a.id)
		FROM attendance a
		JOIN courses c ON c.id = a.course_id
		WHERE ` + where + `
		GROUP BY c.id, c.name, c.code, a.status`

	rows, err := r.querier(q).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance by course: %w", err)
	}
	defer rows.Close()

	var counts []CourseStatusRow
	for rows.Next() {
		var row CourseStatusRow
		if err := rows.Scan(&row.CourseID, &row.CourseName, &row.CourseCode, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}

	return counts, rows.Err()
}

// DailyStatusCounts groups matching rows by day and status, oldest first.
func (r *ReportRepository) DailyStatusCounts(ctx context.Context, q Querier, filter AttendanceFilter) ([]DailyStatusRow, error) {
	where, args := buildWhere(filter)

	query := `
		SELECT a.date, a.status, COUNT(a.id)
		FROM attendance a
		WHERE ` + where + `
		GROUP BY a.date, a.status
		ORDER BY a.date ASC`

	rows, err := r.querier(q).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting attendance by day: %w", err)
	}
	defer rows.Close()

	var counts []DailyStatusRow
	for rows.Next() {
		var row DailyStatusRow
		if err := rows.Scan(&row.Day, &row.Status, &row.Count); err != nil {
			return nil, err
		}
		counts = append(counts, row)
	}

	return counts, rows.Err()
}

// CountCourses returns the number of courses owned by the teacher.
func (r *ReportRepository) CountCourses(ctx context.Context, q Querier, teacherID int64) (int, error) {
	var count int
	err := r.querier(q).QueryRow(ctx,
		`SELECT COUNT(*) FROM courses WHERE teacher_id = $1`, teacherID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// CountStudents returns the number of distinct students actively enrolled
// in the teacher's courses.
func (r *ReportRepository) CountStudents(ctx context.Context, q Querier, teacherID int64) (int, error) {
	var count int
	err := r.querier(q).QueryRow(ctx, `
		SELECT COUNT(DISTINCT sc.student_id)
		FROM student_courses sc
		JOIN courses c ON c.id = sc.course_id
		WHERE c.teacher_id = $1 AND sc.status = 'Active'`, teacherID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}
