package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
)

// AttendanceRepository handles database operations for attendance records.
//
// Every method takes an explicit Querier so the offline sync reconciler can
// route all of its lookups and writes through one enclosing transaction;
// passing nil runs the statement on the pool instead.
type AttendanceRepository struct {
	db *pgxpool.Pool
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{
		db: db,
	}
}

func (r *AttendanceRepository) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return r.db
}

const attendanceColumns = `
	id, student_id, course_id, date, status,
	COALESCE(time_in::text, ''), COALESCE(remarks, ''),
	fingerprint_verified, verified, synced_from_offline,
	COALESCE(offline_id, ''), teacher_id, institute_id,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var record models.Attendance
	err := row.Scan(
		&record.ID,
		&record.StudentID,
		&record.CourseID,
		&record.Date,
		&record.Status,
		&record.TimeIn,
		&record.Remarks,
		&record.FingerprintVerified,
		&record.Verified,
		&record.SyncedFromOffline,
		&record.OfflineID,
		&record.TeacherID,
		&record.InstituteID,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetByNaturalKey retrieves the attendance record for one (student, course,
// date, teacher) observation. Returns (nil, nil) when no record exists.
func (r *AttendanceRepository) GetByNaturalKey(ctx context.Context, q Querier, studentID, courseID int64, date time.Time, teacherID int64) (*models.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE student_id = $1 AND course_id = $2 AND date = $3 AND teacher_id = $4
	`

	record, err := scanAttendance(r.querier(q).QueryRow(ctx, query, studentID, courseID, date, teacherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving attendance by natural key: %w", err)
	}

	return record, nil
}

// GetByOfflineID retrieves the attendance record previously produced by the
// given client-side identifier. Returns (nil, nil) when no record carries it.
func (r *AttendanceRepository) GetByOfflineID(ctx context.Context, q Querier, offlineID string) (*models.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance
		WHERE offline_id = $1
	`

	record, err := scanAttendance(r.querier(q).QueryRow(ctx, query, offlineID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving attendance by offline id: %w", err)
	}

	return record, nil
}

// Insert creates a new attendance record and fills in the generated id and
// timestamps. Unique violations on the natural key or the offline id are
// returned raw so callers can classify them with dberrors.
func (r *AttendanceRepository) Insert(ctx context.Context, q Querier, record *models.Attendance) error {
	query := `
		INSERT INTO attendance (
			student_id, course_id, date, status, time_in, remarks,
			fingerprint_verified, verified, synced_from_offline, offline_id,
			teacher_id, institute_id
		)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::time, NULLIF($6, ''), $7, $8, $9, NULLIF($10, ''), $11, $12)
		RETURNING id, created_at, updated_at
	`

	return r.querier(q).QueryRow(ctx, query,
		record.StudentID,
		record.CourseID,
		record.Date,
		record.Status,
		record.TimeIn,
		record.Remarks,
		record.FingerprintVerified,
		record.Verified,
		record.SyncedFromOffline,
		record.OfflineID,
		record.TeacherID,
		record.InstituteID,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
}

// Update rewrites the mutable fields of an existing record in place.
// Ownership fields (student, course, date, teacher, institute) never change.
func (r *AttendanceRepository) Update(ctx context.Context, q Querier, record *models.Attendance) error {
	query := `
		UPDATE attendance
		SET status = $1,
			time_in = NULLIF($2, '')::time,
			remarks = NULLIF($3, ''),
			fingerprint_verified = $4,
			synced_from_offline = $5,
			offline_id = NULLIF($6, ''),
			updated_at = NOW()
		WHERE id = $7
	`

	cmdTag, err := r.querier(q).Exec(ctx, query,
		record.Status,
		record.TimeIn,
		record.Remarks,
		record.FingerprintVerified,
		record.SyncedFromOffline,
		record.OfflineID,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating attendance record: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("attendance record %d not found", record.ID)
	}

	return nil
}
