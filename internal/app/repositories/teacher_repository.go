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

// Teacher error types
var (
	ErrTeacherNotFound = errors.New("teacher not found")
)

// TeacherRepository handles database operations for teachers
type TeacherRepository struct {
	db *pgxpool.Pool
}

// NewTeacherRepository creates a new teacher repository
func NewTeacherRepository(db *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{
		db: db,
	}
}

func (r *TeacherRepository) querier(q Querier) Querier {
	if q != nil {
		return q
	}
	return r.db
}

const teacherColumns = `
	id, employee_id, first_name, last_name, email, password,
	COALESCE(phone, ''), COALESCE(qualification, ''),
	active, last_login, last_sync, institute_id, created_at
`

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var teacher models.Teacher
	err := row.Scan(
		&teacher.ID,
		&teacher.EmployeeID,
		&teacher.FirstName,
		&teacher.LastName,
		&teacher.Email,
		&teacher.Password,
		&teacher.Phone,
		&teacher.Qualification,
		&teacher.Active,
		&teacher.LastLogin,
		&teacher.LastSync,
		&teacher.InstituteID,
		&teacher.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// GetByID retrieves a teacher by ID
func (r *TeacherRepository) GetByID(ctx context.Context, q Querier, id int64) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1`

	teacher, err := scanTeacher(r.querier(q).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher: %w", err)
	}

	return teacher, nil
}

// GetByEmail retrieves a teacher by email
func (r *TeacherRepository) GetByEmail(ctx context.Context, q Querier, email string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE email = $1`

	teacher, err := scanTeacher(r.querier(q).QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("error retrieving teacher by email: %w", err)
	}

	return teacher, nil
}

// UpdateLastLogin stamps the teacher's last login time.
func (r *TeacherRepository) UpdateLastLogin(ctx context.Context, q Querier, id int64, at time.Time) error {
	cmdTag, err := r.querier(q).Exec(ctx,
		`UPDATE teachers SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("error updating last login: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrTeacherNotFound
	}

	return nil
}

// UpdateLastSync stamps the teacher's last offline sync time. The sync
// reconciler calls this inside the batch transaction.
func (r *TeacherRepository) UpdateLastSync(ctx context.Context, q Querier, id int64, at time.Time) error {
	cmdTag, err := r.querier(q).Exec(ctx,
		`UPDATE teachers SET last_sync = $1 WHERE id = $2`, at, id)
	if err != nil {
		return fmt.Errorf("error updating last sync: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrTeacherNotFound
	}

	return nil
}

// UpdateProfile persists the teacher-editable profile fields.
func (r *TeacherRepository) UpdateProfile(ctx context.Context, q Querier, teacher *models.Teacher) error {
	cmdTag, err := r.querier(q).Exec(ctx, `
		UPDATE teachers
		SET phone = NULLIF($1, ''), qualification = NULLIF($2, ''), password = $3
		WHERE id = $4`,
		teacher.Phone, teacher.Qualification, teacher.Password, teacher.ID)
	if err != nil {
		return fmt.Errorf("error updating teacher profile: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return ErrTeacherNotFound
	}

	return nil
}
