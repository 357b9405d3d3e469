package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Constraint names from migrations/001_init.sql that the sync path relies on.
const (
	AttendanceNaturalKeyConstraint = "uq_attendance_natural_key"
	AttendanceOfflineIDConstraint  = "uq_attendance_offline_id"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique violation
// (code 23505) regardless of which constraint fired.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation error for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraintName
}
