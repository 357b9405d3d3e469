package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/db"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/apperrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/dberrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/metrics"
	"github.com/jackc/pgx/v5"
)

// AttendanceService records live attendance and reconciles offline sync
// batches. Every write path runs inside a single transaction obtained
// from the TxRunner.
type AttendanceService struct {
	attendanceRepo AttendanceStore
	enrollmentRepo EnrollmentStore
	teacherRepo    TeacherStore
	txRunner       db.TxRunner
	logger         zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(
	attendanceRepo AttendanceStore,
	enrollmentRepo EnrollmentStore,
	teacherRepo TeacherStore,
	txRunner db.TxRunner,
	logger zerolog.Logger,
) *AttendanceService {
	return &AttendanceService{
		attendanceRepo: attendanceRepo,
		enrollmentRepo: enrollmentRepo,
		teacherRepo:    teacherRepo,
		txRunner:       txRunner,
		logger:         logger,
	}
}

// mergeRecord folds one submission into an existing attendance row.
// Status always takes the incoming value; the optional fields keep their
// stored value unless the submission carries a non-empty one, so a
// partial update never erases data. The offline identifier, once set,
// marks the row as touched by an offline client.
func mergeRecord(existing *models.Attendance, status models.AttendanceStatus, timeIn, remarks string, fingerprintVerified bool, offlineID string) {
	existing.Status = status
	if timeIn != "" {
		existing.TimeIn = timeIn
	}
	if remarks != "" {
		existing.Remarks = remarks
	}
	if fingerprintVerified {
		existing.FingerprintVerified = true
	}
	if offlineID != "" {
		existing.OfflineID = offlineID
		existing.SyncedFromOffline = true
	}
}

// checkAssociation verifies the student is active and enrolled in a
// course owned by the teacher.
func (s *AttendanceService) checkAssociation(ctx context.Context, q repositories.Querier, studentID, courseID, teacherID int64) error {
	active, err := s.enrollmentRepo.IsStudentActive(ctx, q, studentID)
	if err != nil {
		return err
	}
	if !active {
		return apperrors.ErrInvalidAssociation
	}

	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, q, studentID, courseID, teacherID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrInvalidAssociation
	}

	return nil
}

// RecordAttendance performs the live recording upsert for one student,
// course and date. It returns the persisted record and whether a new row
// was created (as opposed to an existing one updated).
func (s *AttendanceService) RecordAttendance(ctx context.Context, teacher *models.Teacher, req *dto.TakeAttendanceRequest) (*models.Attendance, bool, error) {
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid date", apperrors.ErrValidationFailed)
	}

	var (
		record  *models.Attendance
		created bool
	)

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.checkAssociation(ctx, tx, req.StudentID, req.CourseID, teacher.ID); err != nil {
			return err
		}

		existing, err := s.attendanceRepo.GetByNaturalKey(ctx, tx, req.StudentID, req.CourseID, date, teacher.ID)
		if err != nil {
			return err
		}

		if existing != nil {
			mergeRecord(existing, models.AttendanceStatus(req.Status), req.TimeIn, req.Remarks, req.FingerprintVerified, req.OfflineID)
			if err := s.attendanceRepo.Update(ctx, tx, existing); err != nil {
				return err
			}
			record = existing
			return nil
		}

		record = &models.Attendance{
			StudentID:           req.StudentID,
			CourseID:            req.CourseID,
			Date:                date,
			Status:              models.AttendanceStatus(req.Status),
			TimeIn:              req.TimeIn,
			Remarks:             req.Remarks,
			FingerprintVerified: req.FingerprintVerified,
			Verified:            true,
			SyncedFromOffline:   req.OfflineID != "",
			OfflineID:           req.OfflineID,
			TeacherID:           teacher.ID,
			InstituteID:         teacher.InstituteID,
		}

		if err := s.insertRecord(ctx, tx, record); err != nil {
			// Lost an insert race on the natural key: another request
			// created the row between our lookup and insert. Fold this
			// submission into that row instead.
			if dberrors.IsDuplicateConstraintError(err, dberrors.AttendanceNaturalKeyConstraint) {
				return s.retryAsUpdate(ctx, tx, req, date, teacher.ID, &record)
			}
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		metrics.Recordings.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, false, err
	}

	if created {
		metrics.Recordings.WithLabelValues(metrics.OutcomeCreated).Inc()
	} else {
		metrics.Recordings.WithLabelValues(metrics.OutcomeUpdated).Inc()
	}

	return record, created, nil
}

// insertRecord runs the insert under a savepoint. A failed statement
// puts the whole Postgres transaction in an aborted state; rolling back
// to the savepoint keeps the enclosing transaction usable, so a
// unique-violation can be retried as an update and a failed sync entry
// cannot poison the rest of its batch.
func (s *AttendanceService) insertRecord(ctx context.Context, tx pgx.Tx, record *models.Attendance) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return err
	}
	if err := s.attendanceRepo.Insert(ctx, sp, record); err != nil {
		_ = sp.Rollback(ctx)
		return err
	}
	return sp.Commit(ctx)
}

// retryAsUpdate re-reads the row that won the insert race and applies
// the request to it.
func (s *AttendanceService) retryAsUpdate(ctx context.Context, tx pgx.Tx, req *dto.TakeAttendanceRequest, date time.Time, teacherID int64, out **models.Attendance) error {
	existing, err := s.attendanceRepo.GetByNaturalKey(ctx, tx, req.StudentID, req.CourseID, date, teacherID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.ErrConstraintViolation
	}

	mergeRecord(existing, models.AttendanceStatus(req.Status), req.TimeIn, req.Remarks, req.FingerprintVerified, req.OfflineID)
	if err := s.attendanceRepo.Update(ctx, tx, existing); err != nil {
		return err
	}
	*out = existing
	return nil
}

// SyncOfflineBatch reconciles a batch of offline-captured attendance
// entries inside one transaction. Entries are processed in order; an
// entry that fails is accounted for and skipped without aborting the
// rest of the batch. The teacher's lastSync timestamp is stamped in the
// same transaction.
func (s *AttendanceService) SyncOfflineBatch(ctx context.Context, teacher *models.Teacher, entries []dto.OfflineAttendanceEntry) (*dto.SyncBatchResult, error) {
	if len(entries) == 0 {
		return nil, apperrors.ErrEmptyBatch
	}

	result := &dto.SyncBatchResult{
		Total:         len(entries),
		FailedRecords: []dto.SyncFailedRecord{},
	}

	err := s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for i := range entries {
			entry := &entries[i]
			outcome, err := s.reconcileEntry(ctx, tx, teacher, entry)
			if err != nil {
				offlineID := entry.OfflineID
				if offlineID == "" {
					offlineID = "unknown"
				}
				result.Failed++
				result.FailedRecords = append(result.FailedRecords, dto.SyncFailedRecord{
					OfflineID: offlineID,
					Error:     err.Error(),
				})
				metrics.SyncEntries.WithLabelValues(metrics.OutcomeFailed).Inc()
				continue
			}

			switch outcome {
			case metrics.OutcomeCreated:
				result.Created++
			case metrics.OutcomeUpdated:
				result.Updated++
			}
			metrics.SyncEntries.WithLabelValues(outcome).Inc()
		}

		return s.teacherRepo.UpdateLastSync(ctx, tx, teacher.ID, time.Now())
	})
	if err != nil {
		return nil, err
	}

	metrics.SyncBatches.Inc()
	s.logger.Info().
		Int64("teacherId", teacher.ID).
		Int("total", result.Total).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Offline attendance batch synced")

	return result, nil
}

// reconcileEntry applies one offline entry against the store and reports
// whether it created or updated a row. All errors it returns are
// per-entry failures, not batch failures.
func (s *AttendanceService) reconcileEntry(ctx context.Context, tx pgx.Tx, teacher *models.Teacher, entry *dto.OfflineAttendanceEntry) (string, error) {
	if entry.OfflineID == "" || entry.StudentID <= 0 || entry.CourseID <= 0 || entry.Date == "" || entry.Status == "" {
		return "", apperrors.ErrMissingFields
	}

	status := models.AttendanceStatus(entry.Status)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown attendance status %q", entry.Status)
	}

	date, err := time.Parse(models.DateLayout, entry.Date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q", entry.Date)
	}

	if entry.TimeIn != "" {
		if _, err := time.Parse(models.TimeLayout, entry.TimeIn); err != nil {
			return "", fmt.Errorf("invalid time %q", entry.TimeIn)
		}
	}

	// The store work runs under a per-entry savepoint: any statement
	// error rolls back to here, so the enclosing transaction stays
	// usable for the entries after this one.
	sp, err := tx.Begin(ctx)
	if err != nil {
		return "", err
	}
	outcome, err := s.applyEntry(ctx, sp, teacher, entry, status, date)
	if err != nil {
		_ = sp.Rollback(ctx)
		return "", err
	}
	if err := sp.Commit(ctx); err != nil {
		return "", err
	}
	return outcome, nil
}

// applyEntry resolves one validated offline entry against the store:
// resend, natural-key claim, or fresh insert.
func (s *AttendanceService) applyEntry(ctx context.Context, tx pgx.Tx, teacher *models.Teacher, entry *dto.OfflineAttendanceEntry, status models.AttendanceStatus, date time.Time) (string, error) {
	if err := s.checkAssociation(ctx, tx, entry.StudentID, entry.CourseID, teacher.ID); err != nil {
		return "", err
	}

	// An entry whose offline identifier already landed is a resend;
	// re-apply it to the row it produced.
	existing, err := s.attendanceRepo.GetByOfflineID(ctx, tx, entry.OfflineID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		mergeRecord(existing, status, entry.TimeIn, entry.Remarks, entry.FingerprintVerified, entry.OfflineID)
		if err := s.attendanceRepo.Update(ctx, tx, existing); err != nil {
			return "", err
		}
		return metrics.OutcomeUpdated, nil
	}

	// A different submission may already hold the (student, course,
	// date, teacher) slot; the offline entry folds into it and claims
	// the row with its identifier.
	existing, err = s.attendanceRepo.GetByNaturalKey(ctx, tx, entry.StudentID, entry.CourseID, date, teacher.ID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		mergeRecord(existing, status, entry.TimeIn, entry.Remarks, entry.FingerprintVerified, entry.OfflineID)
		if err := s.attendanceRepo.Update(ctx, tx, existing); err != nil {
			return "", err
		}
		return metrics.OutcomeUpdated, nil
	}

	record := &models.Attendance{
		StudentID:           entry.StudentID,
		CourseID:            entry.CourseID,
		Date:                date,
		Status:              status,
		TimeIn:              entry.TimeIn,
		Remarks:             entry.Remarks,
		FingerprintVerified: entry.FingerprintVerified,
		Verified:            true,
		SyncedFromOffline:   true,
		OfflineID:           entry.OfflineID,
		TeacherID:           teacher.ID,
		InstituteID:         teacher.InstituteID,
	}

	if err := s.insertRecord(ctx, tx, record); err != nil {
		// A concurrent sync landed a row for this slot between the
		// lookups and the insert. Fold the entry into that row.
		if dberrors.IsUniqueViolation(err) {
			return s.retryEntryAsUpdate(ctx, tx, teacher, entry, status, date)
		}
		return "", err
	}

	return metrics.OutcomeCreated, nil
}

// retryEntryAsUpdate re-reads the row that won the insert race, by
// offline identifier first and natural key second, and merges the entry
// into it.
func (s *AttendanceService) retryEntryAsUpdate(ctx context.Context, tx pgx.Tx, teacher *models.Teacher, entry *dto.OfflineAttendanceEntry, status models.AttendanceStatus, date time.Time) (string, error) {
	existing, err := s.attendanceRepo.GetByOfflineID(ctx, tx, entry.OfflineID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		existing, err = s.attendanceRepo.GetByNaturalKey(ctx, tx, entry.StudentID, entry.CourseID, date, teacher.ID)
		if err != nil {
			return "", err
		}
	}
	if existing == nil {
		return "", apperrors.ErrConstraintViolation
	}

	mergeRecord(existing, status, entry.TimeIn, entry.Remarks, entry.FingerprintVerified, entry.OfflineID)
	if err := s.attendanceRepo.Update(ctx, tx, existing); err != nil {
		return "", err
	}
	return metrics.OutcomeUpdated, nil
}
