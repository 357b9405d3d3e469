package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/apperrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/dberrors"
)

type attendanceFixture struct {
	svc         *AttendanceService
	attendance  *fakeAttendanceStore
	enrollments *fakeEnrollmentStore
	teachers    *fakeTeacherStore
	tx          *fakeTxRunner
	teacher     *models.Teacher
}

func newAttendanceFixture() *attendanceFixture {
	teacher := &models.Teacher{ID: 7, InstituteID: 3, Email: "t@edu.test", Active: true}
	attendance := &fakeAttendanceStore{}
	enrollments := &fakeEnrollmentStore{}
	teachers := &fakeTeacherStore{teacher: teacher}
	tx := &fakeTxRunner{}

	return &attendanceFixture{
		svc:         NewAttendanceService(attendance, enrollments, teachers, tx, zerolog.Nop()),
		attendance:  attendance,
		enrollments: enrollments,
		teachers:    teachers,
		tx:          tx,
		teacher:     teacher,
	}
}

func TestMergeRecord(t *testing.T) {
	base := func() *models.Attendance {
		return &models.Attendance{
			ID:      1,
			Status:  models.StatusPresent,
			TimeIn:  "08:00:00",
			Remarks: "on time",
		}
	}

	tests := []struct {
		name        string
		status      models.AttendanceStatus
		timeIn      string
		remarks     string
		fingerprint bool
		offlineID   string
		want        models.Attendance
	}{
		{
			name:   "status always overwritten, empty fields preserved",
			status: models.StatusLate,
			want:   models.Attendance{ID: 1, Status: models.StatusLate, TimeIn: "08:00:00", Remarks: "on time"},
		},
		{
			name:    "non-empty fields overwrite",
			status:  models.StatusPresent,
			timeIn:  "08:45:00",
			remarks: "rechecked",
			want:    models.Attendance{ID: 1, Status: models.StatusPresent, TimeIn: "08:45:00", Remarks: "rechecked"},
		},
		{
			name:        "fingerprint flag only ever set",
			status:      models.StatusPresent,
			fingerprint: true,
			want:        models.Attendance{ID: 1, Status: models.StatusPresent, TimeIn: "08:00:00", Remarks: "on time", FingerprintVerified: true},
		},
		{
			name:      "offline id claims the row",
			status:    models.StatusPresent,
			offlineID: "dev1-001",
			want:      models.Attendance{ID: 1, Status: models.StatusPresent, TimeIn: "08:00:00", Remarks: "on time", SyncedFromOffline: true, OfflineID: "dev1-001"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base()
			mergeRecord(got, tt.status, tt.timeIn, tt.remarks, tt.fingerprint, tt.offlineID)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestMergeRecordDoesNotClearFingerprint(t *testing.T) {
	rec := &models.Attendance{Status: models.StatusPresent, FingerprintVerified: true}
	mergeRecord(rec, models.StatusAbsent, "", "", false, "")
	assert.True(t, rec.FingerprintVerified)
}

func TestRecordAttendanceCreates(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	record, created, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12,
		CourseID:  4,
		Date:      "2024-03-01",
		Status:    "Present",
		TimeIn:    "08:45:00",
	})
	require.NoError(t, err)

	assert.True(t, created)
	assert.NotZero(t, record.ID)
	assert.True(t, record.Verified)
	assert.False(t, record.SyncedFromOffline)
	assert.Equal(t, models.StatusPresent, record.Status)
	assert.Equal(t, f.teacher.InstituteID, record.InstituteID)
	assert.Equal(t, 1, f.tx.calls)
	assert.Len(t, f.attendance.records, 1)
}

func TestRecordAttendanceIsIdempotent(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	req := &dto.TakeAttendanceRequest{
		StudentID: 12,
		CourseID:  4,
		Date:      "2024-03-01",
		Status:    "Present",
		TimeIn:    "08:45:00",
		Remarks:   "first pass",
	}
	first, created, err := f.svc.RecordAttendance(context.Background(), f.teacher, req)
	require.NoError(t, err)
	require.True(t, created)

	// Resubmitting with a different status updates the same row. Fields
	// left empty keep their stored values.
	second, created, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12,
		CourseID:  4,
		Date:      "2024-03-01",
		Status:    "Late",
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StatusLate, second.Status)
	assert.Equal(t, "08:45:00", second.TimeIn)
	assert.Equal(t, "first pass", second.Remarks)
	assert.Len(t, f.attendance.records, 1)
}

func TestRecordAttendanceLiveThenOfflineIDClaims(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	_, _, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present",
	})
	require.NoError(t, err)

	record, created, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present", OfflineID: "dev1-077",
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.True(t, record.SyncedFromOffline)
	assert.Equal(t, "dev1-077", record.OfflineID)
}

func TestRecordAttendanceRejectsInvalidAssociation(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *attendanceFixture)
	}{
		{name: "unknown student", setup: func(f *attendanceFixture) {}},
		{
			name: "inactive student",
			setup: func(f *attendanceFixture) {
				f.enrollments.enroll(12, 4, f.teacher.ID)
				f.enrollments.activeStudents[12] = false
			},
		},
		{
			name: "course owned by another teacher",
			setup: func(f *attendanceFixture) {
				f.enrollments.enroll(12, 4, 99)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAttendanceFixture()
			tt.setup(f)

			_, _, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
				StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present",
			})
			assert.ErrorIs(t, err, apperrors.ErrInvalidAssociation)
			assert.Empty(t, f.attendance.records)
		})
	}
}

func TestRecordAttendanceInsertRaceRetriesAsUpdate(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	// First insert attempt loses the race: another request lands the row
	// just before ours, so the store raises the natural-key violation.
	raced := false
	f.attendance.insertHook = func(rec *models.Attendance) error {
		if raced {
			return nil
		}
		raced = true
		f.attendance.records = append(f.attendance.records, models.Attendance{
			ID: 41, StudentID: rec.StudentID, CourseID: rec.CourseID,
			Date: rec.Date, Status: models.StatusAbsent, TeacherID: rec.TeacherID,
		})
		return &pgconn.PgError{Code: "23505", ConstraintName: dberrors.AttendanceNaturalKeyConstraint}
	}

	record, created, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present",
	})
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, int64(41), record.ID)
	assert.Equal(t, models.StatusPresent, record.Status)
	assert.Len(t, f.attendance.records, 1)
}

func TestSyncOfflineBatchInsertRaceRetriesAsUpdate(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	// The insert loses a race to a concurrent live recording that lands
	// the natural-key slot between the entry's lookups and its insert.
	raced := false
	f.attendance.insertHook = func(rec *models.Attendance) error {
		if raced {
			return nil
		}
		raced = true
		f.attendance.records = append(f.attendance.records, models.Attendance{
			ID: 51, StudentID: rec.StudentID, CourseID: rec.CourseID,
			Date: rec.Date, Status: models.StatusAbsent, TeacherID: rec.TeacherID,
		})
		return &pgconn.PgError{Code: "23505", ConstraintName: dberrors.AttendanceNaturalKeyConstraint}
	}

	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-051", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
	})
	require.NoError(t, err)

	// The race is absorbed as an update, not counted as a failure.
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Failed)

	row := f.attendance.byOfflineID("dev1-051")
	require.NotNil(t, row)
	assert.Equal(t, int64(51), row.ID)
	assert.Equal(t, models.StatusPresent, row.Status)
	assert.True(t, row.SyncedFromOffline)
	assert.Len(t, f.attendance.records, 1)
	assert.NotNil(t, f.teachers.lastSync)
}

// A sync entry whose statements fail must leave the shared transaction
// usable for the entries after it, so its writes are scoped to a
// savepoint that is rolled back on failure.
func TestSyncOfflineBatchRollsBackFailedEntrySavepoint(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)
	f.enrollments.enroll(13, 4, f.teacher.ID)

	f.attendance.insertHook = func(rec *models.Attendance) error {
		if rec.OfflineID == "dev1-bad" {
			return &pgconn.PgError{Code: "23503", ConstraintName: "fk_attendance_student"}
		}
		return nil
	}

	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-bad", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
		{OfflineID: "dev1-ok", StudentID: 13, CourseID: 4, Date: "2024-03-01", Status: "Late"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.FailedRecords, 1)
	assert.Equal(t, "dev1-bad", result.FailedRecords[0].OfflineID)

	// Each entry opened its savepoint and the failed one rolled back.
	assert.NotZero(t, f.tx.savepoints)
	assert.NotZero(t, f.tx.rollbacks)
	assert.NotNil(t, f.attendance.byOfflineID("dev1-ok"))
	assert.Nil(t, f.attendance.byOfflineID("dev1-bad"))
}

func TestSyncOfflineBatchRejectsEmpty(t *testing.T) {
	f := newAttendanceFixture()

	_, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyBatch)

	_, err = f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{})
	assert.ErrorIs(t, err, apperrors.ErrEmptyBatch)

	// No transaction was opened and nothing was stamped.
	assert.Zero(t, f.tx.calls)
	assert.Nil(t, f.teachers.lastSync)
}

func TestSyncOfflineBatchCreatesEntries(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)
	f.enrollments.enroll(13, 4, f.teacher.ID)

	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-001", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present", TimeIn: "08:45:00"},
		{OfflineID: "dev1-002", StudentID: 13, CourseID: 4, Date: "2024-03-01", Status: "Late"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.FailedRecords)
	assert.Equal(t, 1, f.tx.calls)
	require.NotNil(t, f.teachers.lastSync)

	row := f.attendance.byOfflineID("dev1-001")
	require.NotNil(t, row)
	assert.True(t, row.SyncedFromOffline)
	assert.True(t, row.Verified)
}

func TestSyncOfflineBatchResendUpdates(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	entry := dto.OfflineAttendanceEntry{
		OfflineID: "dev1-001", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present",
	}
	_, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{entry})
	require.NoError(t, err)

	// The same offline identifier arriving again is a resend, not a new
	// observation.
	entry.Status = "Late"
	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{entry})
	require.NoError(t, err)

	assert.Zero(t, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, f.attendance.records, 1)
	assert.Equal(t, models.StatusLate, f.attendance.byOfflineID("dev1-001").Status)
}

func TestSyncOfflineBatchClaimsNaturalKeyConflict(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	// A live recording already holds the (student, course, date) slot.
	_, _, err := f.svc.RecordAttendance(context.Background(), f.teacher, &dto.TakeAttendanceRequest{
		StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present", Remarks: "front row",
	})
	require.NoError(t, err)

	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-009", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Late"},
	})
	require.NoError(t, err)

	assert.Zero(t, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, f.attendance.records, 1)

	row := f.attendance.byOfflineID("dev1-009")
	require.NotNil(t, row)
	assert.Equal(t, models.StatusLate, row.Status)
	assert.Equal(t, "front row", row.Remarks)
	assert.True(t, row.SyncedFromOffline)
}

func TestSyncOfflineBatchPartialFailureIsolation(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)
	f.enrollments.enroll(13, 4, f.teacher.ID)

	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-001", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
		{OfflineID: "dev1-002", StudentID: 0, CourseID: 4, Date: "2024-03-01", Status: "Present"},
		{OfflineID: "dev1-003", StudentID: 13, CourseID: 4, Date: "2024-03-01", Status: "Absent"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.FailedRecords, 1)
	assert.Equal(t, "dev1-002", result.FailedRecords[0].OfflineID)
	assert.Equal(t, apperrors.ErrMissingFields.Error(), result.FailedRecords[0].Error)

	// The failing entry did not poison the batch: the other rows landed
	// and the sync stamp was still written.
	assert.Len(t, f.attendance.records, 2)
	assert.NotNil(t, f.teachers.lastSync)
}

func TestSyncOfflineBatchEntryValidation(t *testing.T) {
	tests := []struct {
		name          string
		entry         dto.OfflineAttendanceEntry
		wantOfflineID string
		wantError     string
	}{
		{
			name:          "missing offline id",
			entry:         dto.OfflineAttendanceEntry{StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
			wantOfflineID: "unknown",
			wantError:     apperrors.ErrMissingFields.Error(),
		},
		{
			name:          "missing date",
			entry:         dto.OfflineAttendanceEntry{OfflineID: "x1", StudentID: 12, CourseID: 4, Status: "Present"},
			wantOfflineID: "x1",
			wantError:     apperrors.ErrMissingFields.Error(),
		},
		{
			name:          "unknown status",
			entry:         dto.OfflineAttendanceEntry{OfflineID: "x2", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Tardy"},
			wantOfflineID: "x2",
			wantError:     `unknown attendance status "Tardy"`,
		},
		{
			name:          "malformed date",
			entry:         dto.OfflineAttendanceEntry{OfflineID: "x3", StudentID: 12, CourseID: 4, Date: "01/03/2024", Status: "Present"},
			wantOfflineID: "x3",
			wantError:     `invalid date "01/03/2024"`,
		},
		{
			name:          "malformed time",
			entry:         dto.OfflineAttendanceEntry{OfflineID: "x4", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present", TimeIn: "8:45"},
			wantOfflineID: "x4",
			wantError:     `invalid time "8:45"`,
		},
		{
			name:          "not enrolled",
			entry:         dto.OfflineAttendanceEntry{OfflineID: "x5", StudentID: 55, CourseID: 4, Date: "2024-03-01", Status: "Present"},
			wantOfflineID: "x5",
			wantError:     apperrors.ErrInvalidAssociation.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAttendanceFixture()
			f.enrollments.enroll(12, 4, f.teacher.ID)

			result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{tt.entry})
			require.NoError(t, err)

			assert.Equal(t, 1, result.Failed)
			require.Len(t, result.FailedRecords, 1)
			assert.Equal(t, tt.wantOfflineID, result.FailedRecords[0].OfflineID)
			assert.Equal(t, tt.wantError, result.FailedRecords[0].Error)
		})
	}
}

func TestSyncOfflineBatchLastEntryWins(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)

	// Two devices captured the same student, course and date. The first
	// entry creates the row; the second folds into it and takes over the
	// offline identifier.
	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "a1", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present", TimeIn: "08:40:00"},
		{OfflineID: "a2", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Late"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, f.attendance.records, 1)

	row := &f.attendance.records[0]
	assert.Equal(t, "a2", row.OfflineID)
	assert.Equal(t, models.StatusLate, row.Status)
	assert.Equal(t, "08:40:00", row.TimeIn)
}

func TestSyncOfflineBatchStampFailureAbortsBatch(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)
	f.teachers.syncErr = assert.AnError

	_, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, []dto.OfflineAttendanceEntry{
		{OfflineID: "dev1-001", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
	})
	assert.Error(t, err)
}

func TestSyncOfflineBatchOrderIndependentForDistinctKeys(t *testing.T) {
	f := newAttendanceFixture()
	f.enrollments.enroll(12, 4, f.teacher.ID)
	f.enrollments.enroll(13, 4, f.teacher.ID)
	f.enrollments.enroll(14, 4, f.teacher.ID)

	entries := []dto.OfflineAttendanceEntry{
		{OfflineID: "b3", StudentID: 14, CourseID: 4, Date: "2024-03-01", Status: "Absent"},
		{OfflineID: "b1", StudentID: 12, CourseID: 4, Date: "2024-03-01", Status: "Present"},
		{OfflineID: "b2", StudentID: 13, CourseID: 4, Date: "2024-03-01", Status: "Late"},
	}
	result, err := f.svc.SyncOfflineBatch(context.Background(), f.teacher, entries)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	for _, id := range []string{"b1", "b2", "b3"} {
		assert.NotNil(t, f.attendance.byOfflineID(id))
	}
}
