package services

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/db"
)

// stubTx satisfies pgx.Tx just far enough for the savepoint scoping the
// services do around their writes. The fake stores below never execute
// SQL through it, so the embedded interface's remaining methods stay
// unimplemented.
type stubTx struct {
	pgx.Tx
	savepoints int
	rollbacks  int
}

func (t *stubTx) Begin(context.Context) (pgx.Tx, error) {
	t.savepoints++
	return t, nil
}

func (t *stubTx) Commit(context.Context) error { return nil }

func (t *stubTx) Rollback(context.Context) error {
	t.rollbacks++
	return nil
}

// fakeTxRunner satisfies db.TxRunner without a database. The callback
// receives the embedded stub transaction; the fake stores below ignore
// the Querier argument entirely.
type fakeTxRunner struct {
	calls int
	stubTx
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, &f.stubTx)
}

var _ db.TxRunner = (*fakeTxRunner)(nil)

// fakeAttendanceStore keeps attendance rows in memory. Lookups return
// copies so a caller's mutations only land through Update, matching the
// real repository.
type fakeAttendanceStore struct {
	nextID     int64
	records    []models.Attendance
	insertHook func(*models.Attendance) error
}

var _ AttendanceStore = (*fakeAttendanceStore)(nil)

func (f *fakeAttendanceStore) GetByNaturalKey(_ context.Context, _ repositories.Querier, studentID, courseID int64, date time.Time, teacherID int64) (*models.Attendance, error) {
	for i := range f.records {
		r := &f.records[i]
		if r.StudentID == studentID && r.CourseID == courseID && r.Date.Equal(date) && r.TeacherID == teacherID {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceStore) GetByOfflineID(_ context.Context, _ repositories.Querier, offlineID string) (*models.Attendance, error) {
	for i := range f.records {
		r := &f.records[i]
		if r.OfflineID != "" && r.OfflineID == offlineID {
			c := *r
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceStore) Insert(_ context.Context, _ repositories.Querier, record *models.Attendance) error {
	if f.insertHook != nil {
		if err := f.insertHook(record); err != nil {
			return err
		}
	}
	f.nextID++
	record.ID = f.nextID
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeAttendanceStore) Update(_ context.Context, _ repositories.Querier, record *models.Attendance) error {
	for i := range f.records {
		if f.records[i].ID == record.ID {
			record.UpdatedAt = time.Now()
			f.records[i] = *record
			return nil
		}
	}
	return fmt.Errorf("attendance record %d not found", record.ID)
}

// byOfflineID returns the stored row with the given offline identifier,
// bypassing the copy semantics, for assertions.
func (f *fakeAttendanceStore) byOfflineID(offlineID string) *models.Attendance {
	for i := range f.records {
		if f.records[i].OfflineID == offlineID {
			return &f.records[i]
		}
	}
	return nil
}

// fakeEnrollmentStore answers association checks from maps.
type fakeEnrollmentStore struct {
	activeStudents map[int64]bool
	enrollments    map[string]bool
}

var _ EnrollmentStore = (*fakeEnrollmentStore)(nil)

func enrollmentKey(studentID, courseID, teacherID int64) string {
	return fmt.Sprintf("%d/%d/%d", studentID, courseID, teacherID)
}

func (f *fakeEnrollmentStore) enroll(studentID, courseID, teacherID int64) {
	if f.activeStudents == nil {
		f.activeStudents = map[int64]bool{}
	}
	if f.enrollments == nil {
		f.enrollments = map[string]bool{}
	}
	f.activeStudents[studentID] = true
	f.enrollments[enrollmentKey(studentID, courseID, teacherID)] = true
}

func (f *fakeEnrollmentStore) IsStudentActive(_ context.Context, _ repositories.Querier, studentID int64) (bool, error) {
	return f.activeStudents[studentID], nil
}

func (f *fakeEnrollmentStore) IsEnrolled(_ context.Context, _ repositories.Querier, studentID, courseID, teacherID int64) (bool, error) {
	return f.enrollments[enrollmentKey(studentID, courseID, teacherID)], nil
}

// fakeTeacherStore holds a single teacher and records timestamp stamps.
type fakeTeacherStore struct {
	teacher     *models.Teacher
	lastSync    *time.Time
	lastLogin   *time.Time
	syncErr     error
	profileErr  error
	updatedRows []models.Teacher
}

var _ TeacherStore = (*fakeTeacherStore)(nil)

func (f *fakeTeacherStore) GetByID(_ context.Context, _ repositories.Querier, id int64) (*models.Teacher, error) {
	if f.teacher == nil || f.teacher.ID != id {
		return nil, repositories.ErrTeacherNotFound
	}
	c := *f.teacher
	return &c, nil
}

func (f *fakeTeacherStore) GetByEmail(_ context.Context, _ repositories.Querier, email string) (*models.Teacher, error) {
	if f.teacher == nil || f.teacher.Email != email {
		return nil, repositories.ErrTeacherNotFound
	}
	c := *f.teacher
	return &c, nil
}

func (f *fakeTeacherStore) UpdateLastLogin(_ context.Context, _ repositories.Querier, id int64, at time.Time) error {
	f.lastLogin = &at
	return nil
}

func (f *fakeTeacherStore) UpdateLastSync(_ context.Context, _ repositories.Querier, id int64, at time.Time) error {
	if f.syncErr != nil {
		return f.syncErr
	}
	f.lastSync = &at
	return nil
}

func (f *fakeTeacherStore) UpdateProfile(_ context.Context, _ repositories.Querier, teacher *models.Teacher) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	f.updatedRows = append(f.updatedRows, *teacher)
	return nil
}

// fakeReportStore serves canned aggregation results.
type fakeReportStore struct {
	details    []models.AttendanceDetail
	total      int64
	statusRows []repositories.StatusCountRow
	courseRows []repositories.CourseStatusRow
	dailyRows  []repositories.DailyStatusRow
	courses    int
	students   int

	lastFilter repositories.AttendanceFilter
}

var _ ReportStore = (*fakeReportStore)(nil)

func (f *fakeReportStore) ListAttendance(_ context.Context, _ repositories.Querier, filter repositories.AttendanceFilter, offset, limit int) ([]models.AttendanceDetail, int64, error) {
	f.lastFilter = filter
	return f.details, f.total, nil
}

func (f *fakeReportStore) RecentAttendance(_ context.Context, _ repositories.Querier, filter repositories.AttendanceFilter, limit int) ([]models.AttendanceDetail, error) {
	f.lastFilter = filter
	return f.details, nil
}

func (f *fakeReportStore) StatusCounts(_ context.Context, _ repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.StatusCountRow, error) {
	f.lastFilter = filter
	return f.statusRows, nil
}

func (f *fakeReportStore) CourseStatusCounts(_ context.Context, _ repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.CourseStatusRow, error) {
	return f.courseRows, nil
}

func (f *fakeReportStore) DailyStatusCounts(_ context.Context, _ repositories.Querier, filter repositories.AttendanceFilter) ([]repositories.DailyStatusRow, error) {
	return f.dailyRows, nil
}

func (f *fakeReportStore) CountCourses(_ context.Context, _ repositories.Querier, teacherID int64) (int, error) {
	return f.courses, nil
}

func (f *fakeReportStore) CountStudents(_ context.Context, _ repositories.Querier, teacherID int64) (int, error) {
	return f.students, nil
}

// compile-time check that pgx.Tx still satisfies the repository Querier;
// the services hand the transaction straight through.
var _ repositories.Querier = (pgx.Tx)(nil)
