package models

import "time"

// Attendance defines one observation of a student's presence in a course
// session on a calendar date, based on the 'attendance' table.
//
// At most one row may exist per (student, course, date, teacher); a row is
// mutated in place on repeat submissions, never duplicated. OfflineID is the
// client-generated identifier that produced or most recently touched the row
// and is unique across the table when present.
type Attendance struct {
	ID                  int64            `json:"id" db:"id" example:"1"`
	StudentID           int64            `json:"studentId" db:"student_id" example:"12"`
	CourseID            int64            `json:"courseId" db:"course_id" example:"4"`
	Date                time.Time        `json:"date" db:"date"`
	Status              AttendanceStatus `json:"status" db:"status" example:"Present"`
	TimeIn              string           `json:"timeIn,omitempty" db:"time_in" example:"08:45:00"`
	Remarks             string           `json:"remarks,omitempty" db:"remarks"`
	FingerprintVerified bool             `json:"fingerprintVerified" db:"fingerprint_verified"`
	Verified            bool             `json:"verified" db:"verified"`
	SyncedFromOffline   bool             `json:"syncedFromOffline" db:"synced_from_offline"`
	OfflineID           string           `json:"offlineId,omitempty" db:"offline_id"`
	TeacherID           int64            `json:"teacherId" db:"teacher_id"`
	InstituteID         int64            `json:"instituteId" db:"institute_id"`
	CreatedAt           time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time        `json:"updatedAt" db:"updated_at"`
}

// AttendanceDetail is an attendance row joined with the student and course
// it refers to, used by listings and summaries.
type AttendanceDetail struct {
	Attendance
	Student StudentRef `json:"student"`
	Course  CourseRef  `json:"course"`
}

// StudentRef is the subset of student fields embedded in attendance listings.
type StudentRef struct {
	ID                 int64  `json:"id"`
	RegistrationNumber string `json:"registrationNumber"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
}

// CourseRef is the subset of course fields embedded in attendance listings.
type CourseRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}
