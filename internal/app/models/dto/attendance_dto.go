package dto

import "github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"

// TakeAttendanceRequest is the body of the live recording endpoint.
// Field-level constraints are enforced here, before any reconciliation
// logic runs.
type TakeAttendanceRequest struct {
	StudentID           int64  `json:"studentId" binding:"required,gt=0" example:"12"`
	CourseID            int64  `json:"courseId" binding:"required,gt=0" example:"4"`
	Date                string `json:"date" binding:"required,datetime=2006-01-02" example:"2024-03-01"`
	Status              string `json:"status" binding:"required,oneof=Present Late Absent" example:"Present"`
	TimeIn              string `json:"timeIn,omitempty" binding:"omitempty,datetime=15:04:05" example:"08:45:00"`
	Remarks             string `json:"remarks,omitempty"`
	FingerprintVerified bool   `json:"fingerprintVerified,omitempty"`
	OfflineID           string `json:"offlineId,omitempty" binding:"omitempty,max=100"`
}

// AttendanceRef is the minimal record echo returned by the recording
// endpoints; field names are fixed by the existing clients.
type AttendanceRef struct {
	ID        int64  `json:"id" example:"57"`
	StudentID int64  `json:"studentId" example:"12"`
	CourseID  int64  `json:"courseId" example:"4"`
	Date      string `json:"date" example:"2024-03-01"`
	Status    string `json:"status" example:"Present"`
}

// OfflineAttendanceEntry is one client-captured attendance entry inside a
// sync batch. Fields are deliberately unconstrained at the binding layer:
// a malformed entry must fail on its own, not reject the whole batch.
type OfflineAttendanceEntry struct {
	OfflineID           string `json:"offlineId" example:"dev42-20240301-0007"`
	StudentID           int64  `json:"studentId" example:"12"`
	CourseID            int64  `json:"courseId" example:"4"`
	Date                string `json:"date" example:"2024-03-01"`
	Status              string `json:"status" example:"Present"`
	TimeIn              string `json:"timeIn,omitempty" example:"08:45:00"`
	Remarks             string `json:"remarks,omitempty"`
	FingerprintVerified bool   `json:"fingerprintVerified,omitempty"`
}

// SyncAttendanceRequest is the body of the offline sync endpoint.
type SyncAttendanceRequest struct {
	AttendanceRecords []OfflineAttendanceEntry `json:"attendanceRecords"`
}

// SyncFailedRecord pairs a failed entry's offline identifier with the
// reason it was rejected.
type SyncFailedRecord struct {
	OfflineID string `json:"offlineId" example:"dev42-20240301-0007"`
	Error     string `json:"error" example:"Missing required fields"`
}

// SyncBatchResult is the per-batch accounting returned by the sync
// endpoint. It is built fresh per call and never persisted.
type SyncBatchResult struct {
	Total         int                `json:"total" example:"20"`
	Created       int                `json:"created" example:"17"`
	Updated       int                `json:"updated" example:"2"`
	Failed        int                `json:"failed" example:"1"`
	FailedRecords []SyncFailedRecord `json:"failedRecords"`
}

// AttendanceRecordResponse is one row of an attendance listing.
type AttendanceRecordResponse struct {
	ID                  int64             `json:"id"`
	Date                string            `json:"date" example:"2024-03-01"`
	Status              string            `json:"status" example:"Present"`
	TimeIn              string            `json:"timeIn,omitempty" example:"08:45:00"`
	Remarks             string            `json:"remarks,omitempty"`
	FingerprintVerified bool              `json:"fingerprintVerified"`
	SyncedFromOffline   bool              `json:"syncedFromOffline"`
	CreatedAt           string            `json:"createdAt"`
	Student             models.StudentRef `json:"student"`
	Course              models.CourseRef  `json:"course"`
}

// AttendanceListResponse is the paginated listing payload.
type AttendanceListResponse struct {
	Attendance []AttendanceRecordResponse `json:"attendance"`
	Pagination PaginationInfo             `json:"pagination"`
}

// StatusCounts aggregates attendance rows by status.
type StatusCounts struct {
	Present int `json:"Present"`
	Late    int `json:"Late"`
	Absent  int `json:"Absent"`
	Total   int `json:"Total"`
}

// CourseStatusCount is the per-course breakdown inside the daily summary.
type CourseStatusCount struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
	Present int    `json:"Present"`
	Late    int    `json:"Late"`
	Absent  int    `json:"Absent"`
	Total   int    `json:"Total"`
}

// DailySummaryResponse is the payload of the daily summary endpoint.
type DailySummaryResponse struct {
	Date             string                     `json:"date" example:"2024-03-01"`
	StatusCounts     StatusCounts               `json:"statusCounts"`
	CourseCounts     []CourseStatusCount        `json:"courseCounts"`
	RecentAttendance []AttendanceRecordResponse `json:"recentAttendance"`
}

// OverallStats extends StatusCounts with percentage strings formatted to
// two decimals, matching the original report format.
type OverallStats struct {
	StatusCounts
	PresentPercentage string `json:"PresentPercentage" example:"85.00"`
	LatePercentage    string `json:"LatePercentage" example:"10.00"`
	AbsentPercentage  string `json:"AbsentPercentage" example:"5.00"`
}

// DailyStatusCount is one day's counts inside the statistics report.
type DailyStatusCount struct {
	Date    string `json:"date" example:"2024-03-01"`
	Present int    `json:"Present"`
	Late    int    `json:"Late"`
	Absent  int    `json:"Absent"`
	Total   int    `json:"Total"`
}

// StatisticsPeriod is the resolved reporting window.
type StatisticsPeriod struct {
	StartDate string `json:"startDate" example:"2024-02-01"`
	EndDate   string `json:"endDate" example:"2024-03-01"`
}

// AttendanceStatisticsResponse is the payload of the statistics endpoint.
type AttendanceStatisticsResponse struct {
	Period       StatisticsPeriod   `json:"period"`
	OverallStats OverallStats       `json:"overallStats"`
	DailyStats   []DailyStatusCount `json:"dailyStats"`
}
