package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/models/dto"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/app/repositories"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/apperrors"
	"github.com/Rajin-257/Fingerprint-Attendance-Flutter/internal/pkg/helpers"
)

const recentAttendanceLimit = 10

// ReportService builds the attendance listings, daily summaries and
// range statistics. All queries are scoped to one teacher.
type ReportService struct {
	reportRepo ReportStore
	logger     zerolog.Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo ReportStore, logger zerolog.Logger) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// ListFilter carries the parsed query parameters of the listing endpoint.
type ListFilter struct {
	CourseID  int64
	StudentID int64
	Date      string
	Status    string
}

func toRecordResponse(d *models.AttendanceDetail) dto.AttendanceRecordResponse {
	return dto.AttendanceRecordResponse{
		ID:                  d.ID,
		Date:                d.Date.Format(models.DateLayout),
		Status:              string(d.Status),
		TimeIn:              d.TimeIn,
		Remarks:             d.Remarks,
		FingerprintVerified: d.FingerprintVerified,
		SyncedFromOffline:   d.SyncedFromOffline,
		CreatedAt:           d.CreatedAt.Format(time.RFC3339),
		Student:             d.Student,
		Course:              d.Course,
	}
}

func toRecordResponses(details []models.AttendanceDetail) []dto.AttendanceRecordResponse {
	records := make([]dto.AttendanceRecordResponse, 0, len(details))
	for i := range details {
		records = append(records, toRecordResponse(&details[i]))
	}
	return records
}

func foldStatusCounts(rows []repositories.StatusCountRow) dto.StatusCounts {
	var counts dto.StatusCounts
	for _, row := range rows {
		switch row.Status {
		case models.StatusPresent:
			counts.Present = row.Count
		case models.StatusLate:
			counts.Late = row.Count
		case models.StatusAbsent:
			counts.Absent = row.Count
		}
		counts.Total += row.Count
	}
	return counts
}

// ListAttendance returns one page of the teacher's attendance records.
func (s *ReportService) ListAttendance(ctx context.Context, teacher *models.Teacher, filter ListFilter, page, limit int) (*dto.AttendanceListResponse, error) {
	repoFilter := repositories.AttendanceFilter{
		TeacherID:   teacher.ID,
		InstituteID: teacher.InstituteID,
		CourseID:    filter.CourseID,
		StudentID:   filter.StudentID,
		Status:      models.AttendanceStatus(filter.Status),
	}

	if filter.Status != "" && !models.AttendanceStatus(filter.Status).IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidationFailed, filter.Status)
	}
	if filter.Date != "" {
		date, err := helpers.ParseDate(filter.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", apperrors.ErrValidationFailed)
		}
		repoFilter.Date = &date
	}

	offset := helpers.CalculateOffset(page, limit)
	details, total, err := s.reportRepo.ListAttendance(ctx, nil, repoFilter, offset, limit)
	if err != nil {
		return nil, err
	}

	return &dto.AttendanceListResponse{
		Attendance: toRecordResponses(details),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// GetDailySummary aggregates one day of the teacher's attendance: totals
// by status, per-course breakdown and the most recent records. An empty
// date defaults to today.
func (s *ReportService) GetDailySummary(ctx context.Context, teacher *models.Teacher, dateStr string) (*dto.DailySummaryResponse, error) {
	date := helpers.ParseDateOrDefault(dateStr, time.Now())

	filter := repositories.AttendanceFilter{
		TeacherID:   teacher.ID,
		InstituteID: teacher.InstituteID,
		Date:        &date,
	}

	statusRows, err := s.reportRepo.StatusCounts(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	courseRows, err := s.reportRepo.CourseStatusCounts(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	recent, err := s.reportRepo.RecentAttendance(ctx, nil, filter, recentAttendanceLimit)
	if err != nil {
		return nil, err
	}

	// Fold the per-(course, status) rows into one entry per course,
	// preserving first-seen course order.
	var courseCounts []dto.CourseStatusCount
	courseIndex := map[int64]int{}
	for _, row := range courseRows {
		idx, ok := courseIndex[row.CourseID]
		if !ok {
			idx = len(courseCounts)
			courseIndex[row.CourseID] = idx
			courseCounts = append(courseCounts, dto.CourseStatusCount{
				ID:   row.CourseID,
				Name: row.CourseName,
				Code: row.CourseCode,
			})
		}
		switch row.Status {
		case models.StatusPresent:
			courseCounts[idx].Present = row.Count
		case models.StatusLate:
			courseCounts[idx].Late = row.Count
		case models.StatusAbsent:
			courseCounts[idx].Absent = row.Count
		}
		courseCounts[idx].Total += row.Count
	}

	return &dto.DailySummaryResponse{
		Date:             date.Format(models.DateLayout),
		StatusCounts:     foldStatusCounts(statusRows),
		CourseCounts:     courseCounts,
		RecentAttendance: toRecordResponses(recent),
	}, nil
}

func percentage(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(count)*100/float64(total))
}

// GetStatistics aggregates a date range of the teacher's attendance into
// overall and per-day counts. The range defaults to the last 30 days and
// can be narrowed to one course.
func (s *ReportService) GetStatistics(ctx context.Context, teacher *models.Teacher, startStr, endStr string, courseID int64) (*dto.AttendanceStatisticsResponse, error) {
	end := helpers.ParseDateOrDefault(endStr, time.Now())
	start := helpers.ParseDateOrDefault(startStr, end.AddDate(0, 0, -30))
	if start.After(end) {
		return nil, fmt.Errorf("%w: start date is after end date", apperrors.ErrValidationFailed)
	}

	filter := repositories.AttendanceFilter{
		TeacherID:   teacher.ID,
		InstituteID: teacher.InstituteID,
		CourseID:    courseID,
		FromDate:    &start,
		ToDate:      &end,
	}

	statusRows, err := s.reportRepo.StatusCounts(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	dailyRows, err := s.reportRepo.DailyStatusCounts(ctx, nil, filter)
	if err != nil {
		return nil, err
	}

	overall := foldStatusCounts(statusRows)

	var dailyStats []dto.DailyStatusCount
	dayIndex := map[string]int{}
	for _, row := range dailyRows {
		day := row.Day.Format(models.DateLayout)
		idx, ok := dayIndex[day]
		if !ok {
			idx = len(dailyStats)
			dayIndex[day] = idx
			dailyStats = append(dailyStats, dto.DailyStatusCount{Date: day})
		}
		switch row.Status {
		case models.StatusPresent:
			dailyStats[idx].Present = row.Count
		case models.StatusLate:
			dailyStats[idx].Late = row.Count
		case models.StatusAbsent:
			dailyStats[idx].Absent = row.Count
		}
		dailyStats[idx].Total += row.Count
	}

	return &dto.AttendanceStatisticsResponse{
		Period: dto.StatisticsPeriod{
			StartDate: start.Format(models.DateLayout),
			EndDate:   end.Format(models.DateLayout),
		},
		OverallStats: dto.OverallStats{
			StatusCounts:      overall,
			PresentPercentage: percentage(overall.Present, overall.Total),
			LatePercentage:    percentage(overall.Late, overall.Total),
			AbsentPercentage:  percentage(overall.Absent, overall.Total),
		},
		DailyStats: dailyStats,
	}, nil
}
