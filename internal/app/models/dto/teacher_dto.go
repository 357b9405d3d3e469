package dto

import "time"

// TeacherProfile is the teacher-facing view of their own account.
type TeacherProfile struct {
	ID            int64      `json:"id" example:"1"`
	EmployeeID    string     `json:"employeeId" example:"EMP-0042"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	Qualification string     `json:"qualification,omitempty"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	LastSync      *time.Time `json:"lastSync,omitempty"`
	InstituteID   int64      `json:"instituteId"`
}

// UpdateProfileRequest carries the teacher-editable profile fields. A
// password change requires the current password.
type UpdateProfileRequest struct {
	Phone           string `json:"phone,omitempty" binding:"omitempty,max=20"`
	Qualification   string `json:"qualification,omitempty" binding:"omitempty,max=100"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty" binding:"omitempty,min=6"`
}

// DashboardResponse is the teacher dashboard payload.
type DashboardResponse struct {
	Courses  int          `json:"courses" example:"3"`
	Students int          `json:"students" example:"87"`
	Today    StatusCounts `json:"today"`
	LastSync *time.Time   `json:"lastSync,omitempty"`
}
