package models

import "time"

// Teacher defines the teacher model based on the 'teachers' table
type Teacher struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	EmployeeID    string     `json:"employeeId" db:"employee_id" example:"EMP-0042"`
	FirstName     string     `json:"firstName" db:"first_name"`
	LastName      string     `json:"lastName" db:"last_name"`
	Email         string     `json:"email" db:"email"`
	Password      string     `json:"-" db:"password"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	Qualification string     `json:"qualification,omitempty" db:"qualification"`
	Active        bool       `json:"active" db:"active"`
	LastLogin     *time.Time `json:"lastLogin,omitempty" db:"last_login"`
	LastSync      *time.Time `json:"lastSync,omitempty" db:"last_sync"`
	InstituteID   int64      `json:"instituteId" db:"institute_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
