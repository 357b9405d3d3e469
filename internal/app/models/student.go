package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID                 int64  `json:"id" db:"id" example:"1"`
	RegistrationNumber string `json:"registrationNumber" db:"registration_number" example:"2024-CS-113"`
	FirstName          string `json:"firstName" db:"first_name"`
	LastName           string `json:"lastName" db:"last_name"`
	Active             bool   `json:"active" db:"active"`
	InstituteID        int64  `json:"instituteId" db:"institute_id"`
}
