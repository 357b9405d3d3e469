package models

// Course defines the course model based on the 'courses' table
type Course struct {
	ID          int64  `json:"id" db:"id" example:"4"`
	Name        string `json:"name" db:"name" example:"Data Structures"`
	Code        string `json:"code" db:"code" example:"CS201"`
	TeacherID   int64  `json:"teacherId" db:"teacher_id"`
	InstituteID int64  `json:"instituteId" db:"institute_id"`
}
