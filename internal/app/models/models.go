package models

// AttendanceStatus defines the possible states of one attendance observation
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusLate    AttendanceStatus = "Late"
	StatusAbsent  AttendanceStatus = "Absent"
)

// IsValid reports whether s is one of the known attendance statuses.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent:
		return true
	}
	return false
}

// DateLayout is the wire format for attendance dates.
const DateLayout = "2006-01-02"

// TimeLayout is the wire format for the optional timeIn field.
const TimeLayout = "15:04:05"
