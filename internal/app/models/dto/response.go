package dto

import "time"

// APIResponse is the standard success envelope. The success/message/data
// shape matches what the mobile clients already parse.
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Attendance recorded successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewAPIResponse creates a success envelope around data.
func NewAPIResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// PaginationInfo describes one page of a listing.
type PaginationInfo struct {
	Total int64 `json:"total" example:"142"`
	Page  int   `json:"page" example:"1"`
	Limit int   `json:"limit" example:"10"`
	Pages int   `json:"pages" example:"15"`
}
