package dto

// LoginRequest is the teacher login body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane.doe@institute.edu"`
	Password string `json:"password" binding:"required,min=6" example:"s3cret-pw"`
}

// LoginResponse carries the issued token pair and the teacher's profile.
type LoginResponse struct {
	Token        string         `json:"token"`
	RefreshToken string         `json:"refreshToken"`
	ExpiresIn    int            `json:"expiresIn" example:"3600"`
	Teacher      TeacherProfile `json:"teacher"`
}
