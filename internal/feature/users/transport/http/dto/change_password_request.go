package dto

// ChangePasswordReq represents the request body for /change-password.
// The new password is held to the same complexity rule as registration.
type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,password_complexity"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=NewPassword"`
}
