// Package dto defines data transfer objects for the users feature's HTTP
// transport layer. Validation rules live in the binding tags; the custom
// tags are registered by the validation package at startup.
package dto

// RegisterReq represents the request body for the /register endpoint.
// There is deliberately no role field: every registration creates a plain
// user, and role elevation goes through the admin update path only.
type RegisterReq struct {
	Username        string `json:"username" binding:"required,min=3,max=50,username_format"`
	Email           string `json:"email" binding:"required,email,max=100"`
	Password        string `json:"password" binding:"required,min=8,password_complexity"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,eqfield=Password"`
	FullName        string `json:"full_name" binding:"omitempty,max=100"`
	Phone           string `json:"phone" binding:"omitempty,phone_format"`
}
