package dto

// UpdateReq represents the request body for profile and admin updates.
// Nil pointers mean "leave unchanged". Role is validated here but only
// honored by the usecase when the acting account is an admin.
type UpdateReq struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,phone_format"`
	Role     *string `json:"role" binding:"omitempty,user_role"`
}
