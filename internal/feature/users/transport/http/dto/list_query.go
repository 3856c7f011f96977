package dto

// ListQuery represents the query parameters accepted by the list endpoint.
// Page and Limit must not carry omitempty: an explicit ?page=0 would then
// skip the range check entirely. Absent params get the form defaults before
// validation runs, so the gte=1 bound only ever sees real input.
type ListQuery struct {
	Page   int    `form:"page,default=1" binding:"gte=1"`
	Limit  int    `form:"limit,default=10" binding:"gte=1,lte=100"`
	Role   string `form:"role" binding:"omitempty,user_role"`
	Search string `form:"search" binding:"omitempty,max=100"`
}
