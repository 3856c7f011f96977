// Package api defines the JSON response envelope shared by every endpoint.
package api

// Response is the uniform envelope returned by all handlers.
// Message and Data are omitted when empty so error responses stay small.
type Response struct {
	Success    bool         `json:"success"`
	Message    string       `json:"message,omitempty"`
	Data       any          `json:"data,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
	Pagination *Pagination  `json:"pagination,omitempty"`
}

// FieldError names a single failing input field and why it failed.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Pagination carries list metadata alongside a page of results.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// OK builds a success envelope with the given payload.
func OK(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Error builds a failure envelope with a single message.
func Error(message string) Response {
	return Response{Success: false, Message: message}
}

// Paginated builds a success envelope with list metadata attached.
// A non-positive limit yields zero total pages rather than dividing by it.
func Paginated(data any, total int64, page, limit int) Response {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Response{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Total:      total,
			Page:       page,
			Limit:      limit,
			TotalPages: totalPages,
		},
	}
}

// Invalid builds a validation-failure envelope carrying every failing field.
func Invalid(message string, errs []FieldError) Response {
	return Response{Success: false, Message: message, Errors: errs}
}
