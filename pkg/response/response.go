package response

// Response represents a standard API response format
type Response struct {
	Status     string      `json:"status"`      // "success" or "error"
	StatusCode int         `json:"status_code"` // HTTP status code
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Violations []string    `json:"violations,omitempty"` // populated for aggregated validation failures
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination carries list paging metadata alongside the data payload
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Success returns a standard success response wrapping the data
func Success(statusCode int, data interface{}) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
	}
}

// SuccessWithPagination returns a success response with paging metadata
func SuccessWithPagination(statusCode int, data interface{}, page, limit int, total int64) Response {
	return Response{
		Status:     "success",
		StatusCode: statusCode,
		Data:       data,
		Pagination: &Pagination{Page: page, Limit: limit, Total: total},
	}
}

// Error returns a standard error response wrapping the error message
func Error(statusCode int, err string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
	}
}

// ValidationFailed returns an error response carrying every violated rule
func ValidationFailed(statusCode int, err string, violations []string) Response {
	return Response{
		Status:     "error",
		StatusCode: statusCode,
		Error:      err,
		Violations: violations,
	}
}
