package models

// Response represents a generic API response structure.
type Response struct {
	Success      int         `json:"success"`
	ErrorCode    string      `json:"error_code,omitempty"`
	ErrorDetails string      `json:"error_details,omitempty"`
	Data         interface{} `json:"data,omitempty"`
}

// ErrorResponse builds the body written for a failed request.
func ErrorResponse(code, details string) Response {
	return Response{Success: 0, ErrorCode: code, ErrorDetails: details}
}

// DataResponse wraps a successful payload.
func DataResponse(data interface{}) Response {
	return Response{Success: 1, Data: data}
}
