package middleware

// ErrorResponse is the shape middleware writes when it aborts a request
// before any handler runs.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}
