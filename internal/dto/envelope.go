package dto

import "time"

// Envelope wraps every JSON response.
// Success carries Data; errors carry Message and Errors.
type Envelope struct {
	Status     string       `json:"status"`
	StatusCode int          `json:"statusCode"`
	Data       any          `json:"data,omitempty"`
	Message    string       `json:"message,omitempty"`
	Errors     *ErrorDetail `json:"errors,omitempty"`
}

type ErrorDetail struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
}

// Success returns an envelope for a 2xx payload.
func Success(code int, data any) Envelope {
	return Envelope{Status: "success", StatusCode: code, Data: data}
}

// Failure returns an envelope for an error response.
func Failure(code int, message, path string) Envelope {
	return Envelope{
		Status:     "error",
		StatusCode: code,
		Message:    message,
		Errors:     &ErrorDetail{Timestamp: time.Now().UTC(), Path: path},
	}
}
